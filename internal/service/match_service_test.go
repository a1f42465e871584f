package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/ledger"
	"github.com/AdamBeresnev/matchday/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFixture() Fixture {
	return Fixture{
		PhaseID: "p1",
		Round:   1,
		Venue:   " Estádio Municipal ",
		Date:    "2024-03-10",
		Time:    "16:00",
		Referee: "Marta",
		TeamAID: "t1",
		TeamBID: "t2",
	}
}

// registerRounds appends n rounds to the phase.
func registerRounds(t *testing.T, s *testServices, phaseID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.rounds.Append(context.Background(), phaseID)
		require.NoError(t, err)
	}
}

func TestCreateMatch(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	match, err := s.matches.Create(ctx, validFixture())
	require.NoError(t, err)

	assert.NotEmpty(t, match.ID)
	assert.Equal(t, "Estádio Municipal", match.Venue)
	assert.Equal(t, league.MatchScheduled, match.Status)
	assert.Nil(t, match.ScoreA)
	assert.Nil(t, match.ScoreB)
	assert.Empty(t, match.Goals)

	fetched, err := s.matches.Get(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ID, fetched.ID)
	assert.Equal(t, "t1", fetched.TeamAID)
	assert.Equal(t, "Marta", fetched.Referee)
}

func TestCreateMatch_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(f *Fixture)
		err    error
	}{
		{"Missing team A", func(f *Fixture) { f.TeamAID = "" }, ErrMissingRequiredField},
		{"Missing team B", func(f *Fixture) { f.TeamBID = " " }, ErrMissingRequiredField},
		{"Same team twice", func(f *Fixture) { f.TeamBID = f.TeamAID }, ErrDuplicateTeams},
		{"Missing venue", func(f *Fixture) { f.Venue = "" }, ErrMissingRequiredField},
		{"Missing date", func(f *Fixture) { f.Date = "" }, ErrMissingRequiredField},
		{"Missing time", func(f *Fixture) { f.Time = "" }, ErrMissingRequiredField},
		{"Round zero", func(f *Fixture) { f.Round = 0 }, ErrMissingRequiredField},
		{"Missing phase", func(f *Fixture) { f.PhaseID = "" }, ErrMissingRequiredField},
		{"Round never appended", func(f *Fixture) { f.Round = 2 }, ErrUnknownRound},
		{"Phase without rounds", func(f *Fixture) { f.PhaseID = "p9" }, ErrUnknownRound},
	}

	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFixture()
			tc.modify(&f)
			_, err := s.matches.Create(ctx, f)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	matches, err := s.matches.ListByPhase(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCreateMany_AllOrNothing(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	bad := validFixture()
	bad.Venue = ""
	_, err := s.matches.CreateMany(ctx, []Fixture{validFixture(), bad})
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	unregistered := validFixture()
	unregistered.Round = 3
	_, err = s.matches.CreateMany(ctx, []Fixture{validFixture(), unregistered})
	assert.ErrorIs(t, err, ErrUnknownRound)

	matches, err := s.matches.ListByPhase(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestListByRound(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 2)
	registerRounds(t, s, "p2", 1)

	for _, round := range []int{1, 1, 2} {
		f := validFixture()
		f.Round = round
		_, err := s.matches.Create(ctx, f)
		require.NoError(t, err)
	}
	other := validFixture()
	other.PhaseID = "p2"
	_, err := s.matches.Create(ctx, other)
	require.NoError(t, err)

	first, err := s.matches.ListByRound(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := s.matches.ListByRound(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	all, err := s.matches.ListByPhase(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateMatch(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	match, err := s.matches.Create(ctx, validFixture())
	require.NoError(t, err)

	updated, err := s.matches.Update(ctx, match.ID, MatchPatch{
		Venue:   utils.Ptr("Campo Norte"),
		Time:    utils.Ptr("18:30"),
		TeamBID: utils.Ptr("t3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Campo Norte", updated.Venue)
	assert.Equal(t, "18:30", updated.Time)
	assert.Equal(t, "t3", updated.TeamBID)
	assert.Equal(t, match.Date, updated.Date)

	_, err = s.matches.Update(ctx, match.ID, MatchPatch{Venue: utils.Ptr("  ")})
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	_, err = s.matches.Update(ctx, "missing", MatchPatch{Venue: utils.Ptr("x")})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	fetched, err := s.matches.Get(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campo Norte", fetched.Venue)
}

func TestUpdateMatch_Round(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	match, err := s.matches.Create(ctx, validFixture())
	require.NoError(t, err)

	_, err = s.matches.Update(ctx, match.ID, MatchPatch{Round: utils.Ptr(99)})
	assert.ErrorIs(t, err, ErrUnknownRound)

	registerRounds(t, s, "p1", 1)
	updated, err := s.matches.Update(ctx, match.ID, MatchPatch{Round: utils.Ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Round)

	rounds, err := s.rounds.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rounds, "updates never register rounds")
}

func TestUpdateMatch_RejectsLiveFields(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	match, err := s.matches.Create(ctx, validFixture())
	require.NoError(t, err)

	finished := league.MatchFinished
	patches := map[string]MatchPatch{
		"score":      {ScoreA: utils.Ptr(3)},
		"status":     {Status: &finished},
		"attendance": {Attendance: &[]string{"p1"}},
		"goals":      {Goals: &[]league.Goal{{PlayerID: "p1"}}},
		"cards":      {Cards: &[]league.Card{}},
	}
	for name, patch := range patches {
		t.Run(name, func(t *testing.T) {
			_, err := s.matches.Update(ctx, match.ID, patch)
			assert.ErrorIs(t, err, ErrLiveTrackingField)
		})
	}

	fetched, err := s.matches.Get(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, league.MatchScheduled, fetched.Status)
	assert.Nil(t, fetched.ScoreA)
}

func TestUpdateMatch_TeamsLockedOnceLive(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	match, err := s.matches.Create(ctx, validFixture())
	require.NoError(t, err)

	matches, err := s.store.Matches(ctx)
	require.NoError(t, err)
	matches[0].Attendance = []string{"p1"}
	require.NoError(t, s.store.SaveMatches(ctx, matches))

	_, err = s.matches.Update(ctx, match.ID, MatchPatch{TeamAID: utils.Ptr("t9")})
	assert.ErrorIs(t, err, ErrTeamsLocked)

	updated, err := s.matches.Update(ctx, match.ID, MatchPatch{Referee: utils.Ptr("Paulo")})
	require.NoError(t, err)
	assert.Equal(t, "Paulo", updated.Referee)
	assert.Equal(t, []string{"p1"}, updated.Attendance)
}

func TestDeleteMatch(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	registerRounds(t, s, "p1", 1)
	match, err := s.matches.Create(ctx, validFixture())
	require.NoError(t, err)

	require.NoError(t, s.matches.Delete(ctx, match.ID))
	_, err = s.matches.Get(ctx, match.ID)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, s.matches.Delete(ctx, match.ID), ErrMatchNotFound)

	rounds, err := s.rounds.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, rounds, "deleting matches leaves the round registered")
}

func TestByeMatchIsScheduled(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	registerRounds(t, s, "p1", 1)

	f := validFixture()
	f.TeamBID = league.ByeTeamID
	match, err := s.matches.Create(ctx, f)
	require.NoError(t, err)

	assert.True(t, match.IsBye)
	assert.Equal(t, league.MatchScheduled, match.Status)

	pct, err := s.progress.PercentComplete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, pct, "nothing is played before the walkover is closed")

	walkover, err := ledger.Load(ctx, s.store, match.ID)
	require.NoError(t, err)
	require.NoError(t, walkover.Finalize(ctx))

	pct, err = s.progress.PercentComplete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, pct)
}
