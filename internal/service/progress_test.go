package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentComplete_Rounding(t *testing.T) {
	testCases := []struct {
		finished, total, expected int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{1, 201, 0},
		{3, 3, 100},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, percentComplete(tc.finished, tc.total), "%d of %d", tc.finished, tc.total)
	}
}

func TestPercentComplete(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	pct, err := s.progress.PercentComplete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, pct, "a phase without matches")

	registerRounds(t, s, "p1", 1)

	var ids []string
	for i := 0; i < 3; i++ {
		m, err := s.matches.Create(ctx, validFixture())
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	matches, err := s.store.Matches(ctx)
	require.NoError(t, err)
	for i := range matches {
		if matches[i].ID == ids[0] {
			matches[i].Status = league.MatchFinished
		}
	}
	require.NoError(t, s.store.SaveMatches(ctx, matches))

	pct, err = s.progress.PercentComplete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 33, pct)
}

func TestPhaseOverview(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	seedTeams(t, s.store, 3)

	schedule := Schedule{Venue: "Arena", Date: "2024-06-01", Time: "10:00"}
	_, err := s.brackets.GenerateRound(ctx, "p1", []string{"t1", "t2", "t3"}, schedule)
	require.NoError(t, err)
	_, err = s.rounds.Append(ctx, "p1")
	require.NoError(t, err)

	overview, err := s.progress.Overview(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, overview.Rounds)
	assert.Len(t, overview.MatchesByRound[1], 2)
	assert.Empty(t, overview.MatchesByRound[2])
	assert.Equal(t, 2, overview.TotalMatches)
	assert.Equal(t, 0, overview.FinishedMatches, "the bye is not played until closed")
	assert.Equal(t, 0, overview.PercentComplete)
}
