package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/store"
	"github.com/google/uuid"
)

// MatchService owns match documents outside of live tracking: creation,
// scheduling edits and removal.
type MatchService struct {
	store  *store.Collections
	rounds *RoundRegistry
}

func NewMatchService(store *store.Collections, rounds *RoundRegistry) *MatchService {
	return &MatchService{store: store, rounds: rounds}
}

type Fixture struct {
	PhaseID string `json:"faseId"`
	Round   int    `json:"rodada"`
	Venue   string `json:"local"`
	Date    string `json:"data"`
	Time    string `json:"hora"`
	Referee string `json:"juiz"`
	TeamAID string `json:"timeA"`
	TeamBID string `json:"timeB"`
}

// MatchPatch carries optional field updates. The live tracking fields are
// present only so that attempts to set them can be refused.
type MatchPatch struct {
	Round   *int    `json:"rodada,omitempty"`
	Venue   *string `json:"local,omitempty"`
	Date    *string `json:"data,omitempty"`
	Time    *string `json:"hora,omitempty"`
	Referee *string `json:"juiz,omitempty"`
	TeamAID *string `json:"timeA,omitempty"`
	TeamBID *string `json:"timeB,omitempty"`

	ScoreA     *int                `json:"placarA,omitempty"`
	ScoreB     *int                `json:"placarB,omitempty"`
	Status     *league.MatchStatus `json:"status,omitempty"`
	Attendance *[]string           `json:"jogadoresPresenca,omitempty"`
	Goals      *[]league.Goal      `json:"gols,omitempty"`
	Cards      *[]league.Card      `json:"cartoes,omitempty"`
}

func (p MatchPatch) touchesLiveFields() bool {
	return p.ScoreA != nil || p.ScoreB != nil || p.Status != nil ||
		p.Attendance != nil || p.Goals != nil || p.Cards != nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateFixture(f Fixture) error {
	switch {
	case blank(f.PhaseID):
		return fmt.Errorf("%w: phase", ErrMissingRequiredField)
	case f.Round < 1:
		return fmt.Errorf("%w: round", ErrMissingRequiredField)
	case blank(f.TeamAID) || blank(f.TeamBID):
		return fmt.Errorf("%w: both teams must be selected", ErrMissingRequiredField)
	case f.TeamAID == f.TeamBID:
		return ErrDuplicateTeams
	case blank(f.Venue):
		return fmt.Errorf("%w: venue", ErrMissingRequiredField)
	case blank(f.Date):
		return fmt.Errorf("%w: date", ErrMissingRequiredField)
	case blank(f.Time):
		return fmt.Errorf("%w: time", ErrMissingRequiredField)
	}
	return nil
}

func newMatch(f Fixture) league.Match {
	m := league.Match{
		ID:      uuid.NewString(),
		PhaseID: f.PhaseID,
		Round:   f.Round,
		Venue:   strings.TrimSpace(f.Venue),
		Date:    strings.TrimSpace(f.Date),
		Time:    strings.TrimSpace(f.Time),
		Referee: strings.TrimSpace(f.Referee),
		TeamAID: f.TeamAID,
		TeamBID: f.TeamBID,
		Status:  league.MatchScheduled,
	}
	// A walkover is scheduled like any match and closed through the ledger
	if f.TeamAID == league.ByeTeamID || f.TeamBID == league.ByeTeamID {
		m.IsBye = true
	}
	return m
}

func (s *MatchService) Create(ctx context.Context, f Fixture) (*league.Match, error) {
	created, err := s.CreateMany(ctx, []Fixture{f})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateMany validates every fixture before writing any of them.
func (s *MatchService) CreateMany(ctx context.Context, fixtures []Fixture) ([]league.Match, error) {
	for i, f := range fixtures {
		if err := validateFixture(f); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i+1, err)
		}
	}
	if err := s.checkRounds(ctx, fixtures); err != nil {
		return nil, err
	}

	matches, err := s.store.Matches(ctx)
	if err != nil {
		return nil, err
	}

	created := make([]league.Match, 0, len(fixtures))
	for _, f := range fixtures {
		created = append(created, newMatch(f))
	}

	if err := s.store.SaveMatches(ctx, append(matches, created...)); err != nil {
		return nil, fmt.Errorf("failed to save matches: %w", err)
	}
	return created, nil
}

// checkRounds makes sure every fixture sits in a round already appended to
// its phase.
func (s *MatchService) checkRounds(ctx context.Context, fixtures []Fixture) error {
	registered := make(map[string][]int)
	for i, f := range fixtures {
		rounds, ok := registered[f.PhaseID]
		if !ok {
			var err error
			rounds, err = s.rounds.List(ctx, f.PhaseID)
			if err != nil {
				return err
			}
			registered[f.PhaseID] = rounds
		}
		if !slices.Contains(rounds, f.Round) {
			return fmt.Errorf("fixture %d: %w: round %d of phase %s", i+1, ErrUnknownRound, f.Round, f.PhaseID)
		}
	}
	return nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (*league.Match, error) {
	matches, err := s.store.Matches(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(matches, func(m league.Match) bool { return m.ID == matchID })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return &matches[i], nil
}

func (s *MatchService) ListByPhase(ctx context.Context, phaseID string) ([]league.Match, error) {
	return s.list(ctx, func(m league.Match) bool { return m.PhaseID == phaseID })
}

func (s *MatchService) ListByRound(ctx context.Context, phaseID string, round int) ([]league.Match, error) {
	return s.list(ctx, func(m league.Match) bool { return m.PhaseID == phaseID && m.Round == round })
}

func (s *MatchService) list(ctx context.Context, keep func(league.Match) bool) ([]league.Match, error) {
	matches, err := s.store.Matches(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]league.Match, 0)
	for _, m := range matches {
		if keep(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (s *MatchService) Update(ctx context.Context, matchID string, patch MatchPatch) (*league.Match, error) {
	if patch.touchesLiveFields() {
		return nil, ErrLiveTrackingField
	}

	matches, err := s.store.Matches(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(matches, func(m league.Match) bool { return m.ID == matchID })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	current := matches[i]
	updated := current.Clone()
	applyPatch(&updated, patch)

	if (updated.TeamAID != current.TeamAID || updated.TeamBID != current.TeamBID) && current.HasLiveState() {
		return nil, ErrTeamsLocked
	}
	if err := validateFixture(fixtureOf(updated)); err != nil {
		return nil, err
	}
	if updated.Round != current.Round {
		if err := s.checkRounds(ctx, []Fixture{fixtureOf(updated)}); err != nil {
			return nil, err
		}
	}

	matches[i] = updated
	if err := s.store.SaveMatches(ctx, matches); err != nil {
		return nil, fmt.Errorf("failed to save match %s: %w", matchID, err)
	}
	return &updated, nil
}

func applyPatch(m *league.Match, p MatchPatch) {
	if p.Round != nil {
		m.Round = *p.Round
	}
	if p.Venue != nil {
		m.Venue = strings.TrimSpace(*p.Venue)
	}
	if p.Date != nil {
		m.Date = strings.TrimSpace(*p.Date)
	}
	if p.Time != nil {
		m.Time = strings.TrimSpace(*p.Time)
	}
	if p.Referee != nil {
		m.Referee = strings.TrimSpace(*p.Referee)
	}
	if p.TeamAID != nil {
		m.TeamAID = *p.TeamAID
	}
	if p.TeamBID != nil {
		m.TeamBID = *p.TeamBID
	}
}

func fixtureOf(m league.Match) Fixture {
	return Fixture{
		PhaseID: m.PhaseID,
		Round:   m.Round,
		Venue:   m.Venue,
		Date:    m.Date,
		Time:    m.Time,
		Referee: m.Referee,
		TeamAID: m.TeamAID,
		TeamBID: m.TeamBID,
	}
}

func (s *MatchService) Delete(ctx context.Context, matchID string) error {
	matches, err := s.store.Matches(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(matches, func(m league.Match) bool { return m.ID == matchID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return s.store.SaveMatches(ctx, slices.Delete(matches, i, i+1))
}
