package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/store"
)

type Pairing struct {
	TeamA league.Team
	TeamB league.Team
}

// GeneratePairs pairs teams in the order given: (0,1), (2,3), ... An odd
// count gets the bye opponent appended, so the last team advances unplayed.
// Seeding is left to the caller.
func GeneratePairs(teams []league.Team) ([]Pairing, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientTeams, len(teams))
	}

	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if t.IsBye() {
			return nil, ErrInvalidTeam
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: %s appears twice", ErrDuplicateTeams, t.ID)
		}
		seen[t.ID] = true
	}

	slots := make([]league.Team, len(teams), len(teams)+1)
	copy(slots, teams)
	if len(slots)%2 != 0 {
		slots = append(slots, league.ByeTeam)
	}

	pairs := make([]Pairing, 0, len(slots)/2)
	for i := 0; i < len(slots); i += 2 {
		pairs = append(pairs, Pairing{TeamA: slots[i], TeamB: slots[i+1]})
	}
	return pairs, nil
}

type BracketService struct {
	store   *store.Collections
	rounds  *RoundRegistry
	matches *MatchService
}

func NewBracketService(store *store.Collections, rounds *RoundRegistry, matches *MatchService) *BracketService {
	return &BracketService{store: store, rounds: rounds, matches: matches}
}

// Schedule is shared by every match of a generated round.
type Schedule struct {
	Venue   string `json:"local"`
	Date    string `json:"data"`
	Time    string `json:"hora"`
	Referee string `json:"juiz"`
}

type GeneratedRound struct {
	Round   int            `json:"rodada"`
	Matches []league.Match `json:"jogos"`
}

// GenerateRound pairs the given teams, appends a new round to the phase and
// materializes one match per pairing. Every fixture is validated before the
// round is appended. The round is written before its matches, so a failed
// match write leaves an empty round registered, never matches in a round the
// registry does not know.
func (s *BracketService) GenerateRound(ctx context.Context, phaseID string, teamIDs []string, schedule Schedule) (*GeneratedRound, error) {
	teams, err := s.resolveTeams(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	pairs, err := GeneratePairs(teams)
	if err != nil {
		return nil, err
	}

	fixtures := make([]Fixture, 0, len(pairs))
	for _, p := range pairs {
		fixtures = append(fixtures, Fixture{
			PhaseID: phaseID,
			Round:   1, // placeholder until the round is appended
			Venue:   schedule.Venue,
			Date:    schedule.Date,
			Time:    schedule.Time,
			Referee: schedule.Referee,
			TeamAID: p.TeamA.ID,
			TeamBID: p.TeamB.ID,
		})
	}
	for i, f := range fixtures {
		if err := validateFixture(f); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i+1, err)
		}
	}

	round, err := s.rounds.Append(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	for i := range fixtures {
		fixtures[i].Round = round
	}

	created, err := s.matches.CreateMany(ctx, fixtures)
	if err != nil {
		return nil, fmt.Errorf("round %d registered but its matches were not saved: %w", round, err)
	}
	return &GeneratedRound{Round: round, Matches: created}, nil
}

func (s *BracketService) resolveTeams(ctx context.Context, teamIDs []string) ([]league.Team, error) {
	all, err := s.store.Teams(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]league.Team, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	teams := make([]league.Team, 0, len(teamIDs))
	for _, id := range teamIDs {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
		}
		teams = append(teams, t)
	}
	return teams, nil
}
