package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/matchday/internal/league"
	"golang.org/x/sync/errgroup"
)

type ProgressService struct {
	rounds  *RoundRegistry
	matches *MatchService
}

func NewProgressService(rounds *RoundRegistry, matches *MatchService) *ProgressService {
	return &ProgressService{rounds: rounds, matches: matches}
}

// percentComplete rounds half up: 1 of 3 is 33, 1 of 8 (12.5) is 13.
func percentComplete(finished, total int) int {
	if total == 0 {
		return 0
	}
	return (200*finished + total) / (2 * total)
}

func (s *ProgressService) PercentComplete(ctx context.Context, phaseID string) (int, error) {
	matches, err := s.matches.ListByPhase(ctx, phaseID)
	if err != nil {
		return 0, fmt.Errorf("failed to load matches for phase %s: %w", phaseID, err)
	}
	return percentComplete(countFinished(matches), len(matches)), nil
}

func countFinished(matches []league.Match) int {
	n := 0
	for _, m := range matches {
		if m.IsFinished() {
			n++
		}
	}
	return n
}

type PhaseOverview struct {
	PhaseID         string                 `json:"faseId"`
	Rounds          []int                  `json:"rodadas"`
	MatchesByRound  map[int][]league.Match `json:"jogosPorRodada"`
	TotalMatches    int                    `json:"totalJogos"`
	FinishedMatches int                    `json:"jogosEncerrados"`
	PercentComplete int                    `json:"percentual"`
}

// Overview loads a phase's rounds and matches concurrently and groups the
// matches by round.
func (s *ProgressService) Overview(ctx context.Context, phaseID string) (*PhaseOverview, error) {
	var (
		rounds  []int
		matches []league.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rounds, err = s.rounds.List(gctx, phaseID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matches.ListByPhase(gctx, phaseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load phase %s: %w", phaseID, err)
	}

	byRound := make(map[int][]league.Match, len(rounds))
	for _, r := range rounds {
		byRound[r] = []league.Match{}
	}
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
	}

	finished := countFinished(matches)
	return &PhaseOverview{
		PhaseID:         phaseID,
		Rounds:          rounds,
		MatchesByRound:  byRound,
		TotalMatches:    len(matches),
		FinishedMatches: finished,
		PercentComplete: percentComplete(finished, len(matches)),
	}, nil
}
