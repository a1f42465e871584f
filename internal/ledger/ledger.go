// Package ledger tracks one match while it is played: who is present, the
// goals and cards, and the score derived from the goals.
//
// A Ledger mutates an in-memory working copy. Nothing reaches the record
// store until Persist (or Finalize) is called.
package ledger

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/store"
	"golang.org/x/sync/errgroup"
)

type Ledger struct {
	store *store.Collections

	match  league.Match
	roster []league.Player
	teamOf map[string]string

	// Jersey numbers edited since the last persist, keyed by player
	jerseys map[string]*int

	// Score in place before the first goal, restored when no goals remain
	baseScoreA *int
	baseScoreB *int
}

// Snapshot is the serializable state of a ledger between requests.
type Snapshot struct {
	Match      league.Match    `json:"jogo"`
	Jerseys    map[string]*int `json:"numeros,omitempty"`
	BaseScoreA *int            `json:"placarBaseA,omitempty"`
	BaseScoreB *int            `json:"placarBaseB,omitempty"`
}

// Load reads the match and the players of both teams.
func Load(ctx context.Context, records *store.Collections, matchID string) (*Ledger, error) {
	var (
		matches []league.Match
		players []league.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = records.Matches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = records.Players(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}

	i := slices.IndexFunc(matches, func(m league.Match) bool { return m.ID == matchID })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	match := matches[i].Clone()
	l, err := newLedger(records, match, players, nil)
	if err != nil {
		return nil, err
	}
	if len(match.Goals) == 0 {
		l.baseScoreA = copyInt(match.ScoreA)
		l.baseScoreB = copyInt(match.ScoreB)
	}
	return l, nil
}

// Resume rebuilds a ledger from a snapshot, reloading the roster from the store.
func Resume(ctx context.Context, records *store.Collections, snap Snapshot) (*Ledger, error) {
	players, err := records.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for match %s: %w", snap.Match.ID, err)
	}
	l, err := newLedger(records, snap.Match.Clone(), players, snap.Jerseys)
	if err != nil {
		return nil, err
	}
	l.baseScoreA = copyInt(snap.BaseScoreA)
	l.baseScoreB = copyInt(snap.BaseScoreB)
	return l, nil
}

func newLedger(records *store.Collections, match league.Match, players []league.Player, jerseys map[string]*int) (*Ledger, error) {
	// Empty event lists are normalized to nil
	if len(match.Attendance) == 0 {
		match.Attendance = nil
	}
	if len(match.Goals) == 0 {
		match.Goals = nil
	}
	if len(match.Cards) == 0 {
		match.Cards = nil
	}

	l := &Ledger{
		store:   records,
		match:   match,
		teamOf:  make(map[string]string),
		jerseys: make(map[string]*int),
	}

	// Team A's players first, then team B's, each in stored order
	for _, teamID := range []string{match.TeamAID, match.TeamBID} {
		for _, p := range players {
			if p.TeamID == teamID {
				l.roster = append(l.roster, p)
				l.teamOf[p.ID] = teamID
			}
		}
	}

	for id, number := range jerseys {
		if err := l.setJersey(id, number); err != nil {
			return nil, err
		}
	}

	if len(match.Goals) > 0 {
		a, b, err := league.ReplayScore(&l.match, l.lookupTeam)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScoreMismatch, err)
		}
		if match.ScoreA == nil || match.ScoreB == nil || *match.ScoreA != a || *match.ScoreB != b {
			return nil, fmt.Errorf("%w: match %s", ErrScoreMismatch, match.ID)
		}
	}
	return l, nil
}

func (l *Ledger) lookupTeam(playerID string) (string, bool) {
	teamID, ok := l.teamOf[playerID]
	return teamID, ok
}

// Match returns a copy of the working match.
func (l *Ledger) Match() league.Match {
	return l.match.Clone()
}

// Roster returns the players of both teams with local jersey edits applied.
func (l *Ledger) Roster() []league.Player {
	return slices.Clone(l.roster)
}

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Match:      l.match.Clone(),
		Jerseys:    maps.Clone(l.jerseys),
		BaseScoreA: copyInt(l.baseScoreA),
		BaseScoreB: copyInt(l.baseScoreB),
	}
}

func (l *Ledger) IsPresent(playerID string) bool {
	return l.match.IsPresent(playerID)
}
