package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/utils"
)

// Persist flushes the working copy to the record store. Jersey edits are
// merged into the player collection first, then the live fields of the match
// are merged into the stored match. The two writes are independent.
func (l *Ledger) Persist(ctx context.Context) error {
	if err := l.persistJerseys(ctx); err != nil {
		return err
	}
	if err := l.persistMatch(ctx); err != nil {
		return err
	}

	clear(l.jerseys)
	slog.Debug("Persisted match", "match_id", l.match.ID, "status", l.match.Status)
	return nil
}

func (l *Ledger) persistJerseys(ctx context.Context) error {
	if len(l.jerseys) == 0 {
		return nil
	}

	players, err := l.store.Players(ctx)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	for i := range players {
		if number, ok := l.jerseys[players[i].ID]; ok {
			players[i].Number = copyInt(number)
		}
	}
	if err := l.store.SavePlayers(ctx, players); err != nil {
		return fmt.Errorf("failed to save jersey numbers: %w", err)
	}
	return nil
}

func (l *Ledger) persistMatch(ctx context.Context) error {
	matches, err := l.store.Matches(ctx)
	if err != nil {
		return fmt.Errorf("failed to load matches: %w", err)
	}

	i := slices.IndexFunc(matches, func(m league.Match) bool { return m.ID == l.match.ID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, l.match.ID)
	}
	stored := &matches[i]
	if stored.IsFinished() {
		return ErrMatchFinalized
	}
	if stored.TeamAID != l.match.TeamAID || stored.TeamBID != l.match.TeamBID {
		return fmt.Errorf("%w: %s", ErrStaleMatch, l.match.ID)
	}
	// Status never moves backward, even when an older working copy is saved
	if l.match.Status != stored.Status && !stored.Status.CanAdvanceTo(l.match.Status) {
		return fmt.Errorf("%w: %s is already %s", ErrStaleMatch, l.match.ID, stored.Status)
	}

	// Scheduling fields belong to the match manager and are left as stored
	live := l.match.Clone()
	stored.Attendance = live.Attendance
	stored.Goals = live.Goals
	stored.Cards = live.Cards
	stored.ScoreA = live.ScoreA
	stored.ScoreB = live.ScoreB
	stored.Status = live.Status

	if err := l.store.SaveMatches(ctx, matches); err != nil {
		return fmt.Errorf("failed to save match %s: %w", l.match.ID, err)
	}
	return nil
}

// Finalize marks the match as finished and persists it. On failure the
// working copy stays open.
func (l *Ledger) Finalize(ctx context.Context) error {
	if err := l.checkOpen(); err != nil {
		return err
	}

	previous := l.match.Status
	l.match.Status = league.MatchFinished
	if err := l.Persist(ctx); err != nil {
		l.match.Status = previous
		return err
	}

	slog.Info("Match finalized", "match_id", l.match.ID, "score_a", utils.OrZero(l.match.ScoreA), "score_b", utils.OrZero(l.match.ScoreB))
	return nil
}
