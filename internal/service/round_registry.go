package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/matchday/internal/store"
)

// RoundRegistry is the append-only ledger of round numbers for each phase.
// Removing a round's matches never removes its number.
type RoundRegistry struct {
	store *store.Collections
}

func NewRoundRegistry(store *store.Collections) *RoundRegistry {
	return &RoundRegistry{store: store}
}

func (r *RoundRegistry) List(ctx context.Context, phaseID string) ([]int, error) {
	return r.store.Rounds(ctx, phaseID)
}

// Append registers the next round of the phase and returns its number. The
// first call for a phase yields 1.
func (r *RoundRegistry) Append(ctx context.Context, phaseID string) (int, error) {
	rounds, err := r.store.Rounds(ctx, phaseID)
	if err != nil {
		return 0, err
	}

	next := 1
	if n := len(rounds); n > 0 {
		next = rounds[n-1] + 1
	}

	if err := r.store.SaveRounds(ctx, phaseID, append(rounds, next)); err != nil {
		return 0, fmt.Errorf("failed to append round to phase %s: %w", phaseID, err)
	}
	return next, nil
}
