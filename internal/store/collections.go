package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/matchday/internal/league"
)

var ErrMalformedRecord = errors.New("malformed record")

const (
	MatchesKey = "jogos"
	TeamsKey   = "equipes"
	PlayersKey = "jogadores"
)

func PhasesKey(championshipID string) string {
	return "fases_" + championshipID
}

func GroupsKey(phaseID string) string {
	return "grupos_" + phaseID
}

func RoundsKey(phaseID string) string {
	return "rodadas_" + phaseID
}

// Collections is the typed view over a RecordStore. Every read is parsed and
// validated; an absent key reads as an empty collection.
type Collections struct {
	records RecordStore
}

func NewCollections(records RecordStore) *Collections {
	return &Collections{records: records}
}

type document interface {
	Validate() error
}

func readList[T document](ctx context.Context, records RecordStore, key string) ([]T, error) {
	raw, ok, err := records.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, key, err)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, key, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeList[T any](ctx context.Context, records RecordStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return records.Write(ctx, key, raw)
}

func (c *Collections) Phases(ctx context.Context, championshipID string) ([]league.Phase, error) {
	return readList[league.Phase](ctx, c.records, PhasesKey(championshipID))
}

func (c *Collections) SavePhases(ctx context.Context, championshipID string, phases []league.Phase) error {
	return writeList(ctx, c.records, PhasesKey(championshipID), phases)
}

func (c *Collections) Groups(ctx context.Context, phaseID string) ([]league.Group, error) {
	return readList[league.Group](ctx, c.records, GroupsKey(phaseID))
}

func (c *Collections) SaveGroups(ctx context.Context, phaseID string, groups []league.Group) error {
	return writeList(ctx, c.records, GroupsKey(phaseID), groups)
}

func (c *Collections) Rounds(ctx context.Context, phaseID string) ([]int, error) {
	key := RoundsKey(phaseID)
	raw, ok, err := c.records.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []int{}, nil
	}

	var rounds []int
	if err := json.Unmarshal(raw, &rounds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, key, err)
	}
	if err := league.ValidateRounds(rounds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, key, err)
	}
	if rounds == nil {
		rounds = []int{}
	}
	return rounds, nil
}

func (c *Collections) SaveRounds(ctx context.Context, phaseID string, rounds []int) error {
	return writeList(ctx, c.records, RoundsKey(phaseID), rounds)
}

func (c *Collections) Matches(ctx context.Context) ([]league.Match, error) {
	return readList[league.Match](ctx, c.records, MatchesKey)
}

func (c *Collections) SaveMatches(ctx context.Context, matches []league.Match) error {
	return writeList(ctx, c.records, MatchesKey, matches)
}

func (c *Collections) Teams(ctx context.Context) ([]league.Team, error) {
	return readList[league.Team](ctx, c.records, TeamsKey)
}

func (c *Collections) SaveTeams(ctx context.Context, teams []league.Team) error {
	return writeList(ctx, c.records, TeamsKey, teams)
}

func (c *Collections) Players(ctx context.Context) ([]league.Player, error) {
	return readList[league.Player](ctx, c.records, PlayersKey)
}

func (c *Collections) SavePlayers(ctx context.Context, players []league.Player) error {
	return writeList(ctx, c.records, PlayersKey, players)
}
