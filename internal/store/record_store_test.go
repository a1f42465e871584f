package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/utils"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

// recordStores runs a test against every RecordStore implementation.
func recordStores(t *testing.T, run func(t *testing.T, records RecordStore)) {
	t.Run("sql", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		run(t, NewSQLRecordStore(db))
	})
	t.Run("memory", func(t *testing.T) {
		run(t, NewMemoryRecordStore())
	})
}

func TestRecordStore_ReadWrite(t *testing.T) {
	recordStores(t, func(t *testing.T, records RecordStore) {
		ctx := context.Background()

		_, ok, err := records.Read(ctx, "jogos")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, records.Write(ctx, "jogos", json.RawMessage(`[{"id":"1"}]`)))
		value, ok, err := records.Read(ctx, "jogos")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `[{"id":"1"}]`, string(value))

		require.NoError(t, records.Write(ctx, "jogos", json.RawMessage(`[]`)))
		value, ok, err = records.Read(ctx, "jogos")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `[]`, string(value))
	})
}

func TestMemoryRecordStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	records := NewMemoryRecordStore()

	raw := json.RawMessage(`["a"]`)
	require.NoError(t, records.Write(ctx, "k", raw))
	raw[2] = 'b'

	value, _, err := records.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(value))
}

func TestCollections_AbsentKeysReadEmpty(t *testing.T) {
	recordStores(t, func(t *testing.T, records RecordStore) {
		ctx := context.Background()
		c := NewCollections(records)

		phases, err := c.Phases(ctx, "c1")
		require.NoError(t, err)
		assert.NotNil(t, phases)
		assert.Empty(t, phases)

		rounds, err := c.Rounds(ctx, "p1")
		require.NoError(t, err)
		assert.Empty(t, rounds)

		// Reading never creates the key
		_, ok, err := records.Read(ctx, RoundsKey("p1"))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCollections_RoundTrip(t *testing.T) {
	recordStores(t, func(t *testing.T, records RecordStore) {
		ctx := context.Background()
		c := NewCollections(records)

		matches := []league.Match{{
			ID:         "m1",
			PhaseID:    "p1",
			Round:      1,
			Venue:      "Campo",
			Date:       "2024-01-01",
			Time:       "09:00",
			TeamAID:    "t1",
			TeamBID:    "t2",
			ScoreA:     utils.Ptr(1),
			ScoreB:     utils.Ptr(0),
			Status:     league.MatchInProgress,
			Attendance: []string{"j1"},
			Goals:      []league.Goal{{PlayerID: "j1", Minute: utils.Ptr(7)}},
		}}
		require.NoError(t, c.SaveMatches(ctx, matches))

		stored, err := c.Matches(ctx)
		require.NoError(t, err)
		assert.Equal(t, matches, stored)

		players := []league.Player{{ID: "j1", Name: "João", TeamID: "t1", Number: utils.Ptr(9)}}
		require.NoError(t, c.SavePlayers(ctx, players))
		storedPlayers, err := c.Players(ctx)
		require.NoError(t, err)
		assert.Equal(t, players, storedPlayers)

		require.NoError(t, c.SaveRounds(ctx, "p1", []int{1, 2}))
		rounds, err := c.Rounds(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, rounds)
	})
}

func TestCollections_PortugueseFieldNames(t *testing.T) {
	ctx := context.Background()
	records := NewMemoryRecordStore()
	c := NewCollections(records)

	require.NoError(t, c.SaveGroups(ctx, "p1", []league.Group{{ID: "g1", Name: "Grupo A", PhaseID: "p1", TeamIDs: []string{"t1"}}}))

	raw, ok, err := records.Read(ctx, "grupos_p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"g1","nome":"Grupo A","faseId":"p1","equipes":["t1"]}]`, string(raw))
}

func TestCollections_MalformedRecords(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
		read  func(c *Collections) error
	}{
		{
			name:  "Not a list",
			key:   MatchesKey,
			value: `{"id":"m1"}`,
			read:  func(c *Collections) error { _, err := c.Matches(context.Background()); return err },
		},
		{
			name:  "Wrong field type",
			key:   TeamsKey,
			value: `[{"id":"t1","nome":42}]`,
			read:  func(c *Collections) error { _, err := c.Teams(context.Background()); return err },
		},
		{
			name:  "Unknown status",
			key:   MatchesKey,
			value: `[{"id":"m1","faseId":"p1","rodada":1,"timeA":"a","timeB":"b","status":"PAUSADO"}]`,
			read:  func(c *Collections) error { _, err := c.Matches(context.Background()); return err },
		},
		{
			name:  "Jersey number out of range",
			key:   PlayersKey,
			value: `[{"id":"j1","equipeId":"t1","numero":1000}]`,
			read:  func(c *Collections) error { _, err := c.Players(context.Background()); return err },
		},
		{
			name:  "Round gap",
			key:   RoundsKey("p1"),
			value: `[1,3]`,
			read:  func(c *Collections) error { _, err := c.Rounds(context.Background(), "p1"); return err },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := NewMemoryRecordStore()
			require.NoError(t, records.Write(context.Background(), tc.key, json.RawMessage(tc.value)))

			err := tc.read(NewCollections(records))
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestCollections_UnknownFieldsTolerated(t *testing.T) {
	ctx := context.Background()
	records := NewMemoryRecordStore()
	require.NoError(t, records.Write(ctx, TeamsKey, json.RawMessage(`[{"id":"t1","nome":"Leões","cor":"azul"}]`)))

	teams, err := NewCollections(records).Teams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Leões", teams[0].Name)
}
