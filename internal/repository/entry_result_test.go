package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golf-pickem/internal/domain"
)

func TestEntryGenerations(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "cantlpa01", "Patrick", "Cantlay", 0, 0)
	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")

	entryID := seedEntry(t, db, tournamentID, "cantlpa01", 2026)

	staled, err := repo.MarkAllStale(ctx, tournamentID, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), staled)

	got, err := repo.Get(ctx, tournamentID, "cantlpa01", 2026)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsMostRecent)

	require.NoError(t, repo.Revive(ctx, entryID))
	got, err = repo.Get(ctx, tournamentID, "cantlpa01", 2026)
	require.NoError(t, err)
	assert.True(t, got.IsMostRecent)
	assert.True(t, got.IsActive)

	// different year is a separate generation space
	got, err = repo.Get(ctx, tournamentID, "cantlpa01", 2025)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntryFindOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "rahmjo01", "Jon", "Rahm", 0, 0)
	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")

	created, err := repo.FindOrCreate(ctx, tournamentID, "rahmjo01", 2026)
	require.NoError(t, err)
	assert.True(t, created.IsMostRecent)

	again, err := repo.FindOrCreate(ctx, tournamentID, "rahmjo01", 2026)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestEntryListCurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "cantlpa01", "Patrick", "Cantlay", 0, 0)
	seedGolfer(t, db, "rahmjo01", "Jon", "Rahm", 0, 0)
	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")

	staleID := seedEntry(t, db, tournamentID, "cantlpa01", 2026)
	seedEntry(t, db, tournamentID, "rahmjo01", 2026)
	_, err := repo.MarkAllStale(ctx, tournamentID, 2026)
	require.NoError(t, err)
	require.NoError(t, repo.Revive(ctx, staleID))

	current, err := repo.ListCurrent(ctx, tournamentID, 2026)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "cantlpa01", current[0].Entry.GolferID)
	assert.Equal(t, "Patrick Cantlay", current[0].FullName)
	assert.Equal(t, "Cantlay", current[0].LastName)
}

func TestResultDeleteThenInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewResultRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "cantlpa01", "Patrick", "Cantlay", 0, 0)
	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")
	entryID := seedEntry(t, db, tournamentID, "cantlpa01", 2026)

	seedResult(t, db, entryID, "T5", domain.StatusComplete, -10)

	deleted, err := repo.DeleteForTournament(ctx, tournamentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	results, err := repo.ListForTournament(ctx, tournamentID)
	require.NoError(t, err)
	assert.Empty(t, results)

	seedResult(t, db, entryID, "2", domain.StatusComplete, -12)
	results, err = repo.ListForTournament(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Position)
	require.NotNil(t, results[0].ScoreToPar)
	assert.Equal(t, int64(-12), *results[0].ScoreToPar)
}

func TestResultGetForPick(t *testing.T) {
	db := newTestDB(t)
	repo := NewResultRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "cantlpa01", "Patrick", "Cantlay", 0, 0)
	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")
	entryID := seedEntry(t, db, tournamentID, "cantlpa01", 2026)
	resultID := seedResult(t, db, entryID, "T12", domain.StatusComplete, -4)

	got, err := repo.GetForPick(ctx, tournamentID, "cantlpa01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, resultID, got.ID)
	assert.Equal(t, "T12", got.Position)
	assert.Equal(t, domain.StatusComplete, got.Status)

	// golfer with no result
	got, err = repo.GetForPick(ctx, tournamentID, "nobody01")
	require.NoError(t, err)
	assert.Nil(t, got)
}
