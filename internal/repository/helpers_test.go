package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"golf-pickem/internal/database"
	"golf-pickem/internal/domain"
)

// newTestDB opens a throwaway sqlite database migrated with the
// production migrations.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, zerolog.Nop()))
	return db
}

func seedGolfer(t *testing.T, db *sql.DB, id, first, last string, scID, dgID int64) {
	t.Helper()
	repo := NewGolferRepository(db, zerolog.Nop())
	g := domain.Golfer{
		ID:             id,
		SportContentID: scID,
		DataGolfID:     dgID,
		FirstName:      first,
		LastName:       last,
		FullName:       first + " " + last,
	}
	require.NoError(t, repo.Insert(context.Background(), &g))
}

func seedTournament(t *testing.T, db *sql.DB, scID int64, name, format string, isMajor bool, startDate string) int64 {
	t.Helper()
	repo := NewTournamentRepository(db, zerolog.Nop())
	tournament := domain.Tournament{
		SportContentID: scID,
		Name:           name,
		Format:         format,
		IsMajor:        isMajor,
		StartDate:      startDate,
		StartTime:      "07:00:00",
		EndDate:        startDate,
		TimeZone:       "America/New_York",
	}
	require.NoError(t, repo.Upsert(context.Background(), &tournament))
	return tournament.ID
}

func seedLeagueWithMembers(t *testing.T, db *sql.DB, names ...string) (int64, []int64) {
	t.Helper()
	repo := NewLeagueRepository(db, zerolog.Nop())
	leagueID, err := repo.CreateLeague(context.Background(), "test league")
	require.NoError(t, err)

	memberIDs := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := repo.CreateMember(context.Background(), leagueID, name, name, "Tester", name+"@example.com")
		require.NoError(t, err)
		memberIDs = append(memberIDs, id)
	}
	return leagueID, memberIDs
}

func seedEntry(t *testing.T, db *sql.DB, tournamentID int64, golferID string, year int) int64 {
	t.Helper()
	repo := NewEntryRepository(db, zerolog.Nop())
	tg := domain.TournamentGolfer{
		TournamentID: tournamentID,
		GolferID:     golferID,
		Year:         year,
		IsActive:     true,
		IsMostRecent: true,
	}
	require.NoError(t, repo.Insert(context.Background(), &tg))
	return tg.ID
}

func seedResult(t *testing.T, db *sql.DB, entryID int64, position string, status domain.Status, toPar int64) string {
	t.Helper()
	repo := NewResultRepository(db, zerolog.Nop())
	result := domain.TournamentGolferResult{
		TournamentGolferID: entryID,
		Position:           position,
		Status:             status,
		ScoreToPar:         &toPar,
	}
	require.NoError(t, repo.Insert(context.Background(), &result))
	return result.ID
}

func seedPick(t *testing.T, db *sql.DB, memberID, tournamentID int64, golferID string, year int) {
	t.Helper()
	repo := NewPickRepository(db, zerolog.Nop())
	pick := domain.Pick{
		LeagueMemberID: memberID,
		TournamentID:   tournamentID,
		GolferID:       golferID,
		Year:           year,
		PickedAt:       time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(context.Background(), &pick))
}
