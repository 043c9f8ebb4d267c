package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"golf-pickem/internal/api"
	"golf-pickem/internal/config"
	"golf-pickem/internal/database"
	"golf-pickem/internal/domain"
	"golf-pickem/internal/repository"
	"golf-pickem/internal/status"
)

type fixture struct {
	db          *sql.DB
	cfg         *config.Config
	golfers     *repository.GolferRepository
	tournaments *repository.TournamentRepository
	entries     *repository.EntryRepository
	results     *repository.ResultRepository
	leagues     *repository.LeagueRepository
	picks       *repository.PickRepository
	scores      *repository.ScoreRepository
	normalizer  *status.Normalizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	log := zerolog.Nop()
	cfg := &config.Config{
		UnknownStatusPolicy: config.UnknownStatusComplete,
		StaggeredParBase:    280,
	}
	normalizer, err := status.NewNormalizer(context.Background(),
		repository.NewStatusMappingRepository(db, log), cfg.UnknownStatusPolicy, log)
	require.NoError(t, err)

	return &fixture{
		db:          db,
		cfg:         cfg,
		golfers:     repository.NewGolferRepository(db, log),
		tournaments: repository.NewTournamentRepository(db, log),
		entries:     repository.NewEntryRepository(db, log),
		results:     repository.NewResultRepository(db, log),
		leagues:     repository.NewLeagueRepository(db, log),
		picks:       repository.NewPickRepository(db, log),
		scores:      repository.NewScoreRepository(db, log),
		normalizer:  normalizer,
	}
}

func (f *fixture) fieldService(source FieldSource, entrySource EntrySource) *FieldService {
	return NewFieldService(f.db, source, entrySource, f.tournaments, f.golfers, f.entries, zerolog.Nop())
}

func (f *fixture) ingestService(source LeaderboardSource) *IngestService {
	return NewIngestService(f.db, f.cfg, source, f.tournaments, f.golfers, f.entries, f.results, f.normalizer, zerolog.Nop())
}

func (f *fixture) scoreService(ingest *IngestService) *ScoreService {
	if ingest == nil {
		ingest = f.ingestService(&fakeLeaderboard{err: api.ErrNoData})
	}
	return NewScoreService(f.db, f.tournaments, f.leagues, f.picks, f.results, f.scores, ingest, zerolog.Nop())
}

func (f *fixture) seedGolfer(t *testing.T, id, first, last string, scID, dgID int64) {
	t.Helper()
	g := domain.Golfer{
		ID:             id,
		SportContentID: scID,
		DataGolfID:     dgID,
		FirstName:      first,
		LastName:       last,
		FullName:       first + " " + last,
	}
	require.NoError(t, f.golfers.Insert(context.Background(), &g))
}

func (f *fixture) seedTournament(t *testing.T, scID int64, name, format string, isMajor bool, startDate string) *domain.Tournament {
	t.Helper()
	tournament := &domain.Tournament{
		SportContentID: scID,
		Name:           name,
		Format:         format,
		IsMajor:        isMajor,
		StartDate:      startDate,
		StartTime:      "07:00:00",
		EndDate:        startDate,
		TimeZone:       "America/New_York",
	}
	require.NoError(t, f.tournaments.Upsert(context.Background(), tournament))
	return tournament
}

func (f *fixture) seedEntry(t *testing.T, tournamentID int64, golferID string, year int) int64 {
	t.Helper()
	tg := domain.TournamentGolfer{
		TournamentID: tournamentID,
		GolferID:     golferID,
		Year:         year,
		IsActive:     true,
		IsMostRecent: true,
	}
	require.NoError(t, f.entries.Insert(context.Background(), &tg))
	return tg.ID
}

func (f *fixture) seedPick(t *testing.T, memberID, tournamentID int64, golferID string, year int) {
	t.Helper()
	pick := domain.Pick{
		LeagueMemberID: memberID,
		TournamentID:   tournamentID,
		GolferID:       golferID,
		Year:           year,
		PickedAt:       time.Now().UTC(),
	}
	require.NoError(t, f.picks.Insert(context.Background(), &pick))
}

func (f *fixture) seedLeague(t *testing.T, names ...string) (int64, []int64) {
	t.Helper()
	leagueID, err := f.leagues.CreateLeague(context.Background(), "test league")
	require.NoError(t, err)
	memberIDs := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := f.leagues.CreateMember(context.Background(), leagueID, name, name, "Tester", name+"@example.com")
		require.NoError(t, err)
		memberIDs = append(memberIDs, id)
	}
	return leagueID, memberIDs
}

// fakes for the provider interfaces

type fakeField struct {
	resp *api.FieldUpdatesResponse
	err  error
}

func (f *fakeField) GetFieldUpdates(_ context.Context, _ string) (*api.FieldUpdatesResponse, error) {
	return f.resp, f.err
}

type fakeEntryList struct {
	resp *api.EntryListResponse
	err  error
}

func (f *fakeEntryList) GetEntryList(_ context.Context, _ int64) (*api.EntryListResponse, error) {
	return f.resp, f.err
}

type fakeLeaderboard struct {
	resp *api.LeaderboardResponse
	err  error
}

func (f *fakeLeaderboard) GetLeaderboard(_ context.Context, _ int64) (*api.LeaderboardResponse, error) {
	return f.resp, f.err
}

type fakeFixtures struct {
	resp *api.FixturesResponse
	err  error
}

func (f *fakeFixtures) GetFixtures(_ context.Context, _, _ int) (*api.FixturesResponse, error) {
	return f.resp, f.err
}
