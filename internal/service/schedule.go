package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"golf-pickem/internal/api"
	"golf-pickem/internal/domain"
	"golf-pickem/internal/repository"
)

// ScheduleSource supplies the season fixture list for a tour.
type ScheduleSource interface {
	GetFixtures(ctx context.Context, tourID, season int) (*api.FixturesResponse, error)
}

// ScheduleService upserts the season's tournaments from the fixtures
// feed and places them on the schedule in week order.
type ScheduleService struct {
	db          *sql.DB
	source      ScheduleSource
	tournaments *repository.TournamentRepository
	logger      zerolog.Logger
}

func NewScheduleService(
	db *sql.DB,
	source ScheduleSource,
	tournaments *repository.TournamentRepository,
	logger zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{db: db, source: source, tournaments: tournaments, logger: logger}
}

// SyncSchedule upserts every fixture of a (tour, season) keyed by its
// provider ID and assigns week numbers by start date. Re-running after
// a calendar change moves tournaments to their new weeks without
// duplicating rows. Duplicate-pick policy defaults to strict; weeks
// that allow repeats are flipped by hand and keep their flag across
// re-syncs.
func (s *ScheduleService) SyncSchedule(ctx context.Context, tourID, season int) (int, error) {
	fixtures, err := s.source.GetFixtures(ctx, tourID, season)
	if err != nil {
		return 0, fmt.Errorf("fixtures for season %d: %w", season, err)
	}

	list := make([]api.Fixture, len(fixtures.Results))
	copy(list, fixtures.Results)
	sort.SliceStable(list, func(i, j int) bool { return list[i].StartDate < list[j].StartDate })

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin schedule sync transaction: %w", err)
	}
	defer tx.Rollback()

	tournaments := s.tournaments.WithTx(tx)
	duplicateFlags, err := tournaments.ScheduleDuplicateFlags(ctx, season)
	if err != nil {
		return 0, err
	}
	if err := tournaments.ClearSchedule(ctx, season); err != nil {
		return 0, err
	}
	week := 1
	for _, fixture := range list {
		t := fixtureToTournament(fixture)
		if err := tournaments.Upsert(ctx, &t); err != nil {
			return 0, err
		}
		if err := tournaments.AddToSchedule(ctx, season, t.ID, week, duplicateFlags[t.ID]); err != nil {
			return 0, err
		}
		week++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit schedule sync: %w", err)
	}

	s.logger.Info().
		Int("season", season).
		Int("tournaments", len(list)).
		Msg("schedule sync complete")
	return len(list), nil
}

func fixtureToTournament(f api.Fixture) domain.Tournament {
	startDate, startTime := splitDateTime(f.StartDate)
	endDate, _ := splitDateTime(f.EndDate)

	format := domain.FormatStroke
	if strings.EqualFold(f.Type, "Team") {
		format = domain.FormatTeam
	}

	tz := f.TimeZone
	if tz == "" {
		tz = "America/New_York"
	}

	return domain.Tournament{
		SportContentID: f.ID,
		Name:           f.Name,
		Format:         format,
		IsMajor:        strings.EqualFold(f.Prestige, "major"),
		StartDate:      startDate,
		StartTime:      startTime,
		EndDate:        endDate,
		TimeZone:       tz,
	}
}

// splitDateTime splits the feed's "YYYY-MM-DD HH:MM:SS" into date and
// time parts. A date-only value gets a midnight time.
func splitDateTime(v string) (string, string) {
	date, clock, ok := strings.Cut(strings.TrimSpace(v), " ")
	if !ok || clock == "" {
		return date, "00:00:00"
	}
	return date, clock
}
