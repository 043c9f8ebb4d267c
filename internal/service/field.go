// Package service holds the job entry points: field synchronization,
// result ingestion, scoring, schedule sync, and pick submission. Each
// logical operation runs inside a single transaction so a failure
// never leaves a half-replaced state visible to readers.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"golf-pickem/internal/api"
	"golf-pickem/internal/domain"
	"golf-pickem/internal/identity"
	"golf-pickem/internal/repository"
)

// FieldSource supplies the committed field for the upcoming event.
type FieldSource interface {
	GetFieldUpdates(ctx context.Context, tour string) (*api.FieldUpdatesResponse, error)
}

// EntrySource supplies the second provider's view of the same field,
// keyed by the tournament's provider ID.
type EntrySource interface {
	GetEntryList(ctx context.Context, tournamentID int64) (*api.EntryListResponse, error)
}

// FieldService reconciles the set of golfers entered in a tournament
// against the canonical golfer set. It is the only path that creates
// golfer rows.
type FieldService struct {
	db          *sql.DB
	source      FieldSource
	entrySource EntrySource
	tournaments *repository.TournamentRepository
	golfers     *repository.GolferRepository
	entries     *repository.EntryRepository
	logger      zerolog.Logger
}

func NewFieldService(
	db *sql.DB,
	source FieldSource,
	entrySource EntrySource,
	tournaments *repository.TournamentRepository,
	golfers *repository.GolferRepository,
	entries *repository.EntryRepository,
	logger zerolog.Logger,
) *FieldService {
	return &FieldService{
		db:          db,
		source:      source,
		entrySource: entrySource,
		tournaments: tournaments,
		golfers:     golfers,
		entries:     entries,
		logger:      logger,
	}
}

// SyncField refreshes the entry set for a (tournament, year). Both
// providers' views of the field are fetched in parallel and merged:
// every existing generation goes stale, then each fetched golfer is
// revived or inserted as the new most-recent generation. Since both
// feeds pass through the resolver, golfers end up carrying both
// provider IDs. Golfer creation happens in the same transaction, so an
// abort leaves no orphaned golfers behind.
func (s *FieldService) SyncField(ctx context.Context, t *domain.Tournament, year int, tour string) (int, error) {
	var (
		field     *api.FieldUpdatesResponse
		entryList *api.EntryListResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		field, err = s.source.GetFieldUpdates(gctx, tour)
		return err
	})
	if t.SportContentID != 0 {
		g.Go(func() error {
			var err error
			entryList, err = s.entrySource.GetEntryList(gctx, t.SportContentID)
			if errors.Is(err, api.ErrNoData) {
				// secondary feed, its absence is not fatal
				s.logger.Warn().Int64("tournament_id", t.ID).Err(err).Msg("entry list unavailable")
				entryList = nil
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("field sync for tournament %d: %w", t.ID, err)
	}

	records := make([]identity.ExternalGolfer, 0, len(field.Field))
	for _, player := range field.Field {
		records = append(records, identity.ExternalGolfer{
			DataGolfID:  player.DGID,
			DisplayName: player.PlayerName,
		})
	}
	if entryList != nil {
		for _, entry := range entryList.Results.EntryList {
			records = append(records, identity.ExternalGolfer{
				SportContentID: entry.PlayerID,
				FirstName:      entry.FirstName,
				LastName:       entry.LastName,
			})
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin field sync transaction: %w", err)
	}
	defer tx.Rollback()

	entries := s.entries.WithTx(tx)
	staled, err := entries.MarkAllStale(ctx, t.ID, year)
	if err != nil {
		return 0, err
	}

	resolver, err := identity.NewResolver(ctx, s.golfers.WithTx(tx), s.logger)
	if err != nil {
		return 0, err
	}

	synced := 0
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		golferID, err := resolver.Resolve(ctx, rec)
		if errors.Is(err, identity.ErrNameSplit) {
			s.logger.Warn().
				Int64("dg_id", rec.DataGolfID).
				Int64("player_id", rec.SportContentID).
				Str("name", rec.DisplayName).
				Msg("skipping field entry with unsplittable name")
			continue
		}
		if err != nil {
			return 0, err
		}
		if _, dup := seen[golferID]; dup {
			continue
		}
		seen[golferID] = struct{}{}

		existing, err := entries.Get(ctx, t.ID, golferID, year)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			if err := entries.Revive(ctx, existing.ID); err != nil {
				return 0, err
			}
		} else {
			tg := &domain.TournamentGolfer{
				TournamentID: t.ID,
				GolferID:     golferID,
				Year:         year,
				IsActive:     true,
				IsMostRecent: true,
			}
			if err := entries.Insert(ctx, tg); err != nil {
				return 0, err
			}
		}
		synced++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit field sync: %w", err)
	}

	s.logger.Info().
		Int64("tournament_id", t.ID).
		Int("year", year).
		Int64("staled", staled).
		Int("synced", synced).
		Str("event_name", field.EventName).
		Msg("field sync complete")
	return synced, nil
}

// SyncUpcoming syncs the field for the next tournament on the
// calendar. Returns api.ErrNoData when the season has no tournament
// left.
func (s *FieldService) SyncUpcoming(ctx context.Context, tour string) (*domain.Tournament, int, error) {
	t, err := s.tournaments.GetUpcoming(ctx, time.Now())
	if err != nil {
		return nil, 0, err
	}
	if t == nil {
		return nil, 0, fmt.Errorf("no upcoming tournament: %w", api.ErrNoData)
	}
	synced, err := s.SyncField(ctx, t, tournamentYear(t), tour)
	return t, synced, err
}

// UpcomingField returns the next tournament and its most-recent
// roster.
func (s *FieldService) UpcomingField(ctx context.Context) (*domain.Tournament, []repository.EntryWithName, error) {
	t, err := s.tournaments.GetUpcoming(ctx, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, fmt.Errorf("no upcoming tournament: %w", api.ErrNoData)
	}
	roster, err := s.entries.ListCurrent(ctx, t.ID, tournamentYear(t))
	if err != nil {
		return nil, nil, err
	}
	return t, roster, nil
}

// tournamentYear derives the schedule year from the stored local start
// date (YYYY-MM-DD).
func tournamentYear(t *domain.Tournament) int {
	if len(t.StartDate) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(t.StartDate[:4])
	return year
}
