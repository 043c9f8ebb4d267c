package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
)

// EntryRepository owns tournament_golfers rows: the per-year
// generations of a golfer's entry in a tournament field.
type EntryRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewEntryRepository(sqlDB *sql.DB, logger zerolog.Logger) *EntryRepository {
	return &EntryRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *EntryRepository) WithTx(tx *sql.Tx) *EntryRepository {
	return &EntryRepository{db: r.db, q: tx, logger: r.logger}
}

// MarkAllStale clears is_most_recent for every entry of a
// (tournament, year) ahead of a fresh field sync. Old generations stay
// behind as history.
func (r *EntryRepository) MarkAllStale(ctx context.Context, tournamentID int64, year int) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE tournament_golfers
		SET is_most_recent = FALSE, updated_at = ?
		WHERE tournament_id = ? AND year = ?`,
		time.Now().UTC(), tournamentID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to mark entries stale: %w", err)
	}
	return res.RowsAffected()
}

func (r *EntryRepository) Get(ctx context.Context, tournamentID int64, golferID string, year int) (*domain.TournamentGolfer, error) {
	var tg domain.TournamentGolfer
	err := r.q.QueryRowContext(ctx, `
		SELECT id, tournament_id, golfer_id, year, is_active, is_most_recent, created_at, updated_at
		FROM tournament_golfers
		WHERE tournament_id = ? AND golfer_id = ? AND year = ?
		ORDER BY id DESC
		LIMIT 1`, tournamentID, golferID, year).
		Scan(&tg.ID, &tg.TournamentID, &tg.GolferID, &tg.Year,
			&tg.IsActive, &tg.IsMostRecent, &tg.CreatedAt, &tg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &tg, nil
}

func (r *EntryRepository) Insert(ctx context.Context, tg *domain.TournamentGolfer) error {
	now := time.Now().UTC()
	tg.CreatedAt = now
	tg.UpdatedAt = now
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO tournament_golfers (tournament_id, golfer_id, year, is_active, is_most_recent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tg.TournamentID, tg.GolferID, tg.Year, tg.IsActive, tg.IsMostRecent, tg.CreatedAt, tg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert entry for golfer %s: %w", tg.GolferID, err)
	}
	tg.ID, err = res.LastInsertId()
	return err
}

// Revive flips an existing generation back to current and active.
func (r *EntryRepository) Revive(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE tournament_golfers
		SET is_most_recent = TRUE, is_active = TRUE, updated_at = ?
		WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to revive entry %d: %w", id, err)
	}
	return nil
}

// FindOrCreate returns the latest generation for (tournament, golfer,
// year), creating one when the golfer never appeared in the synced
// field (late replacements show up first on the leaderboard).
func (r *EntryRepository) FindOrCreate(ctx context.Context, tournamentID int64, golferID string, year int) (*domain.TournamentGolfer, error) {
	tg, err := r.Get(ctx, tournamentID, golferID, year)
	if err != nil {
		return nil, err
	}
	if tg != nil {
		return tg, nil
	}
	tg = &domain.TournamentGolfer{
		TournamentID: tournamentID,
		GolferID:     golferID,
		Year:         year,
		IsActive:     true,
		IsMostRecent: true,
	}
	if err := r.Insert(ctx, tg); err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int64("tournament_id", tournamentID).
		Str("golfer_id", golferID).
		Msg("entry created during ingestion")
	return tg, nil
}

// EntryWithName pairs a current entry with golfer names for team-event
// last-name disambiguation.
type EntryWithName struct {
	Entry    domain.TournamentGolfer
	FullName string
	LastName string
}

// ListCurrent returns the most-recent generation of the field for a
// (tournament, year) with golfer names attached.
func (r *EntryRepository) ListCurrent(ctx context.Context, tournamentID int64, year int) ([]EntryWithName, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT tg.id, tg.tournament_id, tg.golfer_id, tg.year, tg.is_active, tg.is_most_recent,
			tg.created_at, tg.updated_at, g.full_name, g.last_name
		FROM tournament_golfers tg
		JOIN golfers g ON g.id = tg.golfer_id
		WHERE tg.tournament_id = ? AND tg.year = ? AND tg.is_most_recent = TRUE
		ORDER BY tg.id ASC`, tournamentID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list current entries: %w", err)
	}
	defer rows.Close()

	var entries []EntryWithName
	for rows.Next() {
		var e EntryWithName
		if err := rows.Scan(&e.Entry.ID, &e.Entry.TournamentID, &e.Entry.GolferID, &e.Entry.Year,
			&e.Entry.IsActive, &e.Entry.IsMostRecent, &e.Entry.CreatedAt, &e.Entry.UpdatedAt,
			&e.FullName, &e.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
