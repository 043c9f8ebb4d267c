package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
)

type ResultRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewResultRepository(sqlDB *sql.DB, logger zerolog.Logger) *ResultRepository {
	return &ResultRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *ResultRepository) WithTx(tx *sql.Tx) *ResultRepository {
	return &ResultRepository{db: r.db, q: tx, logger: r.logger}
}

// DeleteForTournament hard-deletes every result row belonging to a
// tournament's entries. Ingestion runs this before re-inserting, which
// is what makes re-ingestion idempotent-by-replacement.
func (r *ResultRepository) DeleteForTournament(ctx context.Context, tournamentID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM tournament_golfer_results
		WHERE tournament_golfer_id IN (
			SELECT id FROM tournament_golfers WHERE tournament_id = ?
		)`, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete results for tournament %d: %w", tournamentID, err)
	}
	return res.RowsAffected()
}

func (r *ResultRepository) Insert(ctx context.Context, result *domain.TournamentGolferResult) error {
	if result.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate result id: %w", err)
		}
		result.ID = id
	}
	result.CreatedAt = time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tournament_golfer_results (id, tournament_golfer_id, position, status, score_to_par, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.ID, result.TournamentGolferID, result.Position, string(result.Status),
		result.ScoreToPar, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert result for entry %d: %w", result.TournamentGolferID, err)
	}
	return nil
}

// GetForPick resolves the current result row for a picked golfer in a
// tournament, joining through the entry generations.
func (r *ResultRepository) GetForPick(ctx context.Context, tournamentID int64, golferID string) (*domain.TournamentGolferResult, error) {
	var res domain.TournamentGolferResult
	var status string
	err := r.q.QueryRowContext(ctx, `
		SELECT tgr.id, tgr.tournament_golfer_id, tgr.position, tgr.status, tgr.score_to_par, tgr.created_at
		FROM tournament_golfer_results tgr
		JOIN tournament_golfers tg ON tg.id = tgr.tournament_golfer_id
		WHERE tg.tournament_id = ? AND tg.golfer_id = ?
		ORDER BY tgr.created_at DESC
		LIMIT 1`, tournamentID, golferID).
		Scan(&res.ID, &res.TournamentGolferID, &res.Position, &status, &res.ScoreToPar, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result for golfer %s: %w", golferID, err)
	}
	res.Status = domain.Status(status)
	return &res, nil
}

// ListForTournament returns all current result rows for a tournament,
// ordered by entry ID for stable comparison.
func (r *ResultRepository) ListForTournament(ctx context.Context, tournamentID int64) ([]domain.TournamentGolferResult, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT tgr.id, tgr.tournament_golfer_id, tgr.position, tgr.status, tgr.score_to_par, tgr.created_at
		FROM tournament_golfer_results tgr
		JOIN tournament_golfers tg ON tg.id = tgr.tournament_golfer_id
		WHERE tg.tournament_id = ?
		ORDER BY tgr.tournament_golfer_id ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []domain.TournamentGolferResult
	for rows.Next() {
		var res domain.TournamentGolferResult
		var status string
		if err := rows.Scan(&res.ID, &res.TournamentGolferID, &res.Position, &status,
			&res.ScoreToPar, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Status = domain.Status(status)
		results = append(results, res)
	}
	return results, rows.Err()
}
