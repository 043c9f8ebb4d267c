package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
)

type GolferRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewGolferRepository(sqlDB *sql.DB, logger zerolog.Logger) *GolferRepository {
	return &GolferRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *GolferRepository) WithTx(tx *sql.Tx) *GolferRepository {
	return &GolferRepository{db: r.db, q: tx, logger: r.logger}
}

const golferColumns = `id, COALESCE(sportcontent_api_id, 0), COALESCE(datagolf_id, 0),
	first_name, last_name, full_name, created_at, updated_at`

func scanGolfer(row interface{ Scan(dest ...any) error }) (domain.Golfer, error) {
	var g domain.Golfer
	err := row.Scan(&g.ID, &g.SportContentID, &g.DataGolfID,
		&g.FirstName, &g.LastName, &g.FullName, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (r *GolferRepository) GetAll(ctx context.Context) ([]domain.Golfer, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+golferColumns+` FROM golfers`)
	if err != nil {
		return nil, fmt.Errorf("failed to list golfers: %w", err)
	}
	defer rows.Close()

	var golfers []domain.Golfer
	for rows.Next() {
		g, err := scanGolfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan golfer: %w", err)
		}
		golfers = append(golfers, g)
	}
	return golfers, rows.Err()
}

func (r *GolferRepository) Get(ctx context.Context, id string) (*domain.Golfer, error) {
	g, err := scanGolfer(r.q.QueryRowContext(ctx,
		`SELECT `+golferColumns+` FROM golfers WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GolferRepository) Insert(ctx context.Context, g *domain.Golfer) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO golfers (id, sportcontent_api_id, datagolf_id, first_name, last_name, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, nullableID(g.SportContentID), nullableID(g.DataGolfID),
		g.FirstName, g.LastName, g.FullName, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert golfer %s: %w", g.ID, err)
	}
	r.logger.Debug().Str("golfer_id", g.ID).Str("full_name", g.FullName).Msg("golfer created")
	return nil
}

// SetDataGolfID backfills a provider ID learned for an existing golfer.
func (r *GolferRepository) SetDataGolfID(ctx context.Context, golferID string, dataGolfID int64) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE golfers SET datagolf_id = ?, updated_at = ? WHERE id = ?`,
		dataGolfID, time.Now().UTC(), golferID)
	if err != nil {
		return fmt.Errorf("failed to set datagolf id for %s: %w", golferID, err)
	}
	return nil
}

// SetSportContentID backfills a provider ID learned for an existing golfer.
func (r *GolferRepository) SetSportContentID(ctx context.Context, golferID string, sportContentID int64) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE golfers SET sportcontent_api_id = ?, updated_at = ? WHERE id = ?`,
		sportContentID, time.Now().UTC(), golferID)
	if err != nil {
		return fmt.Errorf("failed to set sportcontent id for %s: %w", golferID, err)
	}
	return nil
}

// Provider IDs of zero mean "unknown" and are stored as NULL so the
// partial unique indexes only bind real IDs.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
