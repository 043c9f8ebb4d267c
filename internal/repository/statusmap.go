package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// StatusMappingRepository is the durable raw -> canonical status cache
// behind the status normalizer: loaded whole at startup, appended when
// a new mapping is learned.
type StatusMappingRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewStatusMappingRepository(sqlDB *sql.DB, logger zerolog.Logger) *StatusMappingRepository {
	return &StatusMappingRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *StatusMappingRepository) LoadAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT raw_status, canonical_status FROM status_mappings`)
	if err != nil {
		return nil, fmt.Errorf("failed to load status mappings: %w", err)
	}
	defer rows.Close()

	mappings := make(map[string]string)
	for rows.Next() {
		var raw, canonical string
		if err := rows.Scan(&raw, &canonical); err != nil {
			return nil, fmt.Errorf("failed to scan status mapping: %w", err)
		}
		mappings[raw] = canonical
	}
	return mappings, rows.Err()
}

// Append persists a learned mapping. The cache is append-only;
// remapping an existing key is a manual edit, so conflicts error out.
func (r *StatusMappingRepository) Append(ctx context.Context, raw, canonical string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO status_mappings (raw_status, canonical_status, created_at)
		VALUES (?, ?, ?)`, raw, canonical, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append status mapping %q: %w", raw, err)
	}
	r.logger.Info().Str("raw_status", raw).Str("canonical_status", canonical).Msg("status mapping learned")
	return nil
}
