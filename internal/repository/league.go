package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
)

type LeagueRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewLeagueRepository(sqlDB *sql.DB, logger zerolog.Logger) *LeagueRepository {
	return &LeagueRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *LeagueRepository) WithTx(tx *sql.Tx) *LeagueRepository {
	return &LeagueRepository{db: r.db, q: tx, logger: r.logger}
}

// ListMembers returns the members of a league with display names
// attached, ordered by member ID.
func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]domain.LeagueMember, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT lm.id, lm.league_id, lm.user_id, u.display_name
		FROM league_members lm
		JOIN users u ON u.id = lm.user_id
		WHERE lm.league_id = ?
		ORDER BY lm.id ASC`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of league %d: %w", leagueID, err)
	}
	defer rows.Close()

	var members []domain.LeagueMember
	for rows.Next() {
		var m domain.LeagueMember
		if err := rows.Scan(&m.ID, &m.LeagueID, &m.UserID, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CreateLeague and CreateMember exist for seeding and tests; league
// administration itself lives outside this service.
func (r *LeagueRepository) CreateLeague(ctx context.Context, name string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO leagues (name, created_at) VALUES (?, ?)`, name, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create league: %w", err)
	}
	return res.LastInsertId()
}

func (r *LeagueRepository) CreateMember(ctx context.Context, leagueID int64, displayName, firstName, lastName, email string) (int64, error) {
	now := time.Now().UTC()
	userRes, err := r.q.ExecContext(ctx, `
		INSERT INTO users (display_name, first_name, last_name, email, created_at)
		VALUES (?, ?, ?, ?, ?)`, displayName, firstName, lastName, email, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	userID, err := userRes.LastInsertId()
	if err != nil {
		return 0, err
	}
	memberRes, err := r.q.ExecContext(ctx, `
		INSERT INTO league_members (league_id, user_id, created_at)
		VALUES (?, ?, ?)`, leagueID, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create league member: %w", err)
	}
	return memberRes.LastInsertId()
}
