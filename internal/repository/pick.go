package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
)

type PickRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewPickRepository(sqlDB *sql.DB, logger zerolog.Logger) *PickRepository {
	return &PickRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *PickRepository) WithTx(tx *sql.Tx) *PickRepository {
	return &PickRepository{db: r.db, q: tx, logger: r.logger}
}

// Insert records a new pick and clears is_most_recent on the pick it
// supersedes. Callers wrap this in a transaction so the two writes
// land together.
func (r *PickRepository) Insert(ctx context.Context, pick *domain.Pick) error {
	if pick.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate pick id: %w", err)
		}
		pick.ID = id
	}
	if pick.PickedAt.IsZero() {
		pick.PickedAt = time.Now().UTC()
	}
	pick.IsMostRecent = true

	if _, err := r.q.ExecContext(ctx, `
		UPDATE picks SET is_most_recent = FALSE
		WHERE league_member_id = ? AND tournament_id = ? AND is_most_recent = TRUE`,
		pick.LeagueMemberID, pick.TournamentID); err != nil {
		return fmt.Errorf("failed to supersede previous pick: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, `
		INSERT INTO picks (id, league_member_id, tournament_id, golfer_id, year, is_most_recent, picked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pick.ID, pick.LeagueMemberID, pick.TournamentID, pick.GolferID,
		pick.Year, pick.IsMostRecent, pick.PickedAt); err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}

	r.logger.Debug().
		Int64("league_member_id", pick.LeagueMemberID).
		Int64("tournament_id", pick.TournamentID).
		Str("golfer_id", pick.GolferID).
		Msg("pick recorded")
	return nil
}

// ListCurrentForTournament returns each league member's most-recent
// pick for a tournament.
func (r *PickRepository) ListCurrentForTournament(ctx context.Context, tournamentID, leagueID int64) ([]domain.Pick, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.league_member_id, p.tournament_id, p.golfer_id, p.year, p.is_most_recent, p.picked_at
		FROM picks p
		JOIN league_members lm ON lm.id = p.league_member_id
		WHERE p.tournament_id = ? AND lm.league_id = ? AND p.is_most_recent = TRUE
		ORDER BY p.league_member_id ASC`, tournamentID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()
	return collectPicks(rows)
}

// ListHistory returns the most-recent picks a set of members made in
// the given tournaments. Used to build duplicate-pick history over
// prior strict weeks.
func (r *PickRepository) ListHistory(ctx context.Context, memberIDs, tournamentIDs []int64) ([]domain.Pick, error) {
	if len(memberIDs) == 0 || len(tournamentIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, league_member_id, tournament_id, golfer_id, year, is_most_recent, picked_at
		FROM picks
		WHERE is_most_recent = TRUE
			AND league_member_id IN (` + placeholders(len(memberIDs)) + `)
			AND tournament_id IN (` + placeholders(len(tournamentIDs)) + `)`
	args := make([]any, 0, len(memberIDs)+len(tournamentIDs))
	for _, id := range memberIDs {
		args = append(args, id)
	}
	for _, id := range tournamentIDs {
		args = append(args, id)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pick history: %w", err)
	}
	defer rows.Close()
	return collectPicks(rows)
}

// GetCurrent returns a member's most-recent pick for a tournament, or
// nil when they never picked.
func (r *PickRepository) GetCurrent(ctx context.Context, memberID, tournamentID int64) (*domain.Pick, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, league_member_id, tournament_id, golfer_id, year, is_most_recent, picked_at
		FROM picks
		WHERE league_member_id = ? AND tournament_id = ? AND is_most_recent = TRUE
		LIMIT 1`, memberID, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current pick: %w", err)
	}
	defer rows.Close()
	picks, err := collectPicks(rows)
	if err != nil || len(picks) == 0 {
		return nil, err
	}
	return &picks[0], nil
}

func collectPicks(rows *sql.Rows) ([]domain.Pick, error) {
	var picks []domain.Pick
	for rows.Next() {
		var p domain.Pick
		if err := rows.Scan(&p.ID, &p.LeagueMemberID, &p.TournamentID, &p.GolferID,
			&p.Year, &p.IsMostRecent, &p.PickedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	out := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}
