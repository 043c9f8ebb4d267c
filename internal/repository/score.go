package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
)

type ScoreRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewScoreRepository(sqlDB *sql.DB, logger zerolog.Logger) *ScoreRepository {
	return &ScoreRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *ScoreRepository) WithTx(tx *sql.Tx) *ScoreRepository {
	return &ScoreRepository{db: r.db, q: tx, logger: r.logger}
}

// DeleteForTournamentMembers clears prior score rows for a tournament
// and a set of league members. Recomputation is a full replace.
func (r *ScoreRepository) DeleteForTournamentMembers(ctx context.Context, tournamentID int64, memberIDs []int64) (int64, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	query := `
		DELETE FROM league_member_tournament_scores
		WHERE tournament_id = ? AND league_member_id IN (` + placeholders(len(memberIDs)) + `)`
	args := make([]any, 0, len(memberIDs)+1)
	args = append(args, tournamentID)
	for _, id := range memberIDs {
		args = append(args, id)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete scores for tournament %d: %w", tournamentID, err)
	}
	return res.RowsAffected()
}

func (r *ScoreRepository) Insert(ctx context.Context, score *domain.LeagueMemberTournamentScore) error {
	score.CreatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO league_member_tournament_scores
			(league_member_id, tournament_id, tournament_golfer_result_id, score, is_no_pick, is_duplicate_pick, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		score.LeagueMemberID, score.TournamentID, score.ResultID,
		score.Score, score.IsNoPick, score.IsDuplicatePick, score.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert score for member %d: %w", score.LeagueMemberID, err)
	}
	score.ID, err = res.LastInsertId()
	return err
}

// ListForTournamentLeague returns the score rows of one scoring run,
// ordered by member for stable comparison.
func (r *ScoreRepository) ListForTournamentLeague(ctx context.Context, tournamentID, leagueID int64) ([]domain.LeagueMemberTournamentScore, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT s.id, s.league_member_id, s.tournament_id, s.tournament_golfer_result_id,
			s.score, s.is_no_pick, s.is_duplicate_pick, s.created_at
		FROM league_member_tournament_scores s
		JOIN league_members lm ON lm.id = s.league_member_id
		WHERE s.tournament_id = ? AND lm.league_id = ?
		ORDER BY s.league_member_id ASC`, tournamentID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.LeagueMemberTournamentScore
	for rows.Next() {
		var s domain.LeagueMemberTournamentScore
		var resultID sql.NullString
		if err := rows.Scan(&s.ID, &s.LeagueMemberID, &s.TournamentID, &resultID,
			&s.Score, &s.IsNoPick, &s.IsDuplicatePick, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if resultID.Valid {
			s.ResultID = &resultID.String
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// Standings aggregates score rows per league member, highest total
// first. League standings are a pure aggregation over score rows.
func (r *ScoreRepository) Standings(ctx context.Context, leagueID int64) ([]domain.Standing, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT lm.id, u.display_name, COALESCE(SUM(s.score), 0), COUNT(s.id)
		FROM league_members lm
		JOIN users u ON u.id = lm.user_id
		LEFT JOIN league_member_tournament_scores s ON s.league_member_id = lm.id
		WHERE lm.league_id = ?
		GROUP BY lm.id, u.display_name
		ORDER BY COALESCE(SUM(s.score), 0) DESC, lm.id ASC`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute standings: %w", err)
	}
	defer rows.Close()

	var standings []domain.Standing
	for rows.Next() {
		var s domain.Standing
		if err := rows.Scan(&s.LeagueMemberID, &s.DisplayName, &s.Total, &s.Tournaments); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

// LoadRuleset reads the configurable scoring bands. An empty table
// means the caller should fall back to the built-in default.
func (r *ScoreRepository) LoadRuleset(ctx context.Context) ([]domain.ScoringRule, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT start_position, end_position, points
		FROM scoring_rules
		ORDER BY start_position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.ScoringRule
	for rows.Next() {
		var rule domain.ScoringRule
		if err := rows.Scan(&rule.StartPosition, &rule.EndPosition, &rule.Points); err != nil {
			return nil, fmt.Errorf("failed to scan scoring rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
