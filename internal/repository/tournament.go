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

type TournamentRepository struct {
	db     *sql.DB
	q      DBTX
	logger zerolog.Logger
}

func NewTournamentRepository(sqlDB *sql.DB, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{db: sqlDB, q: sqlDB, logger: logger}
}

func (r *TournamentRepository) WithTx(tx *sql.Tx) *TournamentRepository {
	return &TournamentRepository{db: r.db, q: tx, logger: r.logger}
}

const tournamentColumns = `id, COALESCE(sportcontent_api_id, 0), name, format, is_major,
	start_date, start_time, end_date, time_zone, created_at, updated_at`

func scanTournament(row interface{ Scan(dest ...any) error }) (domain.Tournament, error) {
	var t domain.Tournament
	err := row.Scan(&t.ID, &t.SportContentID, &t.Name, &t.Format, &t.IsMajor,
		&t.StartDate, &t.StartTime, &t.EndDate, &t.TimeZone, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TournamentRepository) Get(ctx context.Context, id int64) (*domain.Tournament, error) {
	t, err := scanTournament(r.q.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetUpcoming returns the tournament with the closest start date after
// now, or nil when the season is over.
func (r *TournamentRepository) GetUpcoming(ctx context.Context, now time.Time) (*domain.Tournament, error) {
	t, err := scanTournament(r.q.QueryRowContext(ctx, `
		SELECT `+tournamentColumns+` FROM tournaments
		WHERE start_date > ?
		ORDER BY start_date ASC
		LIMIT 1`, now.UTC().Format("2006-01-02")))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming tournament: %w", err)
	}
	return &t, nil
}

// Upsert inserts or refreshes a tournament keyed by its external
// provider ID. Schedule re-syncs are idempotent through this.
func (r *TournamentRepository) Upsert(ctx context.Context, t *domain.Tournament) error {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE tournaments
		SET name = ?, format = ?, is_major = ?, start_date = ?, start_time = ?,
			end_date = ?, time_zone = ?, updated_at = ?
		WHERE sportcontent_api_id = ?`,
		t.Name, t.Format, t.IsMajor, t.StartDate, t.StartTime,
		t.EndDate, t.TimeZone, now, t.SportContentID)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", t.SportContentID, err)
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		row := r.q.QueryRowContext(ctx,
			`SELECT id FROM tournaments WHERE sportcontent_api_id = ?`, t.SportContentID)
		return row.Scan(&t.ID)
	}

	insert, err := r.q.ExecContext(ctx, `
		INSERT INTO tournaments (sportcontent_api_id, name, format, is_major, start_date, start_time, end_date, time_zone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableID(t.SportContentID), t.Name, t.Format, t.IsMajor,
		t.StartDate, t.StartTime, t.EndDate, t.TimeZone, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert tournament %q: %w", t.Name, err)
	}
	t.ID, err = insert.LastInsertId()
	return err
}

// ListStartedInYear returns tournaments of a schedule year that have
// already started, in week order. Feeds the batch drivers.
func (r *TournamentRepository) ListStartedInYear(ctx context.Context, year int, now time.Time) ([]domain.Tournament, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT t.id, COALESCE(t.sportcontent_api_id, 0), t.name, t.format, t.is_major,
			t.start_date, t.start_time, t.end_date, t.time_zone, t.created_at, t.updated_at
		FROM tournaments t
		JOIN schedule_tournaments st ON st.tournament_id = t.id
		JOIN schedules s ON s.id = st.schedule_id
		WHERE s.year = ? AND t.start_date <= ?
		ORDER BY st.week_number ASC`,
		year, now.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list started tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// GetScheduleSlot returns the schedule placement for a tournament, or
// nil when the tournament is not on any schedule.
func (r *TournamentRepository) GetScheduleSlot(ctx context.Context, tournamentID int64) (*domain.ScheduleSlot, error) {
	var slot domain.ScheduleSlot
	err := r.q.QueryRowContext(ctx, `
		SELECT schedule_id, tournament_id, week_number, allow_duplicate_picks
		FROM schedule_tournaments
		WHERE tournament_id = ?`, tournamentID).
		Scan(&slot.ScheduleID, &slot.TournamentID, &slot.WeekNumber, &slot.AllowDuplicatePicks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule slot for tournament %d: %w", tournamentID, err)
	}
	return &slot, nil
}

// ListPriorStrictTournaments returns the tournament IDs of earlier
// weeks in the same schedule that also disallowed duplicate picks.
// Weeks that allowed duplicates do not count toward pick history.
func (r *TournamentRepository) ListPriorStrictTournaments(ctx context.Context, scheduleID int64, beforeWeek int) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT tournament_id FROM schedule_tournaments
		WHERE schedule_id = ? AND week_number < ? AND allow_duplicate_picks = FALSE
		ORDER BY week_number ASC`, scheduleID, beforeWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to list prior strict weeks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ScheduleDuplicateFlags returns the allow_duplicate_picks flag per
// tournament for a schedule year. Re-syncs read this before clearing
// so hand-flipped weeks survive the full replace.
func (r *TournamentRepository) ScheduleDuplicateFlags(ctx context.Context, year int) (map[int64]bool, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT st.tournament_id, st.allow_duplicate_picks
		FROM schedule_tournaments st
		JOIN schedules s ON s.id = st.schedule_id
		WHERE s.year = ?`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate flags for %d: %w", year, err)
	}
	defer rows.Close()

	flags := make(map[int64]bool)
	for rows.Next() {
		var tournamentID int64
		var allow bool
		if err := rows.Scan(&tournamentID, &allow); err != nil {
			return nil, err
		}
		flags[tournamentID] = allow
	}
	return flags, rows.Err()
}

// ClearSchedule removes every tournament placement for a year ahead
// of a full re-sync. Week numbers are unique within a schedule, so
// calendar shifts need a clean slate rather than in-place updates.
func (r *TournamentRepository) ClearSchedule(ctx context.Context, year int) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM schedule_tournaments
		WHERE schedule_id IN (SELECT id FROM schedules WHERE year = ?)`, year)
	if err != nil {
		return fmt.Errorf("failed to clear schedule %d: %w", year, err)
	}
	return nil
}

// AddToSchedule places a tournament in a schedule year, creating the
// schedule row on first use.
func (r *TournamentRepository) AddToSchedule(ctx context.Context, year int, tournamentID int64, weekNumber int, allowDuplicates bool) error {
	now := time.Now().UTC()
	if _, err := r.q.ExecContext(ctx,
		`INSERT INTO schedules (year, created_at) VALUES (?, ?) ON CONFLICT (year) DO NOTHING`,
		year, now); err != nil {
		return fmt.Errorf("failed to ensure schedule %d: %w", year, err)
	}
	var scheduleID int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT id FROM schedules WHERE year = ?`, year).Scan(&scheduleID); err != nil {
		return fmt.Errorf("failed to load schedule %d: %w", year, err)
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO schedule_tournaments (schedule_id, tournament_id, week_number, allow_duplicate_picks)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (schedule_id, tournament_id) DO UPDATE SET
			week_number = excluded.week_number,
			allow_duplicate_picks = excluded.allow_duplicate_picks`,
		scheduleID, tournamentID, weekNumber, allowDuplicates)
	if err != nil {
		return fmt.Errorf("failed to schedule tournament %d: %w", tournamentID, err)
	}
	return nil
}
