package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
	"golf-pickem/internal/repository"
)

// ErrTournamentStarted is returned when a pick arrives at or after the
// tournament's UTC start.
var ErrTournamentStarted = errors.New("tournament has already started")

// PickService records league members' weekly picks. A new pick
// supersedes the member's previous pick for the same tournament;
// superseded picks remain as history with the flag cleared.
type PickService struct {
	db          *sql.DB
	tournaments *repository.TournamentRepository
	golfers     *repository.GolferRepository
	picks       *repository.PickRepository
	logger      zerolog.Logger
}

func NewPickService(
	db *sql.DB,
	tournaments *repository.TournamentRepository,
	golfers *repository.GolferRepository,
	picks *repository.PickRepository,
	logger zerolog.Logger,
) *PickService {
	return &PickService{db: db, tournaments: tournaments, golfers: golfers, picks: picks, logger: logger}
}

// SubmitPick validates and records a pick. The deadline is the
// tournament's local start date and time converted through its stored
// timezone.
func (s *PickService) SubmitPick(ctx context.Context, memberID, tournamentID int64, golferID string) (*domain.Pick, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	startsAt, err := t.StartsAtUTC()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start time for tournament %d: %w", tournamentID, err)
	}
	if !time.Now().UTC().Before(startsAt) {
		return nil, fmt.Errorf("tournament %d started at %s: %w", tournamentID, startsAt.Format(time.RFC3339), ErrTournamentStarted)
	}

	if _, err := s.golfers.Get(ctx, golferID); err != nil {
		return nil, fmt.Errorf("unknown golfer %q: %w", golferID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin pick transaction: %w", err)
	}
	defer tx.Rollback()

	pick := &domain.Pick{
		LeagueMemberID: memberID,
		TournamentID:   tournamentID,
		GolferID:       golferID,
		Year:           startsAt.Year(),
	}
	if err := s.picks.WithTx(tx).Insert(ctx, pick); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pick: %w", err)
	}
	return pick, nil
}

// CurrentPick returns a member's most-recent pick for a tournament, or
// nil when they have not picked.
func (s *PickService) CurrentPick(ctx context.Context, memberID, tournamentID int64) (*domain.Pick, error) {
	return s.picks.GetCurrent(ctx, memberID, tournamentID)
}
