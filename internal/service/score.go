package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golf-pickem/internal/api"
	"golf-pickem/internal/constants"
	"golf-pickem/internal/domain"
	"golf-pickem/internal/repository"
	"golf-pickem/internal/scoring"
	"golf-pickem/internal/status"
)

// ScoreService computes per-member tournament scores from result rows
// and most-recent picks. Recomputation is a full replace inside one
// transaction per (tournament, league).
type ScoreService struct {
	db          *sql.DB
	tournaments *repository.TournamentRepository
	leagues     *repository.LeagueRepository
	picks       *repository.PickRepository
	results     *repository.ResultRepository
	scores      *repository.ScoreRepository
	ingest      *IngestService
	logger      zerolog.Logger
}

func NewScoreService(
	db *sql.DB,
	tournaments *repository.TournamentRepository,
	leagues *repository.LeagueRepository,
	picks *repository.PickRepository,
	results *repository.ResultRepository,
	scores *repository.ScoreRepository,
	ingest *IngestService,
	logger zerolog.Logger,
) *ScoreService {
	return &ScoreService{
		db:          db,
		tournaments: tournaments,
		leagues:     leagues,
		picks:       picks,
		results:     results,
		scores:      scores,
		ingest:      ingest,
		logger:      logger,
	}
}

// CalculateTournamentScores replaces the score rows for a
// (tournament, league): prior rows are deleted and one fresh row is
// written per member, all in one transaction.
func (s *ScoreService) CalculateTournamentScores(ctx context.Context, tournamentID, leagueID int64) ([]domain.LeagueMemberTournamentScore, error) {
	release := s.ingest.locks.acquire(tournamentID)
	defer release()

	rows, memberIDs, err := s.computeScores(ctx, tournamentID, leagueID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin scoring transaction: %w", err)
	}
	defer tx.Rollback()

	scores := s.scores.WithTx(tx)
	deleted, err := scores.DeleteForTournamentMembers(ctx, tournamentID, memberIDs)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if err := scores.Insert(ctx, &rows[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scores: %w", err)
	}

	s.logger.Info().
		Int64("tournament_id", tournamentID).
		Int64("league_id", leagueID).
		Int64("deleted", deleted).
		Int("written", len(rows)).
		Msg("tournament scores calculated")
	return rows, nil
}

// PreviewTournamentScores computes the same rows without persisting
// anything.
func (s *ScoreService) PreviewTournamentScores(ctx context.Context, tournamentID, leagueID int64) ([]domain.LeagueMemberTournamentScore, error) {
	rows, _, err := s.computeScores(ctx, tournamentID, leagueID)
	return rows, err
}

// Standings aggregates score rows per league member, highest first.
func (s *ScoreService) Standings(ctx context.Context, leagueID int64) ([]domain.Standing, error) {
	return s.scores.Standings(ctx, leagueID)
}

// CalculateAllPast ingests and scores every started tournament of a
// schedule year for one league. Provider soft failures skip the
// tournament and keep going.
func (s *ScoreService) CalculateAllPast(ctx context.Context, leagueID int64, year int) (int, error) {
	tournaments, err := s.tournaments.ListStartedInYear(ctx, year, time.Now())
	if err != nil {
		return 0, err
	}

	scored := 0
	for _, t := range tournaments {
		if _, err := s.ingest.IngestResults(ctx, t.ID, year); err != nil {
			if errors.Is(err, api.ErrNoData) {
				s.logger.Warn().
					Int64("tournament_id", t.ID).
					Str("name", t.Name).
					Err(err).
					Msg("no leaderboard data, skipping tournament")
				continue
			}
			return scored, err
		}
		if _, err := s.CalculateTournamentScores(ctx, t.ID, leagueID); err != nil {
			return scored, err
		}
		scored++
	}

	s.logger.Info().
		Int64("league_id", leagueID).
		Int("year", year).
		Int("scored", scored).
		Int("total", len(tournaments)).
		Msg("season recalculation complete")
	return scored, nil
}

// computeScores builds the score rows for every member of the league:
// duplicate-pick and no-pick handling, then position/status points for
// the rest. Members whose picked golfer has no result row get no row
// at all, only a diagnostic.
func (s *ScoreService) computeScores(ctx context.Context, tournamentID, leagueID int64) ([]domain.LeagueMemberTournamentScore, []int64, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	members, err := s.leagues.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	memberIDs := make([]int64, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	ruleset, err := s.loadRuleset(ctx)
	if err != nil {
		return nil, nil, err
	}

	picks, err := s.picks.ListCurrentForTournament(ctx, tournamentID, leagueID)
	if err != nil {
		return nil, nil, err
	}
	pickByMember := make(map[int64]domain.Pick, len(picks))
	for _, p := range picks {
		pickByMember[p.LeagueMemberID] = p
	}

	history, err := s.duplicateHistory(ctx, tournamentID, memberIDs)
	if err != nil {
		return nil, nil, err
	}

	var rows []domain.LeagueMemberTournamentScore
	for _, member := range members {
		pick, ok := pickByMember[member.ID]
		if !ok {
			rows = append(rows, domain.LeagueMemberTournamentScore{
				LeagueMemberID: member.ID,
				TournamentID:   tournamentID,
				Score:          constants.NoPickPenalty,
				IsNoPick:       true,
			})
			continue
		}

		if prior, dup := history[member.ID]; dup {
			if _, picked := prior[pick.GolferID]; picked {
				s.logger.Info().
					Int64("league_member_id", member.ID).
					Str("golfer_id", pick.GolferID).
					Msg("duplicate pick, scoring zero")
				rows = append(rows, domain.LeagueMemberTournamentScore{
					LeagueMemberID:  member.ID,
					TournamentID:    tournamentID,
					Score:           constants.DuplicatePickPoints,
					IsDuplicatePick: true,
				})
				continue
			}
		}

		result, err := s.results.GetForPick(ctx, tournamentID, pick.GolferID)
		if err != nil {
			return nil, nil, err
		}
		if result == nil {
			s.logger.Warn().
				Int64("league_member_id", member.ID).
				Str("golfer_id", pick.GolferID).
				Int64("tournament_id", tournamentID).
				Msg("picked golfer has no result row, skipping member")
			continue
		}

		if !status.IsCanonical(result.Status) {
			s.logger.Warn().
				Str("status", string(result.Status)).
				Str("golfer_id", pick.GolferID).
				Int64("tournament_id", tournamentID).
				Msg("unknown status on result row, scoring zero")
		}

		position := scoring.ParsePosition(result.Position)
		resultID := result.ID
		rows = append(rows, domain.LeagueMemberTournamentScore{
			LeagueMemberID: member.ID,
			TournamentID:   tournamentID,
			ResultID:       &resultID,
			Score:          ruleset.Points(position, result.Status, t.IsMajor),
		})
	}
	return rows, memberIDs, nil
}

// duplicateHistory returns, per member, the set of golfer IDs picked
// in prior weeks of the same schedule that also disallowed duplicates.
// Nil when duplicates are allowed this week or the tournament is
// unscheduled.
func (s *ScoreService) duplicateHistory(ctx context.Context, tournamentID int64, memberIDs []int64) (map[int64]map[string]struct{}, error) {
	slot, err := s.tournaments.GetScheduleSlot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if slot == nil || slot.AllowDuplicatePicks {
		return nil, nil
	}

	priorIDs, err := s.tournaments.ListPriorStrictTournaments(ctx, slot.ScheduleID, slot.WeekNumber)
	if err != nil {
		return nil, err
	}

	history := make(map[int64]map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		history[id] = make(map[string]struct{})
	}
	if len(priorIDs) == 0 {
		return history, nil
	}

	priorPicks, err := s.picks.ListHistory(ctx, memberIDs, priorIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range priorPicks {
		history[p.LeagueMemberID][p.GolferID] = struct{}{}
	}
	return history, nil
}

func (s *ScoreService) loadRuleset(ctx context.Context) (scoring.Ruleset, error) {
	rules, err := s.scores.LoadRuleset(ctx)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return scoring.DefaultRuleset(), nil
	}
	return scoring.Ruleset(rules), nil
}
