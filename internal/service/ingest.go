package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"golf-pickem/internal/api"
	"golf-pickem/internal/config"
	"golf-pickem/internal/domain"
	"golf-pickem/internal/identity"
	"golf-pickem/internal/repository"
	"golf-pickem/internal/status"
)

// ErrAmbiguousGolfer is returned when a team-event last name matches
// more than one golfer in the field. Automated runs fail closed on it
// rather than guess.
var ErrAmbiguousGolfer = errors.New("ambiguous golfer match")

// LeaderboardSource supplies live and final tournament leaderboards.
type LeaderboardSource interface {
	GetLeaderboard(ctx context.Context, tournamentID int64) (*api.LeaderboardResponse, error)
}

// IngestService replaces a tournament's result rows with freshly
// fetched leaderboard data. It never creates golfers; rows whose
// golfer cannot be resolved are skipped with a diagnostic.
type IngestService struct {
	db          *sql.DB
	cfg         *config.Config
	source      LeaderboardSource
	tournaments *repository.TournamentRepository
	golfers     *repository.GolferRepository
	entries     *repository.EntryRepository
	results     *repository.ResultRepository
	normalizer  *status.Normalizer
	locks       *tournamentLocks
	logger      zerolog.Logger
}

func NewIngestService(
	db *sql.DB,
	cfg *config.Config,
	source LeaderboardSource,
	tournaments *repository.TournamentRepository,
	golfers *repository.GolferRepository,
	entries *repository.EntryRepository,
	results *repository.ResultRepository,
	normalizer *status.Normalizer,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		db:          db,
		cfg:         cfg,
		source:      source,
		tournaments: tournaments,
		golfers:     golfers,
		entries:     entries,
		results:     results,
		normalizer:  normalizer,
		locks:       newTournamentLocks(),
		logger:      logger,
	}
}

// IngestResults refreshes the result set for a tournament: delete
// every existing result row, fetch the leaderboard, resolve each row
// to a canonical entry, and insert one result per resolved golfer.
// Re-running with identical source data reproduces the same end state.
func (s *IngestService) IngestResults(ctx context.Context, tournamentID int64, year int) (int, error) {
	release := s.locks.acquire(tournamentID)
	defer release()

	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if t.SportContentID == 0 {
		return 0, fmt.Errorf("tournament %d has no provider id: %w", tournamentID, api.ErrNoData)
	}

	lb, err := s.source.GetLeaderboard(ctx, t.SportContentID)
	if err != nil {
		return 0, fmt.Errorf("leaderboard for tournament %d: %w", tournamentID, err)
	}

	rows := lb.Results.Leaderboard
	if t.Format == domain.FormatStaggered {
		rows = restagger(rows, s.cfg.StaggeredParBase)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	results := s.results.WithTx(tx)
	entries := s.entries.WithTx(tx)

	deleted, err := results.DeleteForTournament(ctx, tournamentID)
	if err != nil {
		return 0, err
	}

	resolver, err := identity.NewResolver(ctx, s.golfers.WithTx(tx), s.logger)
	if err != nil {
		return 0, err
	}

	var inserted, skipped int
	if t.Format == domain.FormatTeam {
		inserted, skipped, err = s.ingestTeamRows(ctx, t, year, rows, entries, results)
	} else {
		inserted, skipped, err = s.ingestRows(ctx, t, year, rows, resolver, entries, results)
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingest: %w", err)
	}

	s.logger.Info().
		Int64("tournament_id", tournamentID).
		Str("format", t.Format).
		Int64("deleted", deleted).
		Int("inserted", inserted).
		Int("skipped", skipped).
		Msg("result ingestion complete")
	return inserted, nil
}

func (s *IngestService) ingestRows(
	ctx context.Context,
	t *domain.Tournament,
	year int,
	rows []api.LeaderboardRow,
	resolver *identity.Resolver,
	entries *repository.EntryRepository,
	results *repository.ResultRepository,
) (inserted, skipped int, err error) {
	for _, row := range rows {
		rec := identity.ExternalGolfer{
			SportContentID: row.PlayerID,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
		}
		golferID := resolver.LookupFuzzy(rec)
		if golferID == "" {
			s.logger.Warn().
				Int64("player_id", row.PlayerID).
				Str("name", row.FirstName+" "+row.LastName).
				Int64("tournament_id", t.ID).
				Msg("leaderboard row did not resolve to a golfer, skipping")
			skipped++
			continue
		}
		if err := resolver.Backfill(ctx, golferID, rec); err != nil {
			return inserted, skipped, err
		}

		if err := s.insertResult(ctx, t, year, golferID, row.Position, row.Status, row.TotalToPar, entries, results); err != nil {
			if errors.Is(err, status.ErrUnknownStatus) {
				s.logger.Warn().
					Str("golfer_id", golferID).
					Str("raw_status", row.Status).
					Msg("unknown status under strict policy, skipping row")
				skipped++
				continue
			}
			return inserted, skipped, err
		}
		inserted++
	}
	return inserted, skipped, nil
}

// ingestTeamRows handles events whose rows carry two golfers' last
// names in one slash-delimited field. Each last name must match
// exactly one golfer in the current field; multiple matches fail
// closed and skip the whole row.
func (s *IngestService) ingestTeamRows(
	ctx context.Context,
	t *domain.Tournament,
	year int,
	rows []api.LeaderboardRow,
	entries *repository.EntryRepository,
	results *repository.ResultRepository,
) (inserted, skipped int, err error) {
	field, err := entries.ListCurrent(ctx, t.ID, year)
	if err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		golferIDs, err := matchTeamMembers(row.LastName, field)
		if err != nil {
			s.logger.Warn().
				Str("team_names", row.LastName).
				Int64("tournament_id", t.ID).
				Err(err).
				Msg("team row did not resolve cleanly, skipping")
			skipped++
			continue
		}

		rowOK := true
		for _, golferID := range golferIDs {
			if err := s.insertResult(ctx, t, year, golferID, row.Position, row.Status, row.TotalToPar, entries, results); err != nil {
				if errors.Is(err, status.ErrUnknownStatus) {
					s.logger.Warn().
						Str("golfer_id", golferID).
						Str("raw_status", row.Status).
						Msg("unknown status under strict policy, skipping team row")
					rowOK = false
					break
				}
				return inserted, skipped, err
			}
		}
		if rowOK {
			inserted += len(golferIDs)
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}

// matchTeamMembers splits a slash-delimited surname field and resolves
// each surname against the current field by folded-name comparison.
func matchTeamMembers(names string, field []repository.EntryWithName) ([]string, error) {
	parts := strings.Split(names, "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("team name %q is not slash-delimited: %w", names, ErrAmbiguousGolfer)
	}

	golferIDs := make([]string, 0, len(parts))
	for _, part := range parts {
		target := strings.Join(identity.NormalizeTokens(part), " ")
		if target == "" {
			return nil, fmt.Errorf("empty team member name in %q: %w", names, ErrAmbiguousGolfer)
		}
		var matches []string
		for _, entry := range field {
			if strings.Join(identity.NormalizeTokens(entry.LastName), " ") == target {
				matches = append(matches, entry.Entry.GolferID)
			}
		}
		switch len(matches) {
		case 1:
			golferIDs = append(golferIDs, matches[0])
		case 0:
			return nil, fmt.Errorf("no golfer in field with last name %q: %w", part, ErrAmbiguousGolfer)
		default:
			return nil, fmt.Errorf("%d golfers in field with last name %q: %w", len(matches), part, ErrAmbiguousGolfer)
		}
	}
	return golferIDs, nil
}

func (s *IngestService) insertResult(
	ctx context.Context,
	t *domain.Tournament,
	year int,
	golferID, position, rawStatus string,
	totalToPar int64,
	entries *repository.EntryRepository,
	results *repository.ResultRepository,
) error {
	canonical, err := s.normalizer.Normalize(ctx, rawStatus)
	if err != nil {
		return err
	}

	entry, err := entries.FindOrCreate(ctx, t.ID, golferID, year)
	if err != nil {
		return err
	}

	result := &domain.TournamentGolferResult{
		TournamentGolferID: entry.ID,
		Position:           position,
		Status:             canonical,
	}
	switch canonical {
	case domain.StatusCut, domain.StatusWD, domain.StatusDQ:
		// no score to par for golfers who did not finish
	default:
		toPar := totalToPar
		result.ScoreToPar = &toPar
	}
	return results.Insert(ctx, result)
}

// restagger re-derives positions purely from raw stroke totals for
// staggered-start events, where the source reports positions that
// include starting strokes. Ties share a position label with a tie
// prefix; score to par is recomputed against a fixed par baseline.
func restagger(rows []api.LeaderboardRow, parBaseline int) []api.LeaderboardRow {
	out := make([]api.LeaderboardRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Strokes < out[j].Strokes })

	counts := make(map[int]int, len(out))
	for _, row := range out {
		counts[row.Strokes]++
	}

	rank := 1
	seen := make(map[int]int, len(counts))
	for i := range out {
		strokes := out[i].Strokes
		if seen[strokes] == 0 {
			seen[strokes] = rank
		}
		label := strconv.Itoa(seen[strokes])
		if counts[strokes] > 1 {
			label = "T" + label
		}
		out[i].Position = label
		out[i].TotalToPar = int64(strokes - parBaseline)
		rank++
	}
	return out
}
