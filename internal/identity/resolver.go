package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"golf-pickem/internal/domain"
	"golf-pickem/internal/repository"
)

// ExternalGolfer is a provider's view of a golfer: a numeric provider
// ID plus whatever name fields the feed carries.
type ExternalGolfer struct {
	DataGolfID     int64
	SportContentID int64
	FirstName      string
	LastName       string
	DisplayName    string // used when the feed sends a single name field
}

// Resolver maps external golfer records onto canonical golfer IDs for
// the duration of one sync/ingestion batch. The whole golfer set is
// indexed up front and new IDs are registered in memory, so a batch
// never races its own uncommitted inserts.
type Resolver struct {
	golfers *repository.GolferRepository
	logger  zerolog.Logger

	byDataGolfID     map[int64]string
	bySportContentID map[int64]string
	byFoldedName     map[string]string
	takenIDs         map[string]struct{}
	names            []string // full names, insertion order, for token fallback
	nameIDs          []string
}

// NewResolver indexes the current golfer set. Pass a tx-bound golfer
// repository so inserts land in the caller's transaction.
func NewResolver(ctx context.Context, golfers *repository.GolferRepository, logger zerolog.Logger) (*Resolver, error) {
	all, err := golfers.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to index golfers: %w", err)
	}

	r := &Resolver{
		golfers:          golfers,
		logger:           logger,
		byDataGolfID:     make(map[int64]string, len(all)),
		bySportContentID: make(map[int64]string, len(all)),
		byFoldedName:     make(map[string]string, len(all)),
		takenIDs:         make(map[string]struct{}, len(all)),
	}
	for _, g := range all {
		r.index(g)
	}
	return r, nil
}

func (r *Resolver) index(g domain.Golfer) {
	if g.DataGolfID != 0 {
		r.byDataGolfID[g.DataGolfID] = g.ID
	}
	if g.SportContentID != 0 {
		r.bySportContentID[g.SportContentID] = g.ID
	}
	folded := foldFullName(g.FullName)
	if _, exists := r.byFoldedName[folded]; !exists {
		r.byFoldedName[folded] = g.ID
		r.names = append(r.names, g.FullName)
		r.nameIDs = append(r.nameIDs, g.ID)
	}
	r.takenIDs[g.ID] = struct{}{}
}

// Lookup resolves an external record to an existing golfer without
// creating one: provider ID first, then case-insensitive exact name.
// Returns "" on a miss.
func (r *Resolver) Lookup(rec ExternalGolfer) string {
	if rec.DataGolfID != 0 {
		if id, ok := r.byDataGolfID[rec.DataGolfID]; ok {
			return id
		}
	}
	if rec.SportContentID != 0 {
		if id, ok := r.bySportContentID[rec.SportContentID]; ok {
			return id
		}
	}
	name := rec.fullName()
	if name == "" {
		return ""
	}
	if id, ok := r.byFoldedName[foldFullName(name)]; ok {
		return id
	}
	return ""
}

// LookupFuzzy extends Lookup with normalized-token-set matching for
// records whose names vary in spelling across providers. Requires at
// least two shared tokens so a lone surname can't merge strangers.
func (r *Resolver) LookupFuzzy(rec ExternalGolfer) string {
	if id := r.Lookup(rec); id != "" {
		return id
	}
	name := rec.fullName()
	if name == "" {
		return ""
	}
	if i, overlap := BestTokenMatch(name, r.names); i >= 0 && overlap >= 2 {
		r.logger.Debug().
			Str("external_name", name).
			Str("matched_name", r.names[i]).
			Msg("golfer matched by token overlap")
		return r.nameIDs[i]
	}
	return ""
}

// Resolve returns the canonical golfer ID for an external record,
// creating a new golfer when nothing matches. Newly learned provider
// IDs are backfilled onto existing golfers.
func (r *Resolver) Resolve(ctx context.Context, rec ExternalGolfer) (string, error) {
	if id := r.Lookup(rec); id != "" {
		if err := r.Backfill(ctx, id, rec); err != nil {
			return "", err
		}
		return id, nil
	}

	first, last := rec.FirstName, rec.LastName
	if first == "" || last == "" {
		var err error
		first, last, err = SplitDisplayName(rec.fullName())
		if err != nil {
			return "", err
		}
	}

	id, err := GenerateGolferID(first, last, r.takenIDs)
	if err != nil {
		return "", err
	}

	g := domain.Golfer{
		ID:             id,
		DataGolfID:     rec.DataGolfID,
		SportContentID: rec.SportContentID,
		FirstName:      first,
		LastName:       last,
		FullName:       first + " " + last,
	}
	if err := r.golfers.Insert(ctx, &g); err != nil {
		return "", err
	}
	r.index(g)

	r.logger.Info().
		Str("golfer_id", id).
		Str("full_name", g.FullName).
		Msg("new golfer created")
	return id, nil
}

// Backfill persists any provider IDs the record carries that the
// matched golfer does not have yet. Ingestion calls this directly so
// lookup-only paths still learn IDs without creating golfers.
func (r *Resolver) Backfill(ctx context.Context, golferID string, rec ExternalGolfer) error {
	if rec.DataGolfID != 0 {
		if _, known := r.byDataGolfID[rec.DataGolfID]; !known {
			if err := r.golfers.SetDataGolfID(ctx, golferID, rec.DataGolfID); err != nil {
				return err
			}
			r.byDataGolfID[rec.DataGolfID] = golferID
		}
	}
	if rec.SportContentID != 0 {
		if _, known := r.bySportContentID[rec.SportContentID]; !known {
			if err := r.golfers.SetSportContentID(ctx, golferID, rec.SportContentID); err != nil {
				return err
			}
			r.bySportContentID[rec.SportContentID] = golferID
		}
	}
	return nil
}

func (rec ExternalGolfer) fullName() string {
	if rec.DisplayName != "" {
		return rec.DisplayName
	}
	name := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
	return name
}

func foldFullName(name string) string {
	return strings.Join(NormalizeTokens(name), " ")
}
