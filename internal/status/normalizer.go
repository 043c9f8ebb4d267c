// Package status maps raw provider status strings onto the canonical
// status set. Known variants resolve through a fixed alias table;
// previously unseen strings consult a durable learned-mapping cache,
// and genuinely new ones fall to a configurable unknown policy.
package status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"golf-pickem/internal/config"
	"golf-pickem/internal/domain"
)

// ErrUnknownStatus is returned under the strict policy when a raw
// status is neither aliased nor cached.
var ErrUnknownStatus = errors.New("unknown status")

// aliasTable covers the spellings providers have actually sent.
var aliasTable = map[string]domain.Status{
	"complete":       domain.StatusComplete,
	"finished":       domain.StatusComplete,
	"active":         domain.StatusActive,
	"playing":        domain.StatusActive,
	"cut":            domain.StatusCut,
	"mc":             domain.StatusCut,
	"missed cut":     domain.StatusCut,
	"did not finish": domain.StatusCut,
	"wd":             domain.StatusWD,
	"withdrawn":      domain.StatusWD,
	"withdrew":       domain.StatusWD,
	"dq":             domain.StatusDQ,
	"dsq":            domain.StatusDQ,
	"disqualified":   domain.StatusDQ,
	"mdf":            domain.StatusMDF,
}

// MappingStore is the durable cache behind the normalizer.
type MappingStore interface {
	LoadAll(ctx context.Context) (map[string]string, error)
	Append(ctx context.Context, raw, canonical string) error
}

type Normalizer struct {
	store  MappingStore
	policy config.UnknownStatusPolicy
	logger zerolog.Logger

	mu    sync.RWMutex
	cache map[string]domain.Status
}

// NewNormalizer loads the learned-mapping cache once at construction.
func NewNormalizer(ctx context.Context, store MappingStore, policy config.UnknownStatusPolicy, logger zerolog.Logger) (*Normalizer, error) {
	raw, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load status mapping cache: %w", err)
	}
	cache := make(map[string]domain.Status, len(raw))
	for k, v := range raw {
		cache[k] = domain.Status(v)
	}
	logger.Info().Int("learned_mappings", len(cache)).Msg("status normalizer ready")
	return &Normalizer{store: store, policy: policy, logger: logger, cache: cache}, nil
}

// Normalize maps a raw provider status onto the canonical set. Under
// the default policy an unknown string normalizes to "complete" and is
// logged; under the strict policy it returns ErrUnknownStatus.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (domain.Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		key = "complete"
	}

	if canonical, ok := aliasTable[key]; ok {
		return canonical, nil
	}

	n.mu.RLock()
	canonical, ok := n.cache[key]
	n.mu.RUnlock()
	if ok {
		return canonical, nil
	}

	if n.policy == config.UnknownStatusFail {
		return "", fmt.Errorf("status %q: %w", raw, ErrUnknownStatus)
	}

	n.logger.Warn().Str("raw_status", raw).Msg("unknown status, defaulting to complete")
	return domain.StatusComplete, nil
}

// Learn appends a raw -> canonical mapping to the durable cache. This
// replaces the old interactive prompt: an operator resolves the
// mapping out of band and records it here.
func (n *Normalizer) Learn(ctx context.Context, raw string, canonical domain.Status) error {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return fmt.Errorf("cannot learn empty status")
	}
	if !IsCanonical(canonical) {
		return fmt.Errorf("cannot learn non-canonical status %q", canonical)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if existing, ok := n.cache[key]; ok {
		if existing == canonical {
			return nil
		}
		return fmt.Errorf("status %q already mapped to %q; remapping is a manual edit", key, existing)
	}
	if err := n.store.Append(ctx, key, string(canonical)); err != nil {
		return err
	}
	n.cache[key] = canonical
	return nil
}

// IsCanonical reports whether s is one of the six canonical statuses.
func IsCanonical(s domain.Status) bool {
	switch s {
	case domain.StatusComplete, domain.StatusActive, domain.StatusCut,
		domain.StatusWD, domain.StatusDQ, domain.StatusMDF:
		return true
	}
	return false
}
