// Package scoring holds the position/points policy: a pure mapping
// from (finishing position, canonical status, major flag) to a fixed
// point score. Bands load from the scoring_rules table; the hardcoded
// default ruleset is the fallback when the table is empty.
package scoring

import (
	"strconv"
	"strings"

	"golf-pickem/internal/constants"
	"golf-pickem/internal/domain"
)

// Ruleset is an ordered list of position bands. Bands are inclusive on
// both ends and are expected to cover positions 1..999 without gaps.
type Ruleset []domain.ScoringRule

// DefaultRuleset returns the built-in position bands (points x 100).
func DefaultRuleset() Ruleset {
	return Ruleset{
		{StartPosition: 1, EndPosition: 1, Points: 10000},
		{StartPosition: 2, EndPosition: 2, Points: 7500},
		{StartPosition: 3, EndPosition: 3, Points: 6000},
		{StartPosition: 4, EndPosition: 4, Points: 5000},
		{StartPosition: 5, EndPosition: 5, Points: 4000},
		{StartPosition: 6, EndPosition: 10, Points: 3000},
		{StartPosition: 11, EndPosition: 20, Points: 2500},
		{StartPosition: 21, EndPosition: 30, Points: 2000},
		{StartPosition: 31, EndPosition: 40, Points: 1500},
		{StartPosition: 41, EndPosition: 50, Points: 1000},
		{StartPosition: 51, EndPosition: constants.UnparseablePosition, Points: 500},
	}
}

// mdfPoints: made cut, did not finish. Paid position, reduced points.
const mdfPoints int64 = 500

// BasePoints maps a finishing position and canonical status to fixed
// point base points, before any major multiplier.
func (rs Ruleset) BasePoints(position int, status domain.Status) int64 {
	switch status {
	case domain.StatusCut, domain.StatusWD, domain.StatusDQ:
		return 0
	case domain.StatusMDF:
		return mdfPoints
	case domain.StatusActive, domain.StatusComplete:
		// fall through to the position bands
	default:
		// Normalizer output should never land here; score it as a miss.
		return 0
	}

	for _, rule := range rs {
		if position >= rule.StartPosition && position <= rule.EndPosition {
			return rule.Points
		}
	}
	if len(rs) > 0 {
		return rs[len(rs)-1].Points
	}
	return 0
}

// Points computes the final fixed point score for a pick, applying the
// major multiplier with integer truncation.
func (rs Ruleset) Points(position int, status domain.Status, isMajor bool) int64 {
	base := rs.BasePoints(position, status)
	if isMajor {
		return base * constants.MajorMultiplierNum / constants.MajorMultiplierDen
	}
	return base
}

// ParsePosition strips a tie prefix ("T12" -> 12) and parses the rest.
// Unparseable positions resolve to the worst band.
func ParsePosition(raw string) int {
	s := strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(raw)), "T"))
	position, err := strconv.Atoi(s)
	if err != nil || position < 1 {
		return constants.UnparseablePosition
	}
	return position
}
