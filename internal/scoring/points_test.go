package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golf-pickem/internal/domain"
)

func TestBasePointsBands(t *testing.T) {
	rs := DefaultRuleset()

	tests := []struct {
		position int
		want     int64
	}{
		{1, 10000},
		{2, 7500},
		{3, 6000},
		{4, 5000},
		{5, 4000},
		{6, 3000},
		{10, 3000},
		{11, 2500},
		{20, 2500},
		{21, 2000},
		{31, 1500},
		{41, 1000},
		{50, 1000},
		{51, 500},
		{999, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rs.BasePoints(tt.position, domain.StatusComplete), "position %d", tt.position)
		assert.Equal(t, tt.want, rs.BasePoints(tt.position, domain.StatusActive), "position %d active", tt.position)
	}
}

func TestBasePointsStatuses(t *testing.T) {
	rs := DefaultRuleset()

	for _, status := range []domain.Status{domain.StatusCut, domain.StatusWD, domain.StatusDQ} {
		assert.Zero(t, rs.BasePoints(1, status), "status %s", status)
		assert.Zero(t, rs.BasePoints(51, status), "status %s", status)
	}

	assert.Equal(t, int64(500), rs.BasePoints(1, domain.StatusMDF))
	assert.Equal(t, int64(500), rs.BasePoints(70, domain.StatusMDF))

	// anything outside the canonical set scores nothing
	assert.Zero(t, rs.BasePoints(1, domain.Status("bogus")))
}

func TestPointsMajorMultiplier(t *testing.T) {
	rs := DefaultRuleset()

	assert.Equal(t, int64(10000), rs.Points(1, domain.StatusComplete, false))
	assert.Equal(t, int64(12500), rs.Points(1, domain.StatusComplete, true))
	// 3000 * 125 / 100 = 3750
	assert.Equal(t, int64(3750), rs.Points(8, domain.StatusComplete, true))
	// 2500 * 1.25 = 3125, exact in fixed point
	assert.Equal(t, int64(3125), rs.Points(15, domain.StatusComplete, true))
	assert.Zero(t, rs.Points(3, domain.StatusCut, true))
}

func TestPointsCustomRuleset(t *testing.T) {
	rs := Ruleset{
		{StartPosition: 1, EndPosition: 1, Points: 20000},
		{StartPosition: 2, EndPosition: 999, Points: 100},
	}
	assert.Equal(t, int64(20000), rs.BasePoints(1, domain.StatusComplete))
	assert.Equal(t, int64(100), rs.BasePoints(64, domain.StatusComplete))
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1", 1},
		{"T12", 12},
		{"t3", 3},
		{" T45 ", 45},
		{"", 999},
		{"CUT", 999},
		{"-", 999},
		{"0", 999},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePosition(tt.raw), "raw %q", tt.raw)
	}
}
