package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

// Scoring constants. Scores are stored fixed point (points x 100) to
// keep float rounding out of the database.
const (
	FixedPointScale = 100

	// Penalty for a member who never submitted a pick: -10.00 points.
	NoPickPenalty int64 = -1000

	// A disallowed duplicate pick scores nothing.
	DuplicatePickPoints int64 = 0

	// Position assigned when the provider's position string cannot be
	// parsed; falls through to the worst scoring band.
	UnparseablePosition = 999
)

// Major championships score at 125/100 of the base points, truncated.
const (
	MajorMultiplierNum = 125
	MajorMultiplierDen = 100
)

// Default total-par baseline used when re-deriving score-to-par for
// staggered-start finales (overridable via config).
const DefaultStaggeredParBaseline = 280
