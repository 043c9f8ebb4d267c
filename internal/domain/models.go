package domain

import (
	"time"
)

// Status is the canonical finishing status of a golfer in a tournament.
// External providers report dozens of spellings; the status normalizer
// maps them all onto these six values.
type Status string

const (
	StatusComplete Status = "complete"
	StatusActive   Status = "active"
	StatusCut      Status = "cut"
	StatusWD       Status = "wd"
	StatusDQ       Status = "dq"
	StatusMDF      Status = "mdf"
)

// Tournament formats. Format drives the ingestion special cases:
// "staggered" events (starting-strokes finales) re-derive positions
// from raw stroke totals, "team" events carry slash-delimited pairs.
const (
	FormatStroke    = "stroke"
	FormatTeam      = "team"
	FormatStaggered = "staggered"
)

type Golfer struct {
	ID             string // short code, e.g. "cantlpa01"
	SportContentID int64  // 0 when unknown
	DataGolfID     int64  // 0 when unknown
	FirstName      string
	LastName       string
	FullName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Tournament struct {
	ID             int64
	SportContentID int64
	Name           string
	Format         string
	IsMajor        bool
	StartDate      string // YYYY-MM-DD, local to TimeZone
	StartTime      string // HH:MM:SS
	EndDate        string
	TimeZone       string // IANA name
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StartsAtUTC combines the tournament's local start date/time with its
// stored timezone.
func (t Tournament) StartsAtUTC() (time.Time, error) {
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.Time{}, err
	}
	local, err := time.ParseInLocation("2006-01-02 15:04:05", t.StartDate+" "+t.StartTime, loc)
	if err != nil {
		return time.Time{}, err
	}
	return local.UTC(), nil
}

// TournamentGolfer is one generation of a golfer's entry in a
// tournament for a given year. Exactly one generation per
// (tournament, golfer, year) carries IsMostRecent; older generations
// stay behind as history.
type TournamentGolfer struct {
	ID           int64
	TournamentID int64
	GolferID     string
	Year         int
	IsActive     bool
	IsMostRecent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TournamentGolferResult is the current finishing record for one
// tournament entry. Ingestion hard-deletes a tournament's results
// before re-inserting, so at most one row exists per entry.
type TournamentGolferResult struct {
	ID                 string // nanoid
	TournamentGolferID int64
	Position           string // raw, tie prefix preserved ("T12")
	Status             Status
	ScoreToPar         *int64 // nil for cut/wd/dq
	CreatedAt          time.Time
}

type League struct {
	ID   int64
	Name string
}

type LeagueMember struct {
	ID          int64
	LeagueID    int64
	UserID      int64
	DisplayName string
}

type Pick struct {
	ID             string // nanoid
	LeagueMemberID int64
	TournamentID   int64
	GolferID       string
	Year           int
	IsMostRecent   bool
	PickedAt       time.Time
}

// LeagueMemberTournamentScore is the scoring engine's output: exactly
// one row per (member, tournament) per scoring run. Score is fixed
// point, points x 100.
type LeagueMemberTournamentScore struct {
	ID              int64
	LeagueMemberID  int64
	TournamentID    int64
	ResultID        *string // nil for no-pick and duplicate-pick rows
	Score           int64
	IsNoPick        bool
	IsDuplicatePick bool
	CreatedAt       time.Time
}

// ScheduleSlot places a tournament in a schedule year and carries the
// per-week duplicate-pick policy.
type ScheduleSlot struct {
	ScheduleID          int64
	TournamentID        int64
	WeekNumber          int
	AllowDuplicatePicks bool
}

// ScoringRule is one position band of the configurable ruleset.
// Points are fixed point (x100).
type ScoringRule struct {
	StartPosition int
	EndPosition   int
	Points        int64
}

// Standing is one league member's aggregate over their score rows.
type Standing struct {
	LeagueMemberID int64
	DisplayName    string
	Total          int64 // fixed point
	Tournaments    int
}
