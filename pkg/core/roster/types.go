package roster

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

// Worker is a schedulable provider. Remaining-quota fields are read-only
// inputs; consumption is tracked in the Ledger, never written back here.
type Worker struct {
	Name string

	// FTE is the fractional full-time-equivalent, typically 0 < fte <= 1
	FTE float64

	// ShiftType is "Days" or "Nights". Night workers still participate
	// when they carry residual weekday/weekend obligations.
	ShiftType string

	AnnualWeeks    decimal.Decimal
	AnnualWeekends decimal.Decimal

	// Remaining quotas may be fractional; capacity checks always consume
	// them via ceiling rounding
	WeeksRemaining    decimal.Decimal
	WeekendsRemaining decimal.Decimal

	// GroupPercents maps site-group keys to the worker's allocation share
	// at that group (0 disables the group entirely)
	GroupPercents map[string]float64

	Tags []Tag

	// HolidayPrefs are carried through from the provider sheet for
	// reporting; the block engine itself does not act on them
	HolidayPrefs []string
}

// Tag is a named scheduling restriction with an optional free-form rule
type Tag struct {
	Name string
	Rule string
}

// Target returns the ceiling of the worker's remaining quota for the given
// period type, never negative.
func (w Worker) Target(t calendar.PeriodType) int {
	var d decimal.Decimal
	if t == calendar.Weekday {
		d = w.WeeksRemaining
	} else {
		d = w.WeekendsRemaining
	}
	n := int(d.Ceil().IntPart())
	if n < 0 {
		return 0
	}
	return n
}

// Remaining returns the raw fractional remaining quota for the period type
func (w Worker) Remaining(t calendar.PeriodType) float64 {
	if t == calendar.Weekday {
		return w.WeeksRemaining.InexactFloat64()
	}
	return w.WeekendsRemaining.InexactFloat64()
}

// Site is a shift site with static per-period-type demand
type Site struct {
	Name string

	WeekdayDemand int
	WeekendDemand int
}

// Demand returns the site's demand for the given period type
func (s Site) Demand(t calendar.PeriodType) int {
	if t == calendar.Weekday {
		return s.WeekdayDemand
	}
	return s.WeekendDemand
}

// Input is the snapshot the engine computes over. The engine performs no
// I/O itself — callers assemble this from whatever source they have.
type Input struct {
	Workers []Worker
	Sites   []Site

	// SiteGroups maps group keys (the keys of Worker.GroupPercents) to the
	// sites belonging to that group
	SiteGroups map[string][]string

	// Unavailable maps worker names to blacked-out calendar dates. An
	// absolute constraint: no phase ever places a worker over a blackout.
	Unavailable map[string][]time.Time
}

// Config holds the engine knobs surfaced to callers
type Config struct {
	BlockStart time.Time
	BlockEnd   time.Time

	// BlocksPerYear divides annual quotas into per-block fair shares
	BlocksPerYear int

	// Seed controls shuffle order and score jitter; identical seed and
	// inputs reproduce the identical assignment set
	Seed int64

	MaxRebalanceIters int
	MaxLevelIters     int

	// MaxConsecutiveWeeks is the normal active-week ceiling; forced fill
	// may relax runs up to AbsoluteMaxConsecutiveWeeks, never beyond
	MaxConsecutiveWeeks         int
	AbsoluteMaxConsecutiveWeeks int

	// OverflowSite is filled last and absorbs residual capacity; it is
	// expected to remain under demand
	OverflowSite string
}

// DefaultConfig returns a Config with the standard knob settings for the
// given block boundaries
func DefaultConfig(start, end time.Time) Config {
	return Config{
		BlockStart:                  start,
		BlockEnd:                    end,
		BlocksPerYear:               3,
		Seed:                        42,
		MaxRebalanceIters:           50,
		MaxLevelIters:               100,
		MaxConsecutiveWeeks:         2,
		AbsoluteMaxConsecutiveWeeks: 3,
	}
}

// Assignment is a (worker, period, site) triple. Created and destroyed only
// through Ledger mutation primitives.
type Assignment struct {
	Worker string
	Period int
	Site   string
}

// StretchOverride records a forced-fill relaxation of the consecutive-run
// cap, kept for auditability
type StretchOverride struct {
	Worker string
	// Period is a weekday-block period index near the middle of the run
	Period    int
	RunLength int
}

// StretchKind classifies one worker's active week
type StretchKind string

const (
	// StretchFull is a week+weekend pairing at the same site
	StretchFull StretchKind = "stretch"
	// StretchCrossSite is a week+weekend pairing split across sites
	StretchCrossSite StretchKind = "cross_site"
	WeekOnly         StretchKind = "week_only"
	WeekendOnly      StretchKind = "weekend_only"
)

// UnderAssignmentReason explains why a worker finished below quota
type UnderAssignmentReason string

const (
	// ReasonExcessiveTimeOff: the worker's available weeks cannot cover
	// their total obligation
	ReasonExcessiveTimeOff UnderAssignmentReason = "excessive_time_off"
	ReasonNoEligibleSites  UnderAssignmentReason = "no_eligible_sites"
	// ReasonSchedulingConstraint is the generic residual bucket
	ReasonSchedulingConstraint UnderAssignmentReason = "scheduling_constraint"
)

// SiteFill summarizes demand versus fill for one site across the block
type SiteFill struct {
	Site string

	WeekdayDemand int
	WeekendDemand int

	// Per-period fill counts in period order
	WeekdayFills []int
	WeekendFills []int

	TotalShort int
	TotalOver  int
}

// WorkerSummary reports one worker's utilization against quota
type WorkerSummary struct {
	Name string

	WeekdayTarget   int
	WeekendTarget   int
	WeekdayAssigned int
	WeekendAssigned int

	OverAssigned  bool
	UnderAssigned bool
	Reasons       []UnderAssignmentReason

	AvailableWeeks   int
	UnavailableWeeks int
	EligibleSites    []string
}

// StretchCounts aggregates the block's stretch classification
type StretchCounts struct {
	Stretches   int
	CrossSite   int
	WeekOnly    int
	WeekendOnly int
}

// Result is the engine's output snapshot
type Result struct {
	Periods     []calendar.Period
	Assignments []Assignment

	SiteFill map[string]SiteFill
	Workers  []WorkerSummary

	// Stretches maps worker -> week number -> classification
	Stretches     map[string]map[int]StretchKind
	StretchCounts StretchCounts

	// Overrides lists forced-fill consecutive-run relaxations
	Overrides []StretchOverride
	// Overfills lists placements deliberately made beyond site demand to
	// satisfy a worker's contractual obligation
	Overfills []Assignment

	RebalanceMoves int
	LevelMoves     int
	CrossFillMoves int

	// ResidualShortfall is the total unmet site demand across all periods
	ResidualShortfall int
	// ObligationGap is the total unmet worker obligation across all workers
	ObligationGap int
}
