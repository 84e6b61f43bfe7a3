package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileStretchClassification(t *testing.T) {
	e := testEngine(t, testInput())

	// ana: week 1 weekday + weekend, same site
	e.ledger.Place("ana", 0, "Elmer")
	e.ledger.Place("ana", 1, "Elmer")
	// ben: week 1 weekday + weekend, split across sites
	e.ledger.Place("ben", 0, "Main")
	e.ledger.Place("ben", 1, "Main")
	_, ok := e.ledger.Remove("ben", 1)
	require.True(t, ok)
	e.ledger.Place("ben", 1, "Elmer")
	// cal: weekday only in week 2, weekend only in week 3
	e.ledger.Place("cal", 2, "Main")
	e.ledger.Place("cal", 5, "Main")

	res := e.compile()

	assert.Equal(t, StretchFull, res.Stretches["ana"][1])
	assert.Equal(t, StretchCrossSite, res.Stretches["ben"][1])
	assert.Equal(t, WeekOnly, res.Stretches["cal"][2])
	assert.Equal(t, WeekendOnly, res.Stretches["cal"][3])

	assert.Equal(t, 1, res.StretchCounts.Stretches)
	assert.Equal(t, 1, res.StretchCounts.CrossSite)
	assert.Equal(t, 1, res.StretchCounts.WeekOnly)
	assert.Equal(t, 1, res.StretchCounts.WeekendOnly)
}

func TestCompileSiteFill(t *testing.T) {
	e := testEngine(t, testInput())

	// Elmer filled only in week 1: 1 of 4 weekday periods, 1 of 4 weekends
	e.ledger.Place("ana", 0, "Elmer")
	e.ledger.Place("ana", 1, "Elmer")

	res := e.compile()
	sf, ok := res.SiteFill["Elmer"]
	require.True(t, ok)

	assert.Equal(t, []int{1, 0, 0, 0}, sf.WeekdayFills)
	assert.Equal(t, []int{1, 0, 0, 0}, sf.WeekendFills)
	// 3 short weekday periods + 3 short weekends at demand 1 each
	assert.Equal(t, 6, sf.TotalShort)
	assert.Equal(t, 0, sf.TotalOver)

	// Main is entirely unfilled: 8 periods at demand 1
	assert.Equal(t, 8, res.SiteFill["Main"].TotalShort)
}

func TestCompileResidualAndObligation(t *testing.T) {
	e := testEngine(t, testInput())

	res := e.compile()
	// Nothing placed: full demand of 2 sites over 8 periods is residual
	assert.Equal(t, 16, res.ResidualShortfall)
	// 3 workers owing 2 weekdays + 1 weekend each
	assert.Equal(t, 9, res.ObligationGap)
}

func TestDedupeOverrides(t *testing.T) {
	e := testEngine(t, testInput())

	// ana active weeks 1-3: periods 0, 2, 4 weekdays plus the week 2
	// weekend (period 3). Both forced placements of the run logged it.
	e.ledger.Place("ana", 0, "Elmer")
	e.ledger.Place("ana", 2, "Elmer")
	e.ledger.Place("ana", 3, "Elmer")
	e.ledger.Place("ana", 4, "Elmer")
	e.overrides = []StretchOverride{
		{Worker: "ana", Period: 3, RunLength: 3},
		{Worker: "ana", Period: 4, RunLength: 3},
	}

	out := e.dedupeOverrides()
	require.Len(t, out, 1)
	assert.Equal(t, "ana", out[0].Worker)
	assert.Equal(t, 3, out[0].RunLength)
	// Entry points at the weekday period of the run's middle week
	assert.Equal(t, 2, out[0].Period)
}

func TestDedupeOverridesDropsShortenedRuns(t *testing.T) {
	e := testEngine(t, testInput())

	// The override was logged for a 3-week run later shortened to 2 by a
	// leveling move; the audit log only reports runs still over the cap
	e.ledger.Place("ana", 0, "Elmer")
	e.ledger.Place("ana", 2, "Elmer")
	e.overrides = []StretchOverride{{Worker: "ana", Period: 2, RunLength: 3}}

	assert.Empty(t, e.dedupeOverrides())
}
