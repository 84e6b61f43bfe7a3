package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

func testEngine(t *testing.T, input Input) *engine {
	t.Helper()
	cfg := DefaultConfig(blockStart, blockEnd)
	periods, err := calendar.BuildPeriods(cfg.BlockStart, cfg.BlockEnd)
	require.NoError(t, err)
	e, err := newEngine(input, cfg, periods)
	require.NoError(t, err)
	return e
}

func TestStretchBonusWeekendPairing(t *testing.T) {
	e := testEngine(t, testInput())
	w := e.workerByName["ana"]

	// ana worked Elmer in week 1's weekday block
	e.ledger.Place("ana", 0, "Elmer")
	weekend := e.periods[1]
	require.Equal(t, calendar.Weekend, weekend.Type)

	// Same site as the week: strong pairing bonus
	assert.Equal(t, 100.0, e.stretchBonus(w, weekend, "Elmer", 1))
	// Different site in the same week: penalized
	assert.Equal(t, -50.0, e.stretchBonus(w, weekend, "Main", 1))
}

func TestStretchBonusStandaloneWeekendAfterActiveWeek(t *testing.T) {
	e := testEngine(t, testInput())
	w := e.workerByName["ana"]

	// ana was active in week 1 but has no weekday block in week 2; a
	// standalone weekend in week 2 extends a back-to-back. With only 1
	// weekend owed over 4 weekend periods the slack is 3, so the penalty
	// applies.
	e.ledger.Place("ana", 0, "Elmer")
	week2Weekend := e.periods[3]
	require.Equal(t, calendar.Weekend, week2Weekend.Type)

	assert.Equal(t, -120.0, e.stretchBonus(w, week2Weekend, "Elmer", 1))
}

func TestStretchBonusConsecutiveWeekday(t *testing.T) {
	e := testEngine(t, testInput())

	// 2 weekday blocks owed over 4 weekday periods: slack 2, so extending
	// into a second consecutive week draws the mild penalty
	w := e.workerByName["ana"]
	weekday := e.periods[2]
	require.Equal(t, calendar.Weekday, weekday.Type)
	assert.Equal(t, -50.0, e.stretchBonus(w, weekday, "Elmer", 1))

	// A tighter quota (4 owed over 4 periods, slack 0) waives it
	tight := testWorker("tight", 4, 0)
	assert.Equal(t, 0.0, e.stretchBonus(tight, weekday, "Elmer", 1))
}

func TestBuildCandidatesFiltersHardConstraints(t *testing.T) {
	e := testEngine(t, testInput())

	// ana already assigned this period, ben at quota for weekdays
	e.ledger.Place("ana", 0, "Elmer")
	e.ledger.Place("ben", 2, "Main")
	e.ledger.Place("ben", 4, "Main")

	names := func(cands []candidate) []string {
		var out []string
		for _, c := range cands {
			out = append(out, c.worker.Name)
		}
		return out
	}

	cands := e.buildCandidates("Main", 0)
	assert.NotContains(t, names(cands), "ana")
	// ben has consumed their full weekday quota
	assert.NotContains(t, names(cands), "ben")
	assert.Contains(t, names(cands), "cal")
}

func TestBuildCandidatesFairShareCap(t *testing.T) {
	input := testInput()
	// ben is behind pace: remaining 3 exceeds annual/3 = 2
	input.Workers[1].WeeksRemaining = dec(3)

	e := testEngine(t, input)
	e.fairShareCap = true

	// ben at their fair share of 2 weekdays
	e.ledger.Place("ben", 0, "Elmer")
	e.ledger.Place("ben", 4, "Elmer")

	var found bool
	for _, c := range e.buildCandidates("Main", 6) {
		if c.worker.Name == "ben" {
			found = true
		}
	}
	assert.False(t, found, "fair-share cap should exclude ben in pass 1")

	// Pass 2 lifts the cap
	e.fairShareCap = false
	found = false
	for _, c := range e.buildCandidates("Main", 6) {
		if c.worker.Name == "ben" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildCandidatesConsecutiveCap(t *testing.T) {
	e := testEngine(t, testInput())

	// cal active in weeks 1 and 2; week 3 would be a third consecutive
	e.ledger.Place("cal", 0, "Elmer")
	e.ledger.Place("cal", 2, "Elmer")

	for _, c := range e.buildCandidates("Elmer", 4) {
		assert.NotEqual(t, "cal", c.worker.Name)
	}
}

func TestGapSincePeriod(t *testing.T) {
	e := testEngine(t, testInput())

	// Never assigned: synthetic large gap
	assert.Equal(t, 14.0, e.gapSincePeriod("ana", 4))

	e.ledger.Place("ana", 0, "Elmer")
	assert.Equal(t, 4.0, e.gapSincePeriod("ana", 4))
}
