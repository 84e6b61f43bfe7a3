package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

func TestLevelGapsRespectsRunCapAtDestination(t *testing.T) {
	input := Input{
		Workers: []Worker{
			testWorker("pam", 4, 0),
			testWorker("quin", 2, 0),
			testWorker("rae", 3, 0),
		},
		Sites:      []Site{{Name: "Elmer", WeekdayDemand: 1, WeekendDemand: 0}},
		SiteGroups: map[string][]string{"acute": {"Elmer"}},
	}
	cfg := DefaultConfig(blockStart, blockStart.AddDate(0, 0, 8*7-1))
	periods, err := calendar.BuildPeriods(cfg.BlockStart, cfg.BlockEnd)
	require.NoError(t, err)
	e, err := newEngine(input, cfg, periods)
	require.NoError(t, err)

	weekday := func(week int) int {
		for _, p := range periods {
			if p.Week == week && p.Type == calendar.Weekday {
				return p.Index
			}
		}
		t.Fatalf("no weekday period for week %d", week)
		return -1
	}

	// pam already holds a three-week run over weeks 3-5 plus the surplus
	// week-8 slot; week 2 is the lone unfilled period. Pulling pam into
	// week 2 would stretch the run to four weeks.
	e.ledger.Place("rae", weekday(1), "Elmer")
	e.ledger.Place("pam", weekday(3), "Elmer")
	e.ledger.Place("pam", weekday(4), "Elmer")
	e.ledger.Place("pam", weekday(5), "Elmer")
	e.ledger.Place("rae", weekday(6), "Elmer")
	e.ledger.Place("rae", weekday(7), "Elmer")
	e.ledger.Place("pam", weekday(8), "Elmer")
	e.ledger.Place("quin", weekday(8), "Elmer")

	e.levelGaps()

	// quin takes week 2; pam's run never grows
	assert.True(t, e.ledger.Assigned("quin", weekday(2)))
	assert.False(t, e.ledger.Assigned("pam", weekday(2)))
	start, end := e.ledger.RunBounds("pam", 4)
	assert.Equal(t, 3, end-start+1)
}

func TestLevelGapsSkipsMoveIntoAdjacentRun(t *testing.T) {
	// Every mover at the surplus period sits next to the shortfall week:
	// leveling must leave the gap rather than extend a run past the cap
	input := Input{
		Workers: []Worker{
			testWorker("pam", 2, 0),
			testWorker("sol", 3, 0),
		},
		Sites:      []Site{{Name: "Elmer", WeekdayDemand: 1, WeekendDemand: 0}},
		SiteGroups: map[string][]string{"acute": {"Elmer"}},
	}
	cfg := DefaultConfig(blockStart, blockStart.AddDate(0, 0, 5*7-1))
	periods, err := calendar.BuildPeriods(cfg.BlockStart, cfg.BlockEnd)
	require.NoError(t, err)
	e, err := newEngine(input, cfg, periods)
	require.NoError(t, err)

	weekday := func(week int) int {
		for _, p := range periods {
			if p.Week == week && p.Type == calendar.Weekday {
				return p.Index
			}
		}
		t.Fatalf("no weekday period for week %d", week)
		return -1
	}

	// Week 2 is short and the surplus sits in week 3. Both week-3 holders
	// would land in a three-week run by taking week 2: pam through weeks
	// 3-4 ahead, sol through week 1 behind plus week 3 ahead.
	e.ledger.Place("sol", weekday(1), "Elmer")
	e.ledger.Place("pam", weekday(3), "Elmer")
	e.ledger.Place("sol", weekday(3), "Elmer")
	e.ledger.Place("pam", weekday(4), "Elmer")
	e.ledger.Place("sol", weekday(5), "Elmer")

	e.levelGaps()

	assert.False(t, e.ledger.Assigned("pam", weekday(2)))
	assert.False(t, e.ledger.Assigned("sol", weekday(2)))
	start, end := e.ledger.RunBounds("pam", 3)
	assert.Equal(t, 2, end-start+1)
}
