package roster

import "github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"

// levelGaps smooths per-period fill for each site by moving one worker at
// a time from the site's best-filled period to its worst-filled one. A
// move only qualifies when the spread is at least 2, the worst period is
// below demand and the best is above it, and the mover stays available,
// would not join or extend a run past the consecutive cap at the
// destination, and has no week+weekend pairing at the source that the
// move would break. Repeats
// until no move qualifies or the iteration cap is hit.
func (e *engine) levelGaps() {
	for iter := 0; iter < e.cfg.MaxLevelIters; iter++ {
		if !e.levelOnce() {
			return
		}
		e.levelMoves++
	}
}

func (e *engine) levelOnce() bool {
	for _, site := range e.sites {
		for _, t := range []calendar.PeriodType{calendar.Weekday, calendar.Weekend} {
			demand := site.Demand(t)
			if demand == 0 {
				continue
			}

			worstIdx, bestIdx := -1, -1
			for _, p := range e.periods {
				if p.Type != t {
					continue
				}
				fill := e.ledger.FillCount(p.Index, site.Name)
				if worstIdx < 0 || fill < e.ledger.FillCount(worstIdx, site.Name) {
					worstIdx = p.Index
				}
				if bestIdx < 0 || fill > e.ledger.FillCount(bestIdx, site.Name) {
					bestIdx = p.Index
				}
			}
			if worstIdx < 0 {
				continue
			}

			worstFill := e.ledger.FillCount(worstIdx, site.Name)
			bestFill := e.ledger.FillCount(bestIdx, site.Name)
			if bestFill-worstFill < 2 || worstFill >= demand || bestFill <= demand {
				continue
			}

			if e.moveBetweenPeriods(site.Name, bestIdx, worstIdx, t) {
				return true
			}
		}
	}
	return false
}

// moveBetweenPeriods moves the first qualifying worker at the site from
// the surplus period to the shortfall period
func (e *engine) moveBetweenPeriods(site string, fromIdx, toIdx int, t calendar.PeriodType) bool {
	toWeek := e.periods[toIdx].Week
	fromWeek := e.periods[fromIdx].Week

	for _, a := range e.ledger.PeriodAssignments(fromIdx) {
		if a.Site != site {
			continue
		}
		if e.ledger.Assigned(a.Worker, toIdx) {
			continue
		}
		if e.ledger.RunLengthWith(a.Worker, toWeek) > e.cfg.MaxConsecutiveWeeks {
			continue
		}
		if !e.available(a.Worker, e.periods[toIdx]) {
			continue
		}
		// Moving one half of a week+weekend stretch would break the pair
		if e.pairedInWeek(a.Worker, fromWeek, t) {
			continue
		}

		e.ledger.Remove(a.Worker, fromIdx)
		e.ledger.Place(a.Worker, toIdx, site)
		return true
	}
	return false
}

// pairedInWeek reports whether the worker also holds the other period type
// in the given week
func (e *engine) pairedInWeek(worker string, week int, t calendar.PeriodType) bool {
	for _, p := range e.periods {
		if p.Week == week && p.Type != t && e.ledger.Assigned(worker, p.Index) {
			return true
		}
	}
	return false
}
