package roster

import (
	"sort"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

// underUtilized returns workers short of their obligation, biggest gap
// first. Ties keep name order.
func (e *engine) underUtilized() []Worker {
	var under []Worker
	for _, w := range e.workers {
		if e.utilizationGap(w) > 0 {
			under = append(under, w)
		}
	}
	sort.SliceStable(under, func(i, j int) bool {
		return e.utilizationGap(under[i]) > e.utilizationGap(under[j])
	})
	return under
}

// rebalance pushes every worker toward their full remaining quota.
// Each iteration sweeps the under-utilized workers and tries to place each
// into the neediest period of a type they still owe, at the best
// under-demand site. Availability and the normal consecutive cap hold
// strictly here. Stops at the iteration cap or the first sweep with no
// placement.
func (e *engine) rebalance() {
	for iter := 0; iter < e.cfg.MaxRebalanceIters; iter++ {
		under := e.underUtilized()
		if len(under) == 0 {
			return
		}

		moved := false
		for _, w := range under {
			if e.placeForObligation(w, e.cfg.MaxConsecutiveWeeks, false) {
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// placeForObligation makes at most one placement for the worker, trying
// weekday periods first, then weekends, neediest periods first. With
// allowOverfill the site search falls back to at-demand sites when no
// under-demand site can take the worker.
func (e *engine) placeForObligation(w Worker, maxRun int, allowOverfill bool) bool {
	for _, t := range []calendar.PeriodType{calendar.Weekday, calendar.Weekend} {
		if e.ledger.Count(w.Name, t) >= w.Target(t) {
			continue
		}

		for _, idx := range e.periodsByShortfall(t) {
			if e.ledger.Assigned(w.Name, idx) {
				continue
			}
			if !e.canPlace(w, idx, maxRun) {
				continue
			}

			site, overfilled := e.bestSite(w, idx, false)
			if site == "" && allowOverfill {
				site, overfilled = e.bestSite(w, idx, true)
			}
			if site == "" {
				continue
			}

			runLen := e.ledger.RunLengthWith(w.Name, e.periods[idx].Week)
			if runLen > e.cfg.MaxConsecutiveWeeks {
				e.overrides = append(e.overrides, StretchOverride{
					Worker:    w.Name,
					Period:    idx,
					RunLength: runLen,
				})
			}
			e.ledger.Place(w.Name, idx, site)
			if overfilled {
				e.overfills = append(e.overfills, Assignment{Worker: w.Name, Period: idx, Site: site})
			}
			e.rebalanceMoves++
			return true
		}
	}
	return false
}

// forcedFill runs when rebalancing leaves residual deficits. Placement
// logic is unchanged except the run cap is relaxed to the absolute maximum
// and, as a last resort, a placement may overfill a site to satisfy the
// worker's contract. Every relaxed-run placement is logged as an override.
// Availability is still never relaxed.
func (e *engine) forcedFill() {
	for iter := 0; iter < e.cfg.MaxRebalanceIters; iter++ {
		under := e.underUtilized()
		if len(under) == 0 {
			return
		}

		moved := false
		for _, w := range under {
			if e.placeForObligation(w, e.cfg.AbsoluteMaxConsecutiveWeeks, true) {
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}
