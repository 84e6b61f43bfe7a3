package roster

import "sort"

// crossSiteFill repeatedly targets the single (period, site) slot with the
// worst unmet shortfall. Strategy A recruits an unassigned worker with
// remaining capacity, relaxing the run cap up to the absolute maximum and
// logging any relaxed run as an override. If no recruit exists, Strategy B
// levels across sites by reassigning a worker from a less-short site in
// the same period. Stops when neither strategy can improve the worst slot
// or the iteration cap is hit.
func (e *engine) crossSiteFill() {
	for iter := 0; iter < e.cfg.MaxLevelIters; iter++ {
		periodIdx, site, shortfall := e.worstShortfall()
		if shortfall <= 0 {
			return
		}

		if e.recruitInto(periodIdx, site) {
			e.crossFillMoves++
			continue
		}
		if e.reassignInto(periodIdx, site) {
			e.crossFillMoves++
			continue
		}
		return
	}
}

func (e *engine) worstShortfall() (periodIdx int, site string, shortfall int) {
	shortfall = 0
	periodIdx = -1
	for _, p := range e.periods {
		for _, s := range e.sites {
			short := s.Demand(p.Type) - e.ledger.FillCount(p.Index, s.Name)
			if short > shortfall {
				shortfall = short
				periodIdx = p.Index
				site = s.Name
			}
		}
	}
	return periodIdx, site, shortfall
}

// recruitInto is Strategy A: pick the best unassigned, eligible, available
// worker with remaining capacity for the slot. Candidates are ranked by
// their share at the target site and their contractual gap.
func (e *engine) recruitInto(periodIdx int, site string) bool {
	p := e.periods[periodIdx]

	type recruit struct {
		worker Worker
		score  float64
		runLen int
	}
	var candidates []recruit

	for _, w := range e.workers {
		if e.ledger.Assigned(w.Name, periodIdx) {
			continue
		}
		if e.ledger.Count(w.Name, p.Type) >= w.Target(p.Type) {
			continue
		}
		if !e.eligibleSet[w.Name][site] {
			continue
		}
		if !e.available(w.Name, p) {
			continue
		}
		runLen := e.ledger.RunLengthWith(w.Name, p.Week)
		if runLen > e.cfg.AbsoluteMaxConsecutiveWeeks {
			continue
		}

		score := e.sitePct(w, site)*100 + float64(e.utilizationGap(w))*10
		candidates = append(candidates, recruit{worker: w, score: score, runLen: runLen})
	}
	if len(candidates) == 0 {
		return false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	best := candidates[0]
	e.ledger.Place(best.worker.Name, periodIdx, site)
	if best.runLen > e.cfg.MaxConsecutiveWeeks {
		e.overrides = append(e.overrides, StretchOverride{
			Worker:    best.worker.Name,
			Period:    periodIdx,
			RunLength: best.runLen,
		})
	}
	return true
}

// reassignInto is Strategy B: steal a worker from a site whose shortfall
// in this period is strictly smaller than the target's, preferring the
// most overfilled source. Each (worker, period, from, to) move is taken at
// most once, so equal-shortfall sites cannot swap a worker back and forth
// under the iteration cap.
func (e *engine) reassignInto(periodIdx int, site string) bool {
	p := e.periods[periodIdx]
	targetShort := e.siteByName[site].Demand(p.Type) - e.ledger.FillCount(periodIdx, site)

	type swap struct {
		worker string
		from   string
		score  int
	}
	var candidates []swap

	for _, a := range e.ledger.PeriodAssignments(periodIdx) {
		if a.Site == site {
			continue
		}
		short := e.siteByName[a.Site].Demand(p.Type) - e.ledger.FillCount(periodIdx, a.Site)
		if short >= targetShort {
			continue
		}
		if !e.eligibleSet[a.Worker][site] {
			continue
		}
		move := crossMove{worker: a.Worker, period: periodIdx, fromSite: a.Site, toSite: site}
		if e.bVisited[move] {
			continue
		}
		candidates = append(candidates, swap{worker: a.Worker, from: a.Site, score: -short})
	}
	if len(candidates) == 0 {
		return false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	best := candidates[0]
	e.bVisited[crossMove{worker: best.worker, period: periodIdx, fromSite: best.from, toSite: site}] = true
	e.ledger.Remove(best.worker, periodIdx)
	e.ledger.Place(best.worker, periodIdx, site)
	return true
}
