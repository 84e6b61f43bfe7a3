package roster

import "sort"

// fillPass sweeps every period once, filling each site's remaining need
// from the scored candidate list. Weeks are visited in a shuffled order to
// avoid front-loading the block; within a week the weekday period is
// always filled before its weekend so weekend scoring can pair with the
// week's site. The pass is run twice: once with the fair-share cap on and
// once with it lifted.
func (e *engine) fillPass() {
	weekSet := make(map[int]bool)
	for _, p := range e.periods {
		weekSet[p.Week] = true
	}
	weeks := make([]int, 0, len(weekSet))
	for w := range weekSet {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	e.rng.Shuffle(len(weeks), func(i, j int) { weeks[i], weeks[j] = weeks[j], weeks[i] })

	for _, week := range weeks {
		for _, p := range e.periods {
			if p.Week == week {
				e.assignPeriod(p.Index)
			}
		}
	}
}

// assignPeriod fills one period's sites in fill order, smallest sites
// first so their short candidate lists are not drained by larger sites
func (e *engine) assignPeriod(periodIdx int) {
	p := e.periods[periodIdx]

	for _, site := range e.siteOrder {
		need := site.Demand(p.Type) - e.ledger.FillCount(periodIdx, site.Name)
		if need <= 0 {
			continue
		}

		candidates := e.buildCandidates(site.Name, periodIdx)
		if len(candidates) < need {
			need = len(candidates)
		}
		for i := 0; i < need; i++ {
			e.ledger.Place(candidates[i].worker.Name, periodIdx, site.Name)
		}
	}
}
