package roster

import (
	"math"
	"sort"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

type candidate struct {
	worker Worker
	score  float64
}

// gapSincePeriod is the raw period gap since the worker was last assigned.
// Never-assigned workers get a large synthetic gap so they surface early.
func (e *engine) gapSincePeriod(worker string, periodIdx int) float64 {
	last, ok := e.ledger.LastPeriod(worker)
	if !ok {
		return float64(periodIdx + 10)
	}
	return float64(periodIdx - last)
}

// spacingScore rates how well assigning this period keeps the worker's
// stretches evenly spread across the block. Positive means the worker is
// due, negative means the slot comes too soon after the last one.
func (e *engine) spacingScore(w Worker, periodIdx int, t calendar.PeriodType) float64 {
	target := w.Target(t)
	used := e.ledger.Count(w.Name, t)
	remainingToAssign := target - used
	if remainingToAssign < 1 {
		remainingToAssign = 1
	}

	remainingPeriods := 0
	for _, p := range e.periods {
		if p.Index >= periodIdx && p.Type == t {
			remainingPeriods++
		}
	}
	if remainingPeriods <= 0 {
		return 0
	}

	idealInterval := float64(remainingPeriods) / float64(remainingToAssign)

	lastWeek, ok := e.ledger.LastWeek(w.Name)
	if !ok {
		// First assignment: with N to place across M periods of this type,
		// the first should land near M/(N+1)
		total := 0
		typeIdx := 0
		for _, p := range e.periods {
			if p.Type != t {
				continue
			}
			total++
			if p.Index < periodIdx {
				typeIdx++
			}
		}
		idealFirst := float64(total) / float64(remainingToAssign+1)
		return 10 - math.Abs(float64(typeIdx)-idealFirst)*3
	}

	weekGap := float64(e.periods[periodIdx].Week - lastWeek)
	return (weekGap - idealInterval) * 5
}

// stretchBonus encodes the pairing preferences: weekends strongly prefer
// the site their week was worked at, cross-site pairings within a week are
// penalized, and extending an already-active week into a long run is
// discouraged in proportion to how much slack the worker's quota leaves.
func (e *engine) stretchBonus(w Worker, p calendar.Period, site string, consec int) float64 {
	nPeriods := 0
	for _, q := range e.periods {
		if q.Type == p.Type {
			nPeriods++
		}
	}
	slack := nPeriods - w.Target(p.Type)

	if p.Type == calendar.Weekend {
		prevSite, paired := e.ledger.WeekSite(w.Name, p.Week)
		if paired && prevSite == site {
			return 100
		}
		if paired {
			return -50
		}
		// Standalone weekend that would extend a back-to-back
		if consec == 1 && slack >= 3 {
			return -120
		}
		return 0
	}

	if consec == 1 {
		if slack >= 3 {
			return -150
		}
		if slack >= 1 {
			return -50
		}
	}
	return 0
}

// buildCandidates returns the scored, best-first candidate list for one
// site slot. Workers already placed this period, out of capacity, capped
// at fair share (pass 1 only), ineligible for the site, unavailable, or
// already running two active weeks are filtered before scoring.
func (e *engine) buildCandidates(site string, periodIdx int) []candidate {
	p := e.periods[periodIdx]
	var candidates []candidate

	for _, w := range e.workers {
		if e.ledger.Assigned(w.Name, periodIdx) {
			continue
		}

		target := w.Target(p.Type)
		count := e.ledger.Count(w.Name, p.Type)
		if target <= 0 || count >= target {
			continue
		}
		if e.fairShareCap && count >= e.fairShares[w.Name].Cap(p.Type) {
			continue
		}
		if !e.eligibleSet[w.Name][site] {
			continue
		}
		if !e.available(w.Name, p) {
			continue
		}

		consec := e.ledger.ConsecutiveBefore(w.Name, p.Week)
		if consec >= e.cfg.MaxConsecutiveWeeks {
			continue
		}

		pct := e.sitePct(w, site)
		behind := w.Remaining(p.Type)*pct - float64(e.ledger.SiteCount(w.Name, site))

		gap := e.gapSincePeriod(w.Name, periodIdx)
		spacing := e.spacingScore(w, periodIdx, p.Type)
		stretch := e.stretchBonus(w, p, site, consec)
		jitter := e.rng.Float64()*4 - 2

		score := stretch + behind*5 + spacing*6 + gap*3 + pct*2 + jitter
		candidates = append(candidates, candidate{worker: w, score: score})
	}

	// Workers are visited in name order, so the stable sort leaves exact
	// ties deterministically ordered by name
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}
