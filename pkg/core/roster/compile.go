package roster

import (
	"sort"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

// compile derives the result snapshot from the final ledger: stretch
// classification per worker per week, site fill summaries, worker
// utilization with under-assignment reasons, and the deduplicated
// override log.
func (e *engine) compile() *Result {
	res := &Result{
		Periods:        e.periods,
		Assignments:    e.ledger.All(),
		SiteFill:       make(map[string]SiteFill),
		Stretches:      make(map[string]map[int]StretchKind),
		Overfills:      e.overfills,
		RebalanceMoves: e.rebalanceMoves,
		LevelMoves:     e.levelMoves,
		CrossFillMoves: e.crossFillMoves,
	}

	e.compileStretches(res)
	e.compileSiteFill(res)
	e.compileWorkers(res)
	res.Overrides = e.dedupeOverrides()

	for _, p := range e.periods {
		for _, s := range e.sites {
			if short := s.Demand(p.Type) - e.ledger.FillCount(p.Index, s.Name); short > 0 {
				res.ResidualShortfall += short
			}
		}
	}
	res.ObligationGap = e.totalObligationGap()

	return res
}

func (e *engine) compileStretches(res *Result) {
	mark := func(worker string, week int, kind StretchKind) {
		m := res.Stretches[worker]
		if m == nil {
			m = make(map[int]StretchKind)
			res.Stretches[worker] = m
		}
		m[week] = kind
	}

	for _, p := range e.periods {
		if p.Type != calendar.Weekday {
			continue
		}
		for _, a := range e.ledger.PeriodAssignments(p.Index) {
			weekendSite, hasWeekend := e.weekendSite(a.Worker, p.Week)
			switch {
			case hasWeekend && weekendSite == a.Site:
				mark(a.Worker, p.Week, StretchFull)
			case hasWeekend:
				mark(a.Worker, p.Week, StretchCrossSite)
			default:
				mark(a.Worker, p.Week, WeekOnly)
			}
		}
	}

	for _, p := range e.periods {
		if p.Type != calendar.Weekend {
			continue
		}
		for _, a := range e.ledger.PeriodAssignments(p.Index) {
			if _, ok := res.Stretches[a.Worker][p.Week]; !ok {
				mark(a.Worker, p.Week, WeekendOnly)
			}
		}
	}

	for _, m := range res.Stretches {
		for _, kind := range m {
			switch kind {
			case StretchFull:
				res.StretchCounts.Stretches++
			case StretchCrossSite:
				res.StretchCounts.CrossSite++
			case WeekOnly:
				res.StretchCounts.WeekOnly++
			case WeekendOnly:
				res.StretchCounts.WeekendOnly++
			}
		}
	}
}

func (e *engine) weekendSite(worker string, week int) (string, bool) {
	for _, p := range e.periods {
		if p.Type != calendar.Weekend || p.Week != week {
			continue
		}
		for _, a := range e.ledger.PeriodAssignments(p.Index) {
			if a.Worker == worker {
				return a.Site, true
			}
		}
	}
	return "", false
}

func (e *engine) compileSiteFill(res *Result) {
	for _, s := range e.sites {
		sf := SiteFill{
			Site:          s.Name,
			WeekdayDemand: s.WeekdayDemand,
			WeekendDemand: s.WeekendDemand,
		}
		for _, p := range e.periods {
			fill := e.ledger.FillCount(p.Index, s.Name)
			demand := s.Demand(p.Type)
			if p.Type == calendar.Weekday {
				sf.WeekdayFills = append(sf.WeekdayFills, fill)
			} else {
				sf.WeekendFills = append(sf.WeekendFills, fill)
			}
			if fill < demand {
				sf.TotalShort += demand - fill
			} else {
				sf.TotalOver += fill - demand
			}
		}
		res.SiteFill[s.Name] = sf
	}
}

func (e *engine) compileWorkers(res *Result) {
	nWeeks := 0
	weekSet := make(map[int]bool)
	for _, p := range e.periods {
		if !weekSet[p.Week] {
			weekSet[p.Week] = true
			nWeeks++
		}
	}

	for _, w := range e.workers {
		ws := WorkerSummary{
			Name:            w.Name,
			WeekdayTarget:   w.Target(calendar.Weekday),
			WeekendTarget:   w.Target(calendar.Weekend),
			WeekdayAssigned: e.ledger.Count(w.Name, calendar.Weekday),
			WeekendAssigned: e.ledger.Count(w.Name, calendar.Weekend),
			EligibleSites:   e.eligible[w.Name],
		}

		unavailWeeks := make(map[int]bool)
		for _, p := range e.periods {
			if !e.available(w.Name, p) {
				unavailWeeks[p.Week] = true
			}
		}
		ws.UnavailableWeeks = len(unavailWeeks)
		ws.AvailableWeeks = nWeeks - ws.UnavailableWeeks

		switch {
		case ws.WeekdayAssigned > ws.WeekdayTarget || ws.WeekendAssigned > ws.WeekendTarget:
			ws.OverAssigned = true
		case ws.WeekdayAssigned < ws.WeekdayTarget || ws.WeekendAssigned < ws.WeekendTarget:
			ws.UnderAssigned = true
			if ws.AvailableWeeks < ws.WeekdayTarget+ws.WeekendTarget {
				ws.Reasons = append(ws.Reasons, ReasonExcessiveTimeOff)
			}
			if len(ws.EligibleSites) == 0 {
				ws.Reasons = append(ws.Reasons, ReasonNoEligibleSites)
			}
			if len(ws.Reasons) == 0 {
				ws.Reasons = append(ws.Reasons, ReasonSchedulingConstraint)
			}
		}

		res.Workers = append(res.Workers, ws)
	}
}

// dedupeOverrides collapses the per-placement override log to one entry
// per distinct run. Both placements of a 3-week run (its weekday and its
// weekend in the same week) record overrides; only the run itself matters
// for the audit report. The entry's period is the weekday period nearest
// the middle of the run, and the run length is recomputed from the final
// ledger since later moves may have shortened it.
func (e *engine) dedupeOverrides() []StretchOverride {
	type runKey struct {
		worker     string
		start, end int
	}
	seen := make(map[runKey]bool)
	var out []StretchOverride

	for _, o := range e.overrides {
		week := e.periods[o.Period].Week
		if !e.ledger.ActiveWeek(o.Worker, week) {
			continue
		}
		start, end := e.ledger.RunBounds(o.Worker, week)
		key := runKey{worker: o.Worker, start: start, end: end}
		if seen[key] {
			continue
		}
		seen[key] = true

		length := end - start + 1
		if length <= e.cfg.MaxConsecutiveWeeks {
			continue
		}

		midWeek := start + length/2
		midPeriod := o.Period
		for _, p := range e.periods {
			if p.Week == midWeek && p.Type == calendar.Weekday {
				midPeriod = p.Index
				break
			}
		}
		out = append(out, StretchOverride{Worker: o.Worker, Period: midPeriod, RunLength: length})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RunLength != out[j].RunLength {
			return out[i].RunLength > out[j].RunLength
		}
		return out[i].Worker < out[j].Worker
	})
	return out
}
