package roster

import (
	"sort"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

// Ledger is the engine's mutable assignment state: the assignment set plus
// the derived indexes every phase reads. Place and Remove are the only
// mutation primitives; they keep every index consistent with the
// assignment set. The Ledger is owned by a single goroutine — the phase
// driver — and is never shared.
type Ledger struct {
	periods []calendar.Period

	byPeriod [][]Assignment
	byWorker map[string][]Assignment

	weekdayCount map[string]int
	weekendCount map[string]int
	siteCounts   map[string]map[string]int

	lastPeriod map[string]int
	lastWeek   map[string]int

	// weekSite records the weekday-block site per (worker, week) so
	// weekend scoring can reward same-site pairing
	weekSite map[string]map[int]string

	// weekLoad counts assignments per (worker, week); a week is active
	// while its count is positive
	weekLoad map[string]map[int]int
}

// NewLedger creates an empty ledger over the given period sequence
func NewLedger(periods []calendar.Period) *Ledger {
	return &Ledger{
		periods:      periods,
		byPeriod:     make([][]Assignment, len(periods)),
		byWorker:     make(map[string][]Assignment),
		weekdayCount: make(map[string]int),
		weekendCount: make(map[string]int),
		siteCounts:   make(map[string]map[string]int),
		lastPeriod:   make(map[string]int),
		lastWeek:     make(map[string]int),
		weekSite:     make(map[string]map[int]string),
		weekLoad:     make(map[string]map[int]int),
	}
}

// Place records an assignment and updates every derived index. The caller
// is responsible for having checked availability, capacity, eligibility
// and the consecutive-run constraint first.
func (l *Ledger) Place(worker string, periodIdx int, site string) {
	p := l.periods[periodIdx]
	a := Assignment{Worker: worker, Period: periodIdx, Site: site}

	l.byPeriod[periodIdx] = append(l.byPeriod[periodIdx], a)
	l.byWorker[worker] = append(l.byWorker[worker], a)

	if p.Type == calendar.Weekday {
		l.weekdayCount[worker]++
		if l.weekSite[worker] == nil {
			l.weekSite[worker] = make(map[int]string)
		}
		l.weekSite[worker][p.Week] = site
	} else {
		l.weekendCount[worker]++
	}

	if l.siteCounts[worker] == nil {
		l.siteCounts[worker] = make(map[string]int)
	}
	l.siteCounts[worker][site]++

	if last, ok := l.lastPeriod[worker]; !ok || periodIdx > last {
		l.lastPeriod[worker] = periodIdx
	}
	if last, ok := l.lastWeek[worker]; !ok || p.Week > last {
		l.lastWeek[worker] = p.Week
	}

	if l.weekLoad[worker] == nil {
		l.weekLoad[worker] = make(map[int]int)
	}
	l.weekLoad[worker][p.Week]++
}

// Remove deletes a worker's assignment from a period, returning the site
// it held. Returns ok=false when no such assignment exists.
func (l *Ledger) Remove(worker string, periodIdx int) (site string, ok bool) {
	p := l.periods[periodIdx]

	found := false
	perList := l.byPeriod[periodIdx]
	for i, a := range perList {
		if a.Worker == worker {
			site = a.Site
			l.byPeriod[periodIdx] = append(perList[:i:i], perList[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	wList := l.byWorker[worker]
	for i, a := range wList {
		if a.Period == periodIdx {
			l.byWorker[worker] = append(wList[:i:i], wList[i+1:]...)
			break
		}
	}

	if p.Type == calendar.Weekday {
		l.weekdayCount[worker]--
		delete(l.weekSite[worker], p.Week)
	} else {
		l.weekendCount[worker]--
	}

	l.siteCounts[worker][site]--

	l.weekLoad[worker][p.Week]--
	if l.weekLoad[worker][p.Week] <= 0 {
		delete(l.weekLoad[worker], p.Week)
	}

	// lastPeriod and lastWeek may have pointed at the removed assignment
	if rest := l.byWorker[worker]; len(rest) == 0 {
		delete(l.lastPeriod, worker)
		delete(l.lastWeek, worker)
	} else {
		maxIdx := rest[0].Period
		for _, a := range rest[1:] {
			if a.Period > maxIdx {
				maxIdx = a.Period
			}
		}
		l.lastPeriod[worker] = maxIdx
		l.lastWeek[worker] = l.periods[maxIdx].Week
	}

	return site, true
}

// Assigned reports whether the worker holds an assignment in the period
func (l *Ledger) Assigned(worker string, periodIdx int) bool {
	for _, a := range l.byPeriod[periodIdx] {
		if a.Worker == worker {
			return true
		}
	}
	return false
}

// PeriodAssignments returns the period's assignment list in placement order
func (l *Ledger) PeriodAssignments(periodIdx int) []Assignment {
	return l.byPeriod[periodIdx]
}

// FillCount returns how many workers the site holds in the period
func (l *Ledger) FillCount(periodIdx int, site string) int {
	n := 0
	for _, a := range l.byPeriod[periodIdx] {
		if a.Site == site {
			n++
		}
	}
	return n
}

// Count returns the worker's assignment count for the period type
func (l *Ledger) Count(worker string, t calendar.PeriodType) int {
	if t == calendar.Weekday {
		return l.weekdayCount[worker]
	}
	return l.weekendCount[worker]
}

// SiteCount returns how many assignments the worker holds at the site
func (l *Ledger) SiteCount(worker, site string) int {
	return l.siteCounts[worker][site]
}

// LastPeriod returns the worker's most recent assigned period index
func (l *Ledger) LastPeriod(worker string) (int, bool) {
	idx, ok := l.lastPeriod[worker]
	return idx, ok
}

// LastWeek returns the worker's most recent assigned week number
func (l *Ledger) LastWeek(worker string) (int, bool) {
	wk, ok := l.lastWeek[worker]
	return wk, ok
}

// WeekSite returns the site of the worker's weekday-block for the week
func (l *Ledger) WeekSite(worker string, week int) (string, bool) {
	site, ok := l.weekSite[worker][week]
	return site, ok
}

// ActiveWeek reports whether the worker holds any assignment in the week
func (l *Ledger) ActiveWeek(worker string, week int) bool {
	return l.weekLoad[worker][week] > 0
}

// ConsecutiveBefore counts the consecutive active weeks immediately
// preceding the given week
func (l *Ledger) ConsecutiveBefore(worker string, week int) int {
	n := 0
	for check := week - 1; check >= 1 && l.ActiveWeek(worker, check); check-- {
		n++
	}
	return n
}

// RunLengthWith returns the length of the consecutive active-week run the
// worker would have after gaining an assignment in the given week
func (l *Ledger) RunLengthWith(worker string, week int) int {
	run := 1 + l.ConsecutiveBefore(worker, week)
	for check := week + 1; l.ActiveWeek(worker, check); check++ {
		run++
	}
	return run
}

// RunBounds walks outward from the week to the boundaries of the worker's
// consecutive active run containing it
func (l *Ledger) RunBounds(worker string, week int) (start, end int) {
	start, end = week, week
	for l.ActiveWeek(worker, start-1) {
		start--
	}
	for l.ActiveWeek(worker, end+1) {
		end++
	}
	return start, end
}

// All returns every assignment ordered by period then worker name
func (l *Ledger) All() []Assignment {
	var out []Assignment
	for _, perList := range l.byPeriod {
		out = append(out, perList...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].Worker < out[j].Worker
	})
	return out
}
