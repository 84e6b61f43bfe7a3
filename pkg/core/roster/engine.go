package roster

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

// engine carries the shared state the phases operate over. It is built
// once per Run and owned by a single goroutine throughout; phases execute
// strictly in sequence, each to its own fixed point or iteration cap.
type engine struct {
	cfg     Config
	periods []calendar.Period

	workers      []Worker
	workerByName map[string]Worker

	sites      []Site
	siteByName map[string]Site
	// siteOrder is the fill order: smallest demand first, the designated
	// overflow site last
	siteOrder   []Site
	groupOfSite map[string]string

	eligible    map[string][]string
	eligibleSet map[string]map[string]bool

	unavailable map[string]map[string]bool

	fairShares   map[string]FairShare
	behindPace   []string
	fairShareCap bool

	ledger *Ledger
	rng    *rand.Rand

	overrides []StretchOverride
	overfills []Assignment

	// bVisited guards cross-site Strategy B against swap cycles between
	// equal-shortfall sites
	bVisited map[crossMove]bool

	rebalanceMoves int
	levelMoves     int
	crossFillMoves int
}

type crossMove struct {
	worker   string
	period   int
	fromSite string
	toSite   string
}

// Run executes the full phase sequence over the input snapshot and returns
// the result snapshot. Input malformation fails fast before any phase
// runs; structural and obligation infeasibility are reported in the
// result, never raised as errors. Identical inputs and seed produce the
// identical assignment set.
func Run(input Input, cfg Config) (*Result, error) {
	if err := validateInput(input, cfg); err != nil {
		return nil, err
	}

	periods, err := calendar.BuildPeriods(cfg.BlockStart, cfg.BlockEnd)
	if err != nil {
		return nil, err
	}

	e, err := newEngine(input, cfg, periods)
	if err != nil {
		return nil, err
	}

	// Pass 1: fair-share capped fill. Pass 2: identical procedure with the
	// cap lifted, letting behind-pace workers consume remaining demand.
	e.fairShareCap = true
	e.fillPass()
	e.fairShareCap = false
	e.fillPass()

	e.rebalance()
	if e.totalObligationGap() > 0 {
		e.forcedFill()
	}
	e.levelGaps()
	e.crossSiteFill()

	return e.compile(), nil
}

func newEngine(input Input, cfg Config, periods []calendar.Period) (*engine, error) {
	e := &engine{
		cfg:          cfg,
		periods:      periods,
		workerByName: make(map[string]Worker),
		siteByName:   make(map[string]Site),
		groupOfSite:  make(map[string]string),
		eligible:     make(map[string][]string),
		eligibleSet:  make(map[string]map[string]bool),
		unavailable:  make(map[string]map[string]bool),
		ledger:       NewLedger(periods),
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		bVisited:     make(map[crossMove]bool),
	}

	for _, s := range input.Sites {
		e.sites = append(e.sites, s)
		e.siteByName[s.Name] = s
	}
	sort.Slice(e.sites, func(i, j int) bool { return e.sites[i].Name < e.sites[j].Name })

	// Smallest sites first so tight lists fill fully; the overflow site is
	// processed last and absorbs residual capacity
	e.siteOrder = append([]Site(nil), e.sites...)
	sort.Slice(e.siteOrder, func(i, j int) bool {
		a, b := e.siteOrder[i], e.siteOrder[j]
		if (a.Name == cfg.OverflowSite) != (b.Name == cfg.OverflowSite) {
			return a.Name != cfg.OverflowSite
		}
		da, db := a.WeekdayDemand+a.WeekendDemand, b.WeekdayDemand+b.WeekendDemand
		if da != db {
			return da < db
		}
		return a.Name < b.Name
	})

	groupKeys := make([]string, 0, len(input.SiteGroups))
	for g := range input.SiteGroups {
		groupKeys = append(groupKeys, g)
	}
	sort.Strings(groupKeys)
	for _, g := range groupKeys {
		for _, site := range input.SiteGroups[g] {
			e.groupOfSite[site] = g
		}
	}

	// Workers with the do-not-schedule tag or nothing left to owe are out
	// of the block entirely; everyone else participates, including night
	// workers with residual day obligations
	for _, w := range input.Workers {
		if DoNotSchedule(w) {
			continue
		}
		if w.Target(calendar.Weekday) <= 0 && w.Target(calendar.Weekend) <= 0 {
			continue
		}
		e.workers = append(e.workers, w)
		e.workerByName[w.Name] = w
	}
	sort.Slice(e.workers, func(i, j int) bool { return e.workers[i].Name < e.workers[j].Name })

	for _, w := range e.workers {
		sites := EligibleSites(w, input.SiteGroups)
		e.eligible[w.Name] = sites
		set := make(map[string]bool, len(sites))
		for _, s := range sites {
			set[s] = true
		}
		e.eligibleSet[w.Name] = set
	}

	for name, dates := range input.Unavailable {
		set := make(map[string]bool, len(dates))
		for _, d := range dates {
			set[d.Format("2006-01-02")] = true
		}
		e.unavailable[name] = set
	}

	e.fairShares, e.behindPace = PlanFairShares(e.workers, cfg.BlocksPerYear)

	return e, nil
}

func validateInput(input Input, cfg Config) error {
	seenWorkers := make(map[string]bool)
	for i, w := range input.Workers {
		if w.Name == "" {
			return fmt.Errorf("worker %d has no name", i)
		}
		if seenWorkers[w.Name] {
			return fmt.Errorf("duplicate worker %q", w.Name)
		}
		seenWorkers[w.Name] = true
		if w.WeeksRemaining.IsNegative() || w.WeekendsRemaining.IsNegative() {
			return fmt.Errorf("worker %q has negative remaining quota", w.Name)
		}
		if w.AnnualWeeks.IsNegative() || w.AnnualWeekends.IsNegative() {
			return fmt.Errorf("worker %q has negative annual quota", w.Name)
		}
	}

	seenSites := make(map[string]bool)
	for i, s := range input.Sites {
		if s.Name == "" {
			return fmt.Errorf("site %d has no name", i)
		}
		if seenSites[s.Name] {
			return fmt.Errorf("duplicate site %q", s.Name)
		}
		seenSites[s.Name] = true
		if s.WeekdayDemand < 0 || s.WeekendDemand < 0 {
			return fmt.Errorf("site %q has negative demand", s.Name)
		}
	}

	grouped := make(map[string]string)
	for group, sites := range input.SiteGroups {
		for _, site := range sites {
			if !seenSites[site] {
				return fmt.Errorf("site group %q references unknown site %q", group, site)
			}
			if prev, ok := grouped[site]; ok && prev != group {
				return fmt.Errorf("site %q belongs to both group %q and group %q", site, prev, group)
			}
			grouped[site] = group
		}
	}

	for _, w := range input.Workers {
		for group := range w.GroupPercents {
			if _, ok := input.SiteGroups[group]; !ok {
				return fmt.Errorf("worker %q references unknown site group %q", w.Name, group)
			}
		}
	}

	if cfg.OverflowSite != "" && !seenSites[cfg.OverflowSite] {
		return fmt.Errorf("overflow site %q is not a known site", cfg.OverflowSite)
	}

	return nil
}

// available reports whether the worker is free on every date of the period.
// This is the absolute constraint: it is checked before every placement
// and no phase ever relaxes it.
func (e *engine) available(worker string, p calendar.Period) bool {
	blackout := e.unavailable[worker]
	if len(blackout) == 0 {
		return true
	}
	for _, d := range p.Dates {
		if blackout[d.Format("2006-01-02")] {
			return false
		}
	}
	return true
}

// sitePct returns the worker's allocation share for the group the site
// belongs to
func (e *engine) sitePct(w Worker, site string) float64 {
	return w.GroupPercents[e.groupOfSite[site]]
}

func (e *engine) demand(site string, t calendar.PeriodType) int {
	return e.siteByName[site].Demand(t)
}

// utilizationGap is how many assignments the worker is short of their
// contractual obligation, both period types combined
func (e *engine) utilizationGap(w Worker) int {
	gap := 0
	if d := w.Target(calendar.Weekday) - e.ledger.Count(w.Name, calendar.Weekday); d > 0 {
		gap += d
	}
	if d := w.Target(calendar.Weekend) - e.ledger.Count(w.Name, calendar.Weekend); d > 0 {
		gap += d
	}
	return gap
}

func (e *engine) totalObligationGap() int {
	total := 0
	for _, w := range e.workers {
		total += e.utilizationGap(w)
	}
	return total
}

// canPlace checks capacity, eligibility, availability and the consecutive
// cap for placing the worker in the period. maxRun is the active-week run
// ceiling to enforce (the normal or the relaxed one).
func (e *engine) canPlace(w Worker, periodIdx int, maxRun int) bool {
	p := e.periods[periodIdx]

	if e.ledger.Count(w.Name, p.Type) >= w.Target(p.Type) {
		return false
	}
	if len(e.eligible[w.Name]) == 0 {
		return false
	}
	if !e.available(w.Name, p) {
		return false
	}
	return e.ledger.RunLengthWith(w.Name, p.Week) <= maxRun
}

// bestSite picks the best eligible site for the worker in the period:
// largest shortfall first, then how far the worker trails their
// proportional target there. Sites at or over demand are only considered
// with allowOverfill, and even then carry a heavy penalty so under-demand
// sites always win. Returns the site and whether the placement would be an
// overfill.
func (e *engine) bestSite(w Worker, periodIdx int, allowOverfill bool) (string, bool) {
	p := e.periods[periodIdx]

	bestScore := -999.0
	best := ""
	bestOver := false

	for _, site := range e.eligible[w.Name] {
		shortfall := e.demand(site, p.Type) - e.ledger.FillCount(periodIdx, site)
		if shortfall <= 0 && !allowOverfill {
			continue
		}

		pct := e.sitePct(w, site)
		target := float64(w.Target(p.Type)) * pct
		behind := target - float64(e.ledger.SiteCount(w.Name, site))

		score := float64(shortfall)*10 + behind
		if shortfall <= 0 {
			score -= 1000
		}
		if score > bestScore {
			bestScore = score
			best = site
			bestOver = shortfall <= 0
		}
	}

	return best, bestOver
}

// periodShortfall is the period's total unmet demand across all sites of
// its type
func (e *engine) periodShortfall(periodIdx int) int {
	p := e.periods[periodIdx]
	total := 0
	for _, s := range e.sites {
		total += s.Demand(p.Type)
	}
	return total - len(e.ledger.PeriodAssignments(periodIdx))
}

// periodsByShortfall returns the indexes of periods of the given type,
// neediest first
func (e *engine) periodsByShortfall(t calendar.PeriodType) []int {
	var idxs []int
	for _, p := range e.periods {
		if p.Type == t {
			idxs = append(idxs, p.Index)
		}
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		return e.periodShortfall(idxs[i]) > e.periodShortfall(idxs[j])
	})
	return idxs
}
