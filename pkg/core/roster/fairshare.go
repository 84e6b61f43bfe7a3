package roster

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
)

// FairShare is a worker's capped target for this block, per period type:
// min(ceil(annual / blocksPerYear), ceil(remaining)). It gates Pass 1 only.
type FairShare struct {
	Weekday int
	Weekend int
}

// Cap returns the fair-share cap for the period type
func (f FairShare) Cap(t calendar.PeriodType) int {
	if t == calendar.Weekday {
		return f.Weekday
	}
	return f.Weekend
}

// PlanFairShares computes each worker's fair share and the sorted list of
// behind-pace workers — those whose actual remaining quota exceeds their
// fair share for either period type. Behind-pace workers get their fair
// share in Pass 1 but no more; Pass 2 lifts the cap so they consume
// remaining demand without crowding out on-pace workers first.
func PlanFairShares(workers []Worker, blocksPerYear int) (map[string]FairShare, []string) {
	shares := make(map[string]FairShare, len(workers))
	var behindPace []string

	blocks := decimal.NewFromInt(int64(blocksPerYear))

	for _, w := range workers {
		fsWeekday := blockShare(w.AnnualWeeks, blocks)
		fsWeekend := blockShare(w.AnnualWeekends, blocks)

		remWeekday := w.Target(calendar.Weekday)
		remWeekend := w.Target(calendar.Weekend)

		// Never ask for more than the worker actually owes
		if fsWeekday > remWeekday {
			fsWeekday = remWeekday
		}
		if fsWeekend > remWeekend {
			fsWeekend = remWeekend
		}

		shares[w.Name] = FairShare{Weekday: fsWeekday, Weekend: fsWeekend}

		if remWeekday > fsWeekday || remWeekend > fsWeekend {
			behindPace = append(behindPace, w.Name)
		}
	}

	sort.Strings(behindPace)
	return shares, behindPace
}

func blockShare(annual, blocks decimal.Decimal) int {
	if annual.Sign() <= 0 {
		return 0
	}
	return int(annual.Div(blocks).Ceil().IntPart())
}
