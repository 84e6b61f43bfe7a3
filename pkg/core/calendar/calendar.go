// Package calendar derives the ordered sequence of schedulable periods for
// a block: one weekday-block (Mon-Fri) and, when any weekend date remains in
// range, one weekend-block (Sat-Sun) per calendar week. Both carry the same
// week number so week+weekend stretches can be paired downstream.
package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// PeriodType distinguishes weekday-blocks from weekend-blocks
type PeriodType string

const (
	Weekday PeriodType = "weekday"
	Weekend PeriodType = "weekend"
)

// Period is one schedulable unit within the block. Immutable once built.
type Period struct {
	// Index is the ordinal position in the block's period sequence
	Index int
	Type  PeriodType
	// Week groups a weekday-block with its paired weekend-block, 1-based
	Week int
	// Dates are the concrete calendar dates the period covers, ascending
	Dates []time.Time
}

// Contains reports whether the period covers the given date
func (p Period) Contains(date time.Time) bool {
	for _, d := range p.Dates {
		if d.Equal(date) {
			return true
		}
	}
	return false
}

// Label renders a human-readable description of the period
func (p Period) Label() string {
	prefix := "Week"
	if p.Type == Weekend {
		prefix = "  WE"
	}
	return fmt.Sprintf("%s %d: %s to %s", prefix, p.Week,
		p.Dates[0].Format("2006-01-02"), p.Dates[len(p.Dates)-1].Format("2006-01-02"))
}

// BuildPeriods derives the ordered period sequence spanning start through
// end (inclusive). start must be a Monday. Purely a function of the date
// range — no randomness, no side effects.
func BuildPeriods(start, end time.Time) ([]Period, error) {
	start = truncate(start)
	end = truncate(end)

	if start.Weekday() != time.Monday {
		return nil, fmt.Errorf("block start %s is a %s, must be a Monday",
			start.Format("2006-01-02"), start.Weekday())
	}
	if end.Before(start) {
		return nil, fmt.Errorf("block end %s is before block start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: start,
		Until:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build weekly recurrence: %w", err)
	}

	var periods []Period
	for weekIdx, monday := range rule.All() {
		week := weekIdx + 1

		var weekdayDates []time.Time
		for i := 0; i < 5; i++ {
			d := monday.AddDate(0, 0, i)
			if !d.After(end) {
				weekdayDates = append(weekdayDates, d)
			}
		}
		if len(weekdayDates) > 0 {
			periods = append(periods, Period{
				Index: len(periods),
				Type:  Weekday,
				Week:  week,
				Dates: weekdayDates,
			})
		}

		var weekendDates []time.Time
		for i := 5; i < 7; i++ {
			d := monday.AddDate(0, 0, i)
			if !d.After(end) {
				weekendDates = append(weekendDates, d)
			}
		}
		if len(weekendDates) > 0 {
			periods = append(periods, Period{
				Index: len(periods),
				Type:  Weekend,
				Week:  week,
				Dates: weekendDates,
			})
		}
	}

	return periods, nil
}

// CountByType returns the number of periods of the given type
func CountByType(periods []Period, t PeriodType) int {
	n := 0
	for _, p := range periods {
		if p.Type == t {
			n++
		}
	}
	return n
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
