package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildPeriodsFullWeeks(t *testing.T) {
	// Two complete calendar weeks: Mon Sep 1 through Sun Sep 14 2025
	periods, err := BuildPeriods(date(2025, 9, 1), date(2025, 9, 14))
	require.NoError(t, err)
	require.Len(t, periods, 4)

	assert.Equal(t, Weekday, periods[0].Type)
	assert.Equal(t, 1, periods[0].Week)
	assert.Len(t, periods[0].Dates, 5)
	assert.Equal(t, date(2025, 9, 1), periods[0].Dates[0])
	assert.Equal(t, date(2025, 9, 5), periods[0].Dates[4])

	assert.Equal(t, Weekend, periods[1].Type)
	assert.Equal(t, 1, periods[1].Week)
	assert.Len(t, periods[1].Dates, 2)
	assert.Equal(t, date(2025, 9, 6), periods[1].Dates[0])

	assert.Equal(t, Weekday, periods[2].Type)
	assert.Equal(t, 2, periods[2].Week)
	assert.Equal(t, Weekend, periods[3].Type)
	assert.Equal(t, 2, periods[3].Week)

	for i, p := range periods {
		assert.Equal(t, i, p.Index)
	}
}

func TestBuildPeriodsTruncatedLastWeek(t *testing.T) {
	// Block ends mid-week on a Wednesday: the final weekday-block covers
	// Mon-Wed only and no weekend-block is emitted for that week
	periods, err := BuildPeriods(date(2025, 9, 1), date(2025, 9, 10))
	require.NoError(t, err)
	require.Len(t, periods, 3)

	last := periods[2]
	assert.Equal(t, Weekday, last.Type)
	assert.Equal(t, 2, last.Week)
	assert.Len(t, last.Dates, 3)
	assert.Equal(t, date(2025, 9, 10), last.Dates[2])
}

func TestBuildPeriodsRejectsNonMondayStart(t *testing.T) {
	_, err := BuildPeriods(date(2025, 9, 2), date(2025, 9, 14))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a Monday")
}

func TestBuildPeriodsRejectsReversedRange(t *testing.T) {
	_, err := BuildPeriods(date(2025, 9, 8), date(2025, 9, 1))
	require.Error(t, err)
}

func TestPeriodContains(t *testing.T) {
	periods, err := BuildPeriods(date(2025, 9, 1), date(2025, 9, 7))
	require.NoError(t, err)

	assert.True(t, periods[0].Contains(date(2025, 9, 3)))
	assert.False(t, periods[0].Contains(date(2025, 9, 6)))
	assert.True(t, periods[1].Contains(date(2025, 9, 6)))
}

func TestCountByType(t *testing.T) {
	periods, err := BuildPeriods(date(2025, 9, 1), date(2025, 9, 28))
	require.NoError(t, err)

	assert.Equal(t, 4, CountByType(periods, Weekday))
	assert.Equal(t, 4, CountByType(periods, Weekend))
}
