package dailymenu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDay_SameCalendarDayAcrossZones(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	a := time.Date(2024, time.June, 3, 9, 30, 0, 0, madrid)
	b := time.Date(2024, time.June, 3, 7, 30, 0, 0, time.UTC)

	assert.Equal(t, NormalizeDay(a), NormalizeDay(b))
	assert.Equal(t, "2024-06-03", DayKey(a))
}

func TestExpandDateRange_NoneCoversEveryDay(t *testing.T) {
	days := ExpandDateRange(day(2024, time.June, 3), day(2024, time.June, 7), RepeatNone)

	require.Len(t, days, 5)
	for i, d := range days {
		assert.Equal(t, day(2024, time.June, 3+i), d)
	}
}

func TestExpandDateRange_SingleDay(t *testing.T) {
	days := ExpandDateRange(day(2024, time.June, 3), day(2024, time.June, 3), RepeatNone)

	require.Len(t, days, 1)
	assert.Equal(t, day(2024, time.June, 3), days[0])
}

func TestExpandDateRange_EmptyWhenEndPrecedesStart(t *testing.T) {
	days := ExpandDateRange(day(2024, time.June, 7), day(2024, time.June, 3), RepeatNone)
	assert.Empty(t, days)

	days = ExpandDateRange(day(2024, time.June, 7), day(2024, time.June, 3), RepeatWeekly)
	assert.Empty(t, days)
}

func TestExpandDateRange_WeeklyStepsSevenDays(t *testing.T) {
	days := ExpandDateRange(day(2024, time.June, 3), day(2024, time.June, 17), RepeatWeekly)

	require.Len(t, days, 3)
	assert.Equal(t, day(2024, time.June, 3), days[0])
	assert.Equal(t, day(2024, time.June, 10), days[1])
	assert.Equal(t, day(2024, time.June, 17), days[2])
}

func TestExpandDateRange_WeeklyExcludesDayPastEnd(t *testing.T) {
	// 2024-06-16 is one day short of the third occurrence.
	days := ExpandDateRange(day(2024, time.June, 3), day(2024, time.June, 16), RepeatWeekly)

	require.Len(t, days, 2)
	assert.Equal(t, day(2024, time.June, 10), days[1])
}

func TestExpandDateRange_MonthlyAnchorsOnDayOfMonth(t *testing.T) {
	days := ExpandDateRange(day(2024, time.June, 15), day(2024, time.September, 15), RepeatMonthly)

	require.Len(t, days, 4)
	assert.Equal(t, day(2024, time.June, 15), days[0])
	assert.Equal(t, day(2024, time.July, 15), days[1])
	assert.Equal(t, day(2024, time.August, 15), days[2])
	assert.Equal(t, day(2024, time.September, 15), days[3])
}

func TestExpandDateRange_MonthlySkipsShortMonths(t *testing.T) {
	// A series anchored on the 31st never lands in February or April.
	days := ExpandDateRange(day(2024, time.January, 31), day(2024, time.May, 31), RepeatMonthly)

	require.Len(t, days, 3)
	assert.Equal(t, day(2024, time.January, 31), days[0])
	assert.Equal(t, day(2024, time.March, 31), days[1])
	assert.Equal(t, day(2024, time.May, 31), days[2])
}

func TestExpandDateRange_MonthlyAcrossYearBoundary(t *testing.T) {
	days := ExpandDateRange(day(2024, time.November, 5), day(2025, time.January, 5), RepeatMonthly)

	require.Len(t, days, 3)
	assert.Equal(t, day(2024, time.December, 5), days[1])
	assert.Equal(t, day(2025, time.January, 5), days[2])
}

func TestExpandDateRange_ResultsAreSortedAndUnique(t *testing.T) {
	for _, p := range []RepeatPattern{RepeatNone, RepeatWeekly, RepeatMonthly} {
		days := ExpandDateRange(day(2024, time.March, 29), day(2024, time.August, 1), p)

		seen := make(map[string]struct{})
		for i, d := range days {
			key := DayKey(d)
			_, dup := seen[key]
			assert.False(t, dup, "pattern %s produced duplicate %s", p, key)
			seen[key] = struct{}{}
			if i > 0 {
				assert.True(t, days[i-1].Before(d), "pattern %s out of order at %d", p, i)
			}
		}
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.June, 3), d)

	_, err = ParseDay("03/06/2024")
	assert.Error(t, err)
}
