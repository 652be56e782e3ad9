package dailymenu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterConflicts_RemovesScheduledDays(t *testing.T) {
	candidates := []time.Time{
		day(2024, time.June, 3),
		day(2024, time.June, 10),
		day(2024, time.June, 17),
	}
	scheduled := []time.Time{day(2024, time.June, 10)}

	free := FilterConflicts(candidates, scheduled)

	require.Len(t, free, 2)
	assert.Equal(t, day(2024, time.June, 3), free[0])
	assert.Equal(t, day(2024, time.June, 17), free[1])
}

func TestFilterConflicts_AllFreeWhenNothingScheduled(t *testing.T) {
	candidates := ExpandDateRange(day(2024, time.June, 3), day(2024, time.June, 7), RepeatNone)

	free := FilterConflicts(candidates, nil)

	assert.Equal(t, candidates, free)
}

func TestFilterConflicts_EmptyWhenEverythingTaken(t *testing.T) {
	candidates := ExpandDateRange(day(2024, time.June, 3), day(2024, time.June, 7), RepeatNone)

	free := FilterConflicts(candidates, candidates)

	assert.Empty(t, free)
}

func TestFilterConflicts_IgnoresTimeOfDayOnScheduledDates(t *testing.T) {
	scheduled := []time.Time{time.Date(2024, time.June, 4, 13, 45, 0, 0, time.UTC)}

	free := FilterConflicts([]time.Time{day(2024, time.June, 4)}, scheduled)

	assert.Empty(t, free)
}

func TestFilterConflicts_DeduplicatesCandidates(t *testing.T) {
	free := FilterConflicts([]time.Time{
		day(2024, time.June, 3),
		day(2024, time.June, 3),
	}, nil)

	assert.Len(t, free, 1)
}

func TestConflicts_ReportsClashingDays(t *testing.T) {
	candidates := []time.Time{
		day(2024, time.June, 3),
		day(2024, time.June, 10),
		day(2024, time.June, 17),
	}
	scheduled := []time.Time{day(2024, time.June, 10), day(2024, time.June, 24)}

	clashes := Conflicts(candidates, scheduled)

	require.Len(t, clashes, 1)
	assert.Equal(t, day(2024, time.June, 10), clashes[0])
}
