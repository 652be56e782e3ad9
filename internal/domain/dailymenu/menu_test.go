package dailymenu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courses(names ...string) []CourseItem {
	out := make([]CourseItem, len(names))
	for i, n := range names {
		out[i] = CourseItem{Name: n, CourseType: CourseTypeFirst, DisplayOrder: i + 1}
	}
	return out
}

func names(items []CourseItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestMoveCourse_FirstToLast(t *testing.T) {
	items, err := MoveCourse(courses("A", "B", "C"), 0, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "A"}, names(items))
	for i, it := range items {
		assert.Equal(t, i+1, it.DisplayOrder)
	}
}

func TestMoveCourse_LastToFirst(t *testing.T) {
	items, err := MoveCourse(courses("A", "B", "C"), 2, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, names(items))
}

func TestMoveCourse_SamePositionKeepsOrder(t *testing.T) {
	items, err := MoveCourse(courses("A", "B", "C"), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, names(items))
}

func TestMoveCourse_RejectsOutOfRangeIndexes(t *testing.T) {
	_, err := MoveCourse(courses("A", "B"), 2, 0)
	assert.Error(t, err)

	_, err = MoveCourse(courses("A", "B"), 0, -1)
	assert.Error(t, err)
}

func TestRenumber_ClosesGaps(t *testing.T) {
	items := courses("A", "B", "C", "D")
	// Simulate a deletion leaving a gap.
	items = append(items[:1], items[2:]...)

	items = Renumber(items)

	assert.Equal(t, []string{"A", "C", "D"}, names(items))
	for i, it := range items {
		assert.Equal(t, i+1, it.DisplayOrder)
	}
}

func TestCoursesAndSetCourses_SelectSectionByType(t *testing.T) {
	m := &DailyMenu{}
	m.SetCourses(CourseTypeFirst, courses("Gazpacho"))
	m.SetCourses(CourseTypeSecond, []CourseItem{{Name: "Entrecot", CourseType: CourseTypeSecond, DisplayOrder: 1}})

	assert.Equal(t, "Gazpacho", m.Courses(CourseTypeFirst)[0].Name)
	assert.Equal(t, "Entrecot", m.Courses(CourseTypeSecond)[0].Name)
}

func TestCourseTypeAndRepeatPatternValidation(t *testing.T) {
	assert.True(t, CourseTypeFirst.IsValid())
	assert.True(t, CourseTypeSecond.IsValid())
	assert.False(t, CourseType("dessert").IsValid())

	assert.True(t, RepeatNone.IsValid())
	assert.True(t, RepeatWeekly.IsValid())
	assert.True(t, RepeatMonthly.IsValid())
	assert.False(t, RepeatPattern("daily").IsValid())
}
