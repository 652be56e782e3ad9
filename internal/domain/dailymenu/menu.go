package dailymenu

import (
	"database/sql"
	"fmt"
	"time"
)

// CourseType distinguishes the two sections of a daily menu.
type CourseType string

const (
	CourseTypeFirst  CourseType = "first"
	CourseTypeSecond CourseType = "second"
)

func (ct CourseType) IsValid() bool {
	return ct == CourseTypeFirst || ct == CourseTypeSecond
}

// RepeatPattern controls how a scheduling request expands over a date range.
type RepeatPattern string

const (
	RepeatNone    RepeatPattern = "none"
	RepeatWeekly  RepeatPattern = "weekly"
	RepeatMonthly RepeatPattern = "monthly"
)

func (p RepeatPattern) IsValid() bool {
	return p == RepeatNone || p == RepeatWeekly || p == RepeatMonthly
}

// DailyMenu represents the menu published for a single calendar day.
type DailyMenu struct {
	ID             int64
	Date           time.Time // calendar day, midnight UTC
	Active         bool
	Price          sql.NullFloat64
	ScheduledFor   time.Time
	CarriedForward bool
	CarriedFromID  sql.NullInt64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	FirstCourses   []CourseItem
	SecondCourses  []CourseItem
}

// CourseItem is a single dish line within one section of a daily menu.
type CourseItem struct {
	ID           int64
	DailyMenuID  int64
	Name         string
	CourseType   CourseType
	DisplayOrder int
}

// Courses returns the section of the menu matching the given course type.
func (m *DailyMenu) Courses(ct CourseType) []CourseItem {
	if ct == CourseTypeSecond {
		return m.SecondCourses
	}
	return m.FirstCourses
}

// SetCourses replaces the section of the menu matching the given course type.
func (m *DailyMenu) SetCourses(ct CourseType, items []CourseItem) {
	if ct == CourseTypeSecond {
		m.SecondCourses = items
		return
	}
	m.FirstCourses = items
}

// Renumber assigns consecutive display orders 1..n following slice order.
func Renumber(items []CourseItem) []CourseItem {
	for i := range items {
		items[i].DisplayOrder = i + 1
	}
	return items
}

// MoveCourse relocates the item at index from to index to and renumbers the
// result so display orders stay consecutive starting at 1.
func MoveCourse(items []CourseItem, from, to int) ([]CourseItem, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("source index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("target index %d out of range [0,%d)", to, n)
	}

	reordered := make([]CourseItem, 0, n)
	reordered = append(reordered, items[:from]...)
	reordered = append(reordered, items[from+1:]...)

	moved := items[from]
	reordered = append(reordered[:to], append([]CourseItem{moved}, reordered[to:]...)...)

	return Renumber(reordered), nil
}
