package dailymenu

import "time"

// Template is a reusable snapshot of a menu's courses. Applying it to a new
// day copies names and ordering but never carries persistence identifiers
// along, so edits to the new menu can not leak back into the source.
type Template struct {
	SourceMenuID  int64
	FirstCourses  []CourseItem
	SecondCourses []CourseItem
}

// TemplateFromMenu captures the courses of an existing menu as a template.
func TemplateFromMenu(m *DailyMenu) *Template {
	return &Template{
		SourceMenuID:  m.ID,
		FirstCourses:  copyCourses(m.FirstCourses),
		SecondCourses: copyCourses(m.SecondCourses),
	}
}

// EmptyTemplate is what the selector yields when no previous menu exists to
// copy from: no suggested courses, so callers can only offer a blank menu.
func EmptyTemplate() *Template {
	return &Template{
		FirstCourses:  []CourseItem{},
		SecondCourses: []CourseItem{},
	}
}

// Apply builds an unsaved menu for the given day from the template's courses.
func (t *Template) Apply(day time.Time) *DailyMenu {
	return &DailyMenu{
		Date:          NormalizeDay(day),
		Active:        true,
		ScheduledFor:  NormalizeDay(day),
		FirstCourses:  copyCourses(t.FirstCourses),
		SecondCourses: copyCourses(t.SecondCourses),
	}
}

// BlankMenu builds an unsaved menu for the given day with empty sections.
func BlankMenu(day time.Time) *DailyMenu {
	return &DailyMenu{
		Date:          NormalizeDay(day),
		Active:        true,
		ScheduledFor:  NormalizeDay(day),
		FirstCourses:  []CourseItem{},
		SecondCourses: []CourseItem{},
	}
}

func copyCourses(items []CourseItem) []CourseItem {
	out := make([]CourseItem, len(items))
	for i, it := range items {
		out[i] = CourseItem{
			Name:         it.Name,
			CourseType:   it.CourseType,
			DisplayOrder: it.DisplayOrder,
		}
	}
	return Renumber(out)
}
