package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"restaurant_backoffice/internal/domain/dailymenu"
	idb "restaurant_backoffice/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the daily menu service.
var ErrNothingToSchedule = fmt.Errorf("every day in the range already has a menu scheduled")
var ErrEmptyDateRange = fmt.Errorf("date range contains no days")
var ErrNoCourses = fmt.Errorf("a menu needs at least one course")
var ErrDateConflict = fmt.Errorf("a menu is already scheduled for this date")
var ErrCourseNotFound = fmt.Errorf("course not found on this menu")

// ScheduleRequest describes one scheduling run: a date range, a repeat
// pattern and the courses every created menu starts with.
type ScheduleRequest struct {
	From          time.Time
	To            time.Time
	Pattern       dailymenu.RepeatPattern
	Price         *float64
	FirstCourses  []string
	SecondCourses []string
}

// ScheduleResult reports what a scheduling run did: the menus it created
// and the days it skipped because a menu already existed there.
type ScheduleResult struct {
	Created []*dailymenu.DailyMenu
	Skipped []time.Time
}

type DailyMenuService struct {
	menuRepo dailymenu.Repository
	log      *logrus.Logger
}

func NewDailyMenuService(mr dailymenu.Repository, log *logrus.Logger) *DailyMenuService {
	return &DailyMenuService{menuRepo: mr, log: log}
}

// ScheduleMenus expands the request over its date range, drops days that
// already have a menu and creates the rest in a single transaction. Running
// the same request twice therefore creates nothing the second time.
func (s *DailyMenuService) ScheduleMenus(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	if !req.Pattern.IsValid() {
		return nil, fmt.Errorf("unknown repeat pattern %q", req.Pattern)
	}
	// A single-day schedule can leave the end date unset.
	if req.To.IsZero() {
		req.To = req.From
	}
	first := cleanCourseNames(req.FirstCourses)
	second := cleanCourseNames(req.SecondCourses)
	if len(first)+len(second) == 0 {
		return nil, ErrNoCourses
	}

	candidates := dailymenu.ExpandDateRange(req.From, req.To, req.Pattern)
	if len(candidates) == 0 {
		return nil, ErrEmptyDateRange
	}

	scheduled, err := s.menuRepo.ListScheduledDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled dates: %w", err)
	}

	free := dailymenu.FilterConflicts(candidates, scheduled)
	skipped := dailymenu.Conflicts(candidates, scheduled)
	if len(free) == 0 {
		return &ScheduleResult{Created: []*dailymenu.DailyMenu{}, Skipped: skipped}, ErrNothingToSchedule
	}

	menus := make([]*dailymenu.DailyMenu, 0, len(free))
	for _, day := range free {
		m := &dailymenu.DailyMenu{
			Date:          day,
			Active:        true,
			ScheduledFor:  day,
			FirstCourses:  buildCourses(first, dailymenu.CourseTypeFirst),
			SecondCourses: buildCourses(second, dailymenu.CourseTypeSecond),
		}
		if req.Price != nil {
			m.Price = sql.NullFloat64{Float64: *req.Price, Valid: true}
		}
		menus = append(menus, m)
	}

	if err := s.menuRepo.CreateBatch(ctx, menus); err != nil {
		return nil, fmt.Errorf("failed to create scheduled menus: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"created": len(menus),
		"skipped": len(skipped),
		"pattern": req.Pattern,
	}).Info("Scheduling run completed")

	return &ScheduleResult{Created: menus, Skipped: skipped}, nil
}

// MenuTemplate returns the most recent menu's courses as a template. When no
// menu exists yet there is nothing to suggest and the template comes back
// empty; a blank menu is then the only starting point.
func (s *DailyMenuService) MenuTemplate(ctx context.Context) (*dailymenu.Template, error) {
	latest, err := s.menuRepo.Latest(ctx)
	if err != nil {
		if err == idb.ErrDailyMenuNotFound {
			return dailymenu.EmptyTemplate(), nil
		}
		return nil, fmt.Errorf("failed to load latest menu for template: %w", err)
	}
	return dailymenu.TemplateFromMenu(latest), nil
}

// CreateBlankMenu creates an empty menu for the given day.
func (s *DailyMenuService) CreateBlankMenu(ctx context.Context, day time.Time) (*dailymenu.DailyMenu, error) {
	if err := s.ensureDateFree(ctx, day); err != nil {
		return nil, err
	}
	m := dailymenu.BlankMenu(day)
	if err := s.menuRepo.CreateBatch(ctx, []*dailymenu.DailyMenu{m}); err != nil {
		return nil, fmt.Errorf("failed to create blank menu: %w", err)
	}
	return m, nil
}

// DuplicateMenu copies an existing menu's courses onto a new free day.
func (s *DailyMenuService) DuplicateMenu(ctx context.Context, sourceID int64, targetDay time.Time) (*dailymenu.DailyMenu, error) {
	source, err := s.menuRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDateFree(ctx, targetDay); err != nil {
		return nil, err
	}

	m := dailymenu.TemplateFromMenu(source).Apply(targetDay)
	m.Price = source.Price
	if err := s.menuRepo.CreateBatch(ctx, []*dailymenu.DailyMenu{m}); err != nil {
		return nil, fmt.Errorf("failed to duplicate menu %d: %w", sourceID, err)
	}
	return m, nil
}

func (s *DailyMenuService) ListMenus(ctx context.Context) ([]*dailymenu.DailyMenu, error) {
	return s.menuRepo.ListAll(ctx)
}

func (s *DailyMenuService) GetMenu(ctx context.Context, id int64) (*dailymenu.DailyMenu, error) {
	return s.menuRepo.GetByID(ctx, id)
}

// ToggleActive flips whether a menu is shown on the public site.
func (s *DailyMenuService) ToggleActive(ctx context.Context, id int64, active bool) error {
	if err := s.menuRepo.UpdateActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to set menu %d active=%t: %w", id, active, err)
	}
	return nil
}

// UpdateMenuDetails changes a menu's date and/or price. A date change is
// checked against the other scheduled days first.
func (s *DailyMenuService) UpdateMenuDetails(ctx context.Context, id int64, newDate *time.Time, price *float64) (*dailymenu.DailyMenu, error) {
	m, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if newDate != nil {
		day := dailymenu.NormalizeDay(*newDate)
		if !day.Equal(m.Date) {
			if err := s.ensureDateFree(ctx, day); err != nil {
				return nil, err
			}
			m.Date = day
			m.ScheduledFor = day
		}
	}
	if price != nil {
		m.Price = sql.NullFloat64{Float64: *price, Valid: *price > 0}
	}

	if err := s.menuRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update menu %d: %w", id, err)
	}
	return m, nil
}

// DeleteMenu removes a menu and all its courses in one transaction.
func (s *DailyMenuService) DeleteMenu(ctx context.Context, id int64) error {
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("menu_id", id).Info("Daily menu deleted")
	return nil
}

// AddCourse appends a course to the end of one section of a menu.
func (s *DailyMenuService) AddCourse(ctx context.Context, menuID int64, ct dailymenu.CourseType, name string) (*dailymenu.CourseItem, error) {
	if !ct.IsValid() {
		return nil, fmt.Errorf("unknown course type %q", ct)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("course name must not be blank")
	}
	if _, err := s.menuRepo.GetByID(ctx, menuID); err != nil {
		return nil, err
	}

	count, err := s.menuRepo.CountCourses(ctx, menuID, ct)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses for menu %d: %w", menuID, err)
	}

	item := &dailymenu.CourseItem{
		DailyMenuID:  menuID,
		Name:         name,
		CourseType:   ct,
		DisplayOrder: count + 1,
	}
	if err := s.menuRepo.AddCourse(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add course to menu %d: %w", menuID, err)
	}
	return item, nil
}

// DeleteCourse removes a course and renumbers the remaining section so
// display orders stay consecutive from 1.
func (s *DailyMenuService) DeleteCourse(ctx context.Context, menuID, courseID int64, ct dailymenu.CourseType) error {
	m, err := s.menuRepo.GetByID(ctx, menuID)
	if err != nil {
		return err
	}

	section := m.Courses(ct)
	remaining := make([]dailymenu.CourseItem, 0, len(section))
	found := false
	for _, c := range section {
		if c.ID == courseID {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return ErrCourseNotFound
	}

	if err := s.menuRepo.DeleteCourse(ctx, menuID, courseID); err != nil {
		return fmt.Errorf("failed to delete course %d: %w", courseID, err)
	}
	if err := s.menuRepo.ReplaceCourseOrder(ctx, menuID, ct, dailymenu.Renumber(remaining)); err != nil {
		return fmt.Errorf("failed to renumber courses after delete: %w", err)
	}
	return nil
}

// ReorderCourse moves a course from one position to another inside its
// section and persists the renumbered section.
func (s *DailyMenuService) ReorderCourse(ctx context.Context, menuID int64, ct dailymenu.CourseType, fromIndex, toIndex int) ([]dailymenu.CourseItem, error) {
	m, err := s.menuRepo.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}

	reordered, err := dailymenu.MoveCourse(m.Courses(ct), fromIndex, toIndex)
	if err != nil {
		return nil, err
	}
	if err := s.menuRepo.ReplaceCourseOrder(ctx, menuID, ct, reordered); err != nil {
		return nil, fmt.Errorf("failed to persist course order: %w", err)
	}
	return reordered, nil
}

func (s *DailyMenuService) ensureDateFree(ctx context.Context, day time.Time) error {
	existing, err := s.menuRepo.GetByDate(ctx, dailymenu.NormalizeDay(day))
	if err == nil && existing != nil {
		return ErrDateConflict
	}
	if err != nil && err != idb.ErrDailyMenuNotFound {
		return fmt.Errorf("failed to check date availability: %w", err)
	}
	return nil
}

func cleanCourseNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func buildCourses(names []string, ct dailymenu.CourseType) []dailymenu.CourseItem {
	items := make([]dailymenu.CourseItem, len(names))
	for i, n := range names {
		items[i] = dailymenu.CourseItem{Name: n, CourseType: ct, DisplayOrder: i + 1}
	}
	return items
}
