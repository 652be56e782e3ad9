package dailymenu

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving daily
// menus together with their course items.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*DailyMenu, error)
	GetByDate(ctx context.Context, day time.Time) (*DailyMenu, error)
	ListAll(ctx context.Context) ([]*DailyMenu, error)              // newest first, courses ordered by display_order
	Latest(ctx context.Context) (*DailyMenu, error)                 // most recently dated menu, for templating
	ListScheduledDates(ctx context.Context) ([]time.Time, error)    // every day that already has a menu
	CreateBatch(ctx context.Context, menus []*DailyMenu) error      // single transaction, fills IDs
	Update(ctx context.Context, m *DailyMenu) error                 // date, active, price
	UpdateActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error // removes courses then the menu, one transaction

	AddCourse(ctx context.Context, item *CourseItem) error
	DeleteCourse(ctx context.Context, menuID, courseID int64) error
	// ReplaceCourseOrder rewrites the display orders of one section in a
	// single transaction; items must already be renumbered 1..n.
	ReplaceCourseOrder(ctx context.Context, menuID int64, ct CourseType, items []CourseItem) error
	CountCourses(ctx context.Context, menuID int64, ct CourseType) (int, error)
}
