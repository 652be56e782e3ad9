package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant_backoffice/internal/domain/dailymenu"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrDailyMenuNotFound = fmt.Errorf("daily menu not found")
var ErrDuplicateMenuDate = fmt.Errorf("a menu already exists for this date")

type PostgresDailyMenuRepository struct {
	db *sql.DB
}

func NewPostgresDailyMenuRepository(db *sql.DB) *PostgresDailyMenuRepository {
	return &PostgresDailyMenuRepository{db: db}
}

const menuColumns = `id, date, active, price, scheduled_for, carried_forward, carried_from_id, created_at, updated_at`

func scanMenu(row interface{ Scan(...interface{}) error }) (*dailymenu.DailyMenu, error) {
	m := &dailymenu.DailyMenu{}
	err := row.Scan(&m.ID, &m.Date, &m.Active, &m.Price, &m.ScheduledFor,
		&m.CarriedForward, &m.CarriedFromID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Date = dailymenu.NormalizeDay(m.Date)
	m.ScheduledFor = dailymenu.NormalizeDay(m.ScheduledFor)
	return m, nil
}

func (r *PostgresDailyMenuRepository) GetByID(ctx context.Context, id int64) (*dailymenu.DailyMenu, error) {
	query := `SELECT ` + menuColumns + ` FROM daily_menus WHERE id = $1`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDailyMenuNotFound
		}
		return nil, fmt.Errorf("error getting daily menu by ID: %w", err)
	}
	if err := r.loadCourses(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresDailyMenuRepository) GetByDate(ctx context.Context, day time.Time) (*dailymenu.DailyMenu, error) {
	query := `SELECT ` + menuColumns + ` FROM daily_menus WHERE date = $1`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, dailymenu.NormalizeDay(day)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDailyMenuNotFound
		}
		return nil, fmt.Errorf("error getting daily menu by date: %w", err)
	}
	if err := r.loadCourses(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresDailyMenuRepository) Latest(ctx context.Context) (*dailymenu.DailyMenu, error) {
	query := `SELECT ` + menuColumns + ` FROM daily_menus ORDER BY date DESC LIMIT 1`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDailyMenuNotFound
		}
		return nil, fmt.Errorf("error getting latest daily menu: %w", err)
	}
	if err := r.loadCourses(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresDailyMenuRepository) ListAll(ctx context.Context) ([]*dailymenu.DailyMenu, error) {
	query := `SELECT ` + menuColumns + ` FROM daily_menus ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing daily menus: %w", err)
	}
	defer rows.Close()

	menus := make([]*dailymenu.DailyMenu, 0)
	byID := make(map[int64]*dailymenu.DailyMenu)
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning daily menu: %w", err)
		}
		m.FirstCourses = []dailymenu.CourseItem{}
		m.SecondCourses = []dailymenu.CourseItem{}
		menus = append(menus, m)
		byID[m.ID] = m
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily menus: %w", err)
	}
	if len(menus) == 0 {
		return menus, nil
	}

	// One pass over all courses instead of a query per menu.
	courseRows, err := r.db.QueryContext(ctx,
		`SELECT id, daily_menu_id, course_name, course_type, display_order
		   FROM daily_menu_items ORDER BY daily_menu_id, course_type, display_order`)
	if err != nil {
		return nil, fmt.Errorf("error listing menu courses: %w", err)
	}
	defer courseRows.Close()

	for courseRows.Next() {
		var c dailymenu.CourseItem
		if err := courseRows.Scan(&c.ID, &c.DailyMenuID, &c.Name, &c.CourseType, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("error scanning menu course: %w", err)
		}
		m, ok := byID[c.DailyMenuID]
		if !ok {
			continue
		}
		m.SetCourses(c.CourseType, append(m.Courses(c.CourseType), c))
	}
	if err = courseRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu courses: %w", err)
	}
	return menus, nil
}

func (r *PostgresDailyMenuRepository) ListScheduledDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM daily_menus ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("error listing scheduled dates: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning scheduled date: %w", err)
		}
		dates = append(dates, dailymenu.NormalizeDay(d))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled dates: %w", err)
	}
	return dates, nil
}

// CreateBatch inserts the menus and all their courses in one transaction,
// so a scheduling run either lands completely or not at all.
func (r *PostgresDailyMenuRepository) CreateBatch(ctx context.Context, menus []*dailymenu.DailyMenu) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	menuInsert := `INSERT INTO daily_menus (date, active, price, scheduled_for, carried_forward, carried_from_id)
	               VALUES ($1, $2, $3, $4, $5, $6)
	               RETURNING id, created_at, updated_at`
	courseInsert := `INSERT INTO daily_menu_items (daily_menu_id, course_name, course_type, display_order)
	                 VALUES ($1, $2, $3, $4)
	                 RETURNING id`

	for _, m := range menus {
		err := tx.QueryRowContext(ctx, menuInsert,
			dailymenu.NormalizeDay(m.Date), m.Active, m.Price,
			dailymenu.NormalizeDay(m.ScheduledFor), m.CarriedForward, m.CarriedFromID,
		).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "daily_menus_date_key") {
				return ErrDuplicateMenuDate
			}
			return fmt.Errorf("error inserting daily menu for %s: %w", m.Date.Format(dailymenu.DayFormat), err)
		}

		for ct, section := range map[dailymenu.CourseType][]dailymenu.CourseItem{
			dailymenu.CourseTypeFirst:  m.FirstCourses,
			dailymenu.CourseTypeSecond: m.SecondCourses,
		} {
			for i := range section {
				section[i].DailyMenuID = m.ID
				section[i].CourseType = ct
				err := tx.QueryRowContext(ctx, courseInsert,
					m.ID, section[i].Name, section[i].CourseType, section[i].DisplayOrder,
				).Scan(&section[i].ID)
				if err != nil {
					return fmt.Errorf("error inserting course %q: %w", section[i].Name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing menu batch: %w", err)
	}
	return nil
}

func (r *PostgresDailyMenuRepository) Update(ctx context.Context, m *dailymenu.DailyMenu) error {
	query := `UPDATE daily_menus
	          SET date = $1, active = $2, price = $3, scheduled_for = $4, updated_at = NOW()
	          WHERE id = $5
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		dailymenu.NormalizeDay(m.Date), m.Active, m.Price, dailymenu.NormalizeDay(m.ScheduledFor), m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrDailyMenuNotFound
		}
		if isUniqueViolation(err, "daily_menus_date_key") {
			return ErrDuplicateMenuDate
		}
		return fmt.Errorf("error updating daily menu: %w", err)
	}
	return nil
}

func (r *PostgresDailyMenuRepository) UpdateActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_menus SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating menu active flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDailyMenuNotFound
	}
	return nil
}

// Delete removes a menu's courses and then the menu itself in one
// transaction.
func (r *PostgresDailyMenuRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_menu_items WHERE daily_menu_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting menu courses: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM daily_menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting daily menu: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDailyMenuNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing menu delete: %w", err)
	}
	return nil
}

func (r *PostgresDailyMenuRepository) AddCourse(ctx context.Context, item *dailymenu.CourseItem) error {
	query := `INSERT INTO daily_menu_items (daily_menu_id, course_name, course_type, display_order)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		item.DailyMenuID, item.Name, item.CourseType, item.DisplayOrder).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("error inserting course: %w", err)
	}
	return nil
}

func (r *PostgresDailyMenuRepository) DeleteCourse(ctx context.Context, menuID, courseID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM daily_menu_items WHERE id = $1 AND daily_menu_id = $2`, courseID, menuID)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDailyMenuNotFound
	}
	return nil
}

// ReplaceCourseOrder rewrites the display orders of one section inside a
// transaction so a reorder is never half applied.
func (r *PostgresDailyMenuRepository) ReplaceCourseOrder(ctx context.Context, menuID int64, ct dailymenu.CourseType, items []dailymenu.CourseItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`UPDATE daily_menu_items SET display_order = $1
			  WHERE id = $2 AND daily_menu_id = $3 AND course_type = $4`,
			it.DisplayOrder, it.ID, menuID, ct)
		if err != nil {
			return fmt.Errorf("error updating display order of course %d: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing course order: %w", err)
	}
	return nil
}

func (r *PostgresDailyMenuRepository) CountCourses(ctx context.Context, menuID int64, ct dailymenu.CourseType) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_menu_items WHERE daily_menu_id = $1 AND course_type = $2`,
		menuID, ct).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

func (r *PostgresDailyMenuRepository) loadCourses(ctx context.Context, m *dailymenu.DailyMenu) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, daily_menu_id, course_name, course_type, display_order
		   FROM daily_menu_items WHERE daily_menu_id = $1
		  ORDER BY course_type, display_order`, m.ID)
	if err != nil {
		return fmt.Errorf("error loading menu courses: %w", err)
	}
	defer rows.Close()

	m.FirstCourses = []dailymenu.CourseItem{}
	m.SecondCourses = []dailymenu.CourseItem{}
	for rows.Next() {
		var c dailymenu.CourseItem
		if err := rows.Scan(&c.ID, &c.DailyMenuID, &c.Name, &c.CourseType, &c.DisplayOrder); err != nil {
			return fmt.Errorf("error scanning menu course: %w", err)
		}
		m.SetCourses(c.CourseType, append(m.Courses(c.CourseType), c))
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating menu courses: %w", err)
	}
	return nil
}
