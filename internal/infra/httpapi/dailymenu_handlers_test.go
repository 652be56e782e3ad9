package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/dailymenu"
	idb "restaurant_backoffice/internal/infra/database"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memMenuRepo is a minimal in-memory dailymenu.Repository backing the
// handler tests.
type memMenuRepo struct {
	menus  map[int64]*dailymenu.DailyMenu
	nextID int64
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{menus: make(map[int64]*dailymenu.DailyMenu), nextID: 1}
}

func (m *memMenuRepo) GetByID(_ context.Context, id int64) (*dailymenu.DailyMenu, error) {
	menu, ok := m.menus[id]
	if !ok {
		return nil, idb.ErrDailyMenuNotFound
	}
	return menu, nil
}

func (m *memMenuRepo) GetByDate(_ context.Context, day time.Time) (*dailymenu.DailyMenu, error) {
	for _, menu := range m.menus {
		if menu.Date.Equal(day) {
			return menu, nil
		}
	}
	return nil, idb.ErrDailyMenuNotFound
}

func (m *memMenuRepo) ListAll(_ context.Context) ([]*dailymenu.DailyMenu, error) {
	out := make([]*dailymenu.DailyMenu, 0, len(m.menus))
	for _, menu := range m.menus {
		out = append(out, menu)
	}
	return out, nil
}

func (m *memMenuRepo) Latest(_ context.Context) (*dailymenu.DailyMenu, error) {
	var latest *dailymenu.DailyMenu
	for _, menu := range m.menus {
		if latest == nil || menu.Date.After(latest.Date) {
			latest = menu
		}
	}
	if latest == nil {
		return nil, idb.ErrDailyMenuNotFound
	}
	return latest, nil
}

func (m *memMenuRepo) ListScheduledDates(_ context.Context) ([]time.Time, error) {
	out := make([]time.Time, 0, len(m.menus))
	for _, menu := range m.menus {
		out = append(out, menu.Date)
	}
	return out, nil
}

func (m *memMenuRepo) CreateBatch(_ context.Context, menus []*dailymenu.DailyMenu) error {
	for _, menu := range menus {
		menu.ID = m.nextID
		m.nextID++
		m.menus[menu.ID] = menu
	}
	return nil
}

func (m *memMenuRepo) Update(_ context.Context, menu *dailymenu.DailyMenu) error {
	m.menus[menu.ID] = menu
	return nil
}

func (m *memMenuRepo) UpdateActive(_ context.Context, id int64, active bool) error {
	menu, ok := m.menus[id]
	if !ok {
		return idb.ErrDailyMenuNotFound
	}
	menu.Active = active
	return nil
}

func (m *memMenuRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.menus[id]; !ok {
		return idb.ErrDailyMenuNotFound
	}
	delete(m.menus, id)
	return nil
}

func (m *memMenuRepo) AddCourse(_ context.Context, item *dailymenu.CourseItem) error {
	menu, ok := m.menus[item.DailyMenuID]
	if !ok {
		return idb.ErrDailyMenuNotFound
	}
	item.ID = m.nextID
	m.nextID++
	menu.SetCourses(item.CourseType, append(menu.Courses(item.CourseType), *item))
	return nil
}

func (m *memMenuRepo) DeleteCourse(_ context.Context, menuID, courseID int64) error {
	menu, ok := m.menus[menuID]
	if !ok {
		return idb.ErrDailyMenuNotFound
	}
	for _, ct := range []dailymenu.CourseType{dailymenu.CourseTypeFirst, dailymenu.CourseTypeSecond} {
		section := menu.Courses(ct)
		kept := make([]dailymenu.CourseItem, 0, len(section))
		for _, c := range section {
			if c.ID != courseID {
				kept = append(kept, c)
			}
		}
		menu.SetCourses(ct, kept)
	}
	return nil
}

func (m *memMenuRepo) ReplaceCourseOrder(_ context.Context, menuID int64, ct dailymenu.CourseType, items []dailymenu.CourseItem) error {
	menu, ok := m.menus[menuID]
	if !ok {
		return idb.ErrDailyMenuNotFound
	}
	menu.SetCourses(ct, items)
	return nil
}

func (m *memMenuRepo) CountCourses(_ context.Context, menuID int64, ct dailymenu.CourseType) (int, error) {
	menu, ok := m.menus[menuID]
	if !ok {
		return 0, idb.ErrDailyMenuNotFound
	}
	return len(menu.Courses(ct)), nil
}

func newMenuRouter(repo *memMenuRepo) *mux.Router {
	svc := app.NewDailyMenuService(repo, quietLogger())
	r := mux.NewRouter()
	NewDailyMenuHandlers(svc).Register(r)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScheduleEndpoint_CreatesAndReportsSkips(t *testing.T) {
	repo := newMemMenuRepo()
	router := newMenuRouter(repo)

	rec := doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "2024-06-03",
		"to": "2024-06-05",
		"price": 15.5,
		"first_courses": ["Gazpacho"],
		"second_courses": ["Paella"]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Created []menuResponse `json:"created"`
		Skipped []string       `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Created, 3)
	assert.Empty(t, resp.Skipped)
	assert.Equal(t, "2024-06-03", resp.Created[0].Date)
	require.NotNil(t, resp.Created[0].Price)
	assert.Equal(t, 15.5, *resp.Created[0].Price)

	// identical second run: everything is a conflict
	rec = doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "2024-06-03",
		"to": "2024-06-05",
		"first_courses": ["Gazpacho"]
	}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, repo.menus, 3)
}

func TestScheduleEndpoint_OmittedEndDateSchedulesSingleDay(t *testing.T) {
	repo := newMemMenuRepo()
	router := newMenuRouter(repo)

	rec := doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "2024-06-03",
		"first_courses": ["Gazpacho"],
		"second_courses": ["Paella"]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Created []menuResponse `json:"created"`
		Skipped []string       `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Created, 1)
	assert.Equal(t, "2024-06-03", resp.Created[0].Date)
	assert.Empty(t, resp.Skipped)
}

func TestScheduleEndpoint_ValidatesPayload(t *testing.T) {
	router := newMenuRouter(newMemMenuRepo())

	rec := doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "03/06/2024",
		"to": "2024-06-05",
		"first_courses": ["Gazpacho"]
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "2024-06-03",
		"to": "2024-06-05",
		"repeat_pattern": "fortnightly",
		"first_courses": ["Gazpacho"]
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "2024-06-03",
		"to": "2024-06-05"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplateEndpoint_EmptyThenLatest(t *testing.T) {
	repo := newMemMenuRepo()
	router := newMenuRouter(repo)

	rec := doJSON(t, router, http.MethodGet, "/daily-menus/template", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tpl templateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tpl))
	assert.Nil(t, tpl.SourceMenuID)
	assert.Empty(t, tpl.FirstCourses)
	assert.Empty(t, tpl.SecondCourses)

	rec = doJSON(t, router, http.MethodPost, "/daily-menus/schedule", `{
		"from": "2024-06-03",
		"to": "2024-06-03",
		"first_courses": ["Gazpacho"],
		"second_courses": ["Paella"]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/daily-menus/template", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tpl))
	require.NotNil(t, tpl.SourceMenuID)
	require.Len(t, tpl.FirstCourses, 1)
	assert.Equal(t, "Gazpacho", tpl.FirstCourses[0].Name)
}

func TestBlankAndDuplicateEndpoints(t *testing.T) {
	repo := newMemMenuRepo()
	router := newMenuRouter(repo)

	rec := doJSON(t, router, http.MethodPost, "/daily-menus/blank", `{"date": "2024-06-03"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/daily-menus/blank", `{"date": "2024-06-03"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/daily-menus/1/duplicate", `{"date": "2024-06-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var dup menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dup))
	assert.Equal(t, "2024-06-10", dup.Date)
	assert.NotEqual(t, created.ID, dup.ID)
}

func TestMenuLifecycleEndpoints(t *testing.T) {
	repo := newMemMenuRepo()
	router := newMenuRouter(repo)

	doJSON(t, router, http.MethodPost, "/daily-menus/blank", `{"date": "2024-06-03"}`)

	rec := doJSON(t, router, http.MethodPatch, "/daily-menus/1", `{"price": 16.0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.NotNil(t, updated.Price)
	assert.Equal(t, 16.0, *updated.Price)

	rec = doJSON(t, router, http.MethodPatch, "/daily-menus/1/active", `{"active": false}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, repo.menus[1].Active)

	rec = doJSON(t, router, http.MethodDelete, "/daily-menus/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/daily-menus/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseEndpoints_AddReorderDelete(t *testing.T) {
	repo := newMemMenuRepo()
	router := newMenuRouter(repo)

	doJSON(t, router, http.MethodPost, "/daily-menus/blank", `{"date": "2024-06-03"}`)

	for _, name := range []string{"A", "B", "C"} {
		rec := doJSON(t, router, http.MethodPost, "/daily-menus/1/courses",
			`{"name": "`+name+`", "course_type": "first"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/daily-menus/1/courses/reorder",
		`{"course_type": "first", "from_index": 0, "to_index": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reordered []courseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reordered))
	require.Len(t, reordered, 3)
	assert.Equal(t, "B", reordered[0].Name)
	assert.Equal(t, "A", reordered[2].Name)
	assert.Equal(t, 3, reordered[2].DisplayOrder)

	rec = doJSON(t, router, http.MethodPost, "/daily-menus/1/courses/reorder",
		`{"course_type": "first", "from_index": 0, "to_index": 9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	courseID := repo.menus[1].FirstCourses[0].ID
	rec = doJSON(t, router, http.MethodDelete,
		"/daily-menus/1/courses/"+formatID(courseID)+"?course_type=first", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	remaining := repo.menus[1].FirstCourses
	require.Len(t, remaining, 2)
	assert.Equal(t, 1, remaining[0].DisplayOrder)

	rec = doJSON(t, router, http.MethodDelete,
		"/daily-menus/1/courses/"+formatID(courseID)+"?course_type=first", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func formatID(v int64) string {
	return strconv.FormatInt(v, 10)
}
