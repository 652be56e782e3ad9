package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/dailymenu"

	"github.com/gorilla/mux"
)

type DailyMenuHandlers struct {
	service *app.DailyMenuService
}

func NewDailyMenuHandlers(service *app.DailyMenuService) *DailyMenuHandlers {
	return &DailyMenuHandlers{service: service}
}

func (h *DailyMenuHandlers) Register(r *mux.Router) {
	r.HandleFunc("/daily-menus", h.list).Methods(http.MethodGet)
	r.HandleFunc("/daily-menus/schedule", h.schedule).Methods(http.MethodPost)
	r.HandleFunc("/daily-menus/template", h.template).Methods(http.MethodGet)
	r.HandleFunc("/daily-menus/blank", h.createBlank).Methods(http.MethodPost)
	r.HandleFunc("/daily-menus/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/daily-menus/{id:[0-9]+}", h.update).Methods(http.MethodPatch)
	r.HandleFunc("/daily-menus/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/daily-menus/{id:[0-9]+}/duplicate", h.duplicate).Methods(http.MethodPost)
	r.HandleFunc("/daily-menus/{id:[0-9]+}/active", h.setActive).Methods(http.MethodPatch)
	r.HandleFunc("/daily-menus/{id:[0-9]+}/courses", h.addCourse).Methods(http.MethodPost)
	r.HandleFunc("/daily-menus/{id:[0-9]+}/courses/reorder", h.reorderCourses).Methods(http.MethodPost)
	r.HandleFunc("/daily-menus/{id:[0-9]+}/courses/{courseID:[0-9]+}", h.deleteCourse).Methods(http.MethodDelete)
}

type courseResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CourseType   string `json:"course_type"`
	DisplayOrder int    `json:"display_order"`
}

type menuResponse struct {
	ID             int64            `json:"id"`
	Date           string           `json:"date"`
	Active         bool             `json:"active"`
	Price          *float64         `json:"price,omitempty"`
	CarriedForward bool             `json:"carried_forward"`
	CarriedFromID  *int64           `json:"carried_from_id,omitempty"`
	FirstCourses   []courseResponse `json:"first_courses"`
	SecondCourses  []courseResponse `json:"second_courses"`
}

func toCourseResponse(c dailymenu.CourseItem) courseResponse {
	return courseResponse{
		ID:           c.ID,
		Name:         c.Name,
		CourseType:   string(c.CourseType),
		DisplayOrder: c.DisplayOrder,
	}
}

func toMenuResponse(m *dailymenu.DailyMenu) menuResponse {
	resp := menuResponse{
		ID:             m.ID,
		Date:           m.Date.Format(dailymenu.DayFormat),
		Active:         m.Active,
		CarriedForward: m.CarriedForward,
		FirstCourses:   make([]courseResponse, 0, len(m.FirstCourses)),
		SecondCourses:  make([]courseResponse, 0, len(m.SecondCourses)),
	}
	if m.Price.Valid {
		resp.Price = &m.Price.Float64
	}
	if m.CarriedFromID.Valid {
		resp.CarriedFromID = &m.CarriedFromID.Int64
	}
	for _, c := range m.FirstCourses {
		resp.FirstCourses = append(resp.FirstCourses, toCourseResponse(c))
	}
	for _, c := range m.SecondCourses {
		resp.SecondCourses = append(resp.SecondCourses, toCourseResponse(c))
	}
	return resp
}

func (h *DailyMenuHandlers) list(w http.ResponseWriter, r *http.Request) {
	menus, err := h.service.ListMenus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]menuResponse, 0, len(menus))
	for _, m := range menus {
		out = append(out, toMenuResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

type scheduleRequest struct {
	From          string   `json:"from" validate:"required,datetime=2006-01-02"`
	To            string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
	RepeatPattern string   `json:"repeat_pattern" validate:"omitempty,oneof=none weekly monthly"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	FirstCourses  []string `json:"first_courses"`
	SecondCourses []string `json:"second_courses"`
}

type scheduleResponse struct {
	Created []menuResponse `json:"created"`
	Skipped []string       `json:"skipped"`
}

func (h *DailyMenuHandlers) schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	from, _ := dailymenu.ParseDay(req.From)
	to := from
	if req.To != "" {
		to, _ = dailymenu.ParseDay(req.To)
	}
	pattern := dailymenu.RepeatPattern(req.RepeatPattern)
	if pattern == "" {
		pattern = dailymenu.RepeatNone
	}

	result, err := h.service.ScheduleMenus(r.Context(), app.ScheduleRequest{
		From:          from,
		To:            to,
		Pattern:       pattern,
		Price:         req.Price,
		FirstCourses:  req.FirstCourses,
		SecondCourses: req.SecondCourses,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := scheduleResponse{
		Created: make([]menuResponse, 0, len(result.Created)),
		Skipped: make([]string, 0, len(result.Skipped)),
	}
	for _, m := range result.Created {
		resp.Created = append(resp.Created, toMenuResponse(m))
	}
	for _, d := range result.Skipped {
		resp.Skipped = append(resp.Skipped, d.Format(dailymenu.DayFormat))
	}
	writeJSON(w, http.StatusCreated, resp)
}

type templateResponse struct {
	SourceMenuID  *int64           `json:"source_menu_id,omitempty"`
	FirstCourses  []courseResponse `json:"first_courses"`
	SecondCourses []courseResponse `json:"second_courses"`
}

func (h *DailyMenuHandlers) template(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.MenuTemplate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := templateResponse{
		FirstCourses:  make([]courseResponse, 0, len(tpl.FirstCourses)),
		SecondCourses: make([]courseResponse, 0, len(tpl.SecondCourses)),
	}
	if tpl.SourceMenuID != 0 {
		resp.SourceMenuID = &tpl.SourceMenuID
	}
	for _, c := range tpl.FirstCourses {
		resp.FirstCourses = append(resp.FirstCourses, toCourseResponse(c))
	}
	for _, c := range tpl.SecondCourses {
		resp.SecondCourses = append(resp.SecondCourses, toCourseResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

type blankMenuRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *DailyMenuHandlers) createBlank(w http.ResponseWriter, r *http.Request) {
	var req blankMenuRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	day, _ := dailymenu.ParseDay(req.Date)

	m, err := h.service.CreateBlankMenu(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuResponse(m))
}

func (h *DailyMenuHandlers) get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	m, err := h.service.GetMenu(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuResponse(m))
}

type updateMenuRequest struct {
	Date  *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

func (h *DailyMenuHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req updateMenuRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var newDate *time.Time
	if req.Date != nil {
		d, _ := dailymenu.ParseDay(*req.Date)
		newDate = &d
	}

	m, err := h.service.UpdateMenuDetails(r.Context(), pathID(r, "id"), newDate, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuResponse(m))
}

func (h *DailyMenuHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMenu(r.Context(), pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type duplicateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *DailyMenuHandlers) duplicate(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	day, _ := dailymenu.ParseDay(req.Date)

	m, err := h.service.DuplicateMenu(r.Context(), pathID(r, "id"), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuResponse(m))
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *DailyMenuHandlers) setActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.service.ToggleActive(r.Context(), pathID(r, "id"), *req.Active); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type addCourseRequest struct {
	Name       string `json:"name" validate:"required"`
	CourseType string `json:"course_type" validate:"required,oneof=first second"`
}

func (h *DailyMenuHandlers) addCourse(w http.ResponseWriter, r *http.Request) {
	var req addCourseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.service.AddCourse(r.Context(), pathID(r, "id"), dailymenu.CourseType(req.CourseType), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseResponse(*item))
}

type reorderRequest struct {
	CourseType string `json:"course_type" validate:"required,oneof=first second"`
	FromIndex  *int   `json:"from_index" validate:"required,gte=0"`
	ToIndex    *int   `json:"to_index" validate:"required,gte=0"`
}

func (h *DailyMenuHandlers) reorderCourses(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items, err := h.service.ReorderCourse(r.Context(), pathID(r, "id"),
		dailymenu.CourseType(req.CourseType), *req.FromIndex, *req.ToIndex)
	if err != nil {
		if err == app.ErrCourseNotFound {
			writeServiceError(w, err)
			return
		}
		// index-out-of-range errors from the domain are client mistakes
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := make([]courseResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCourseResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DailyMenuHandlers) deleteCourse(w http.ResponseWriter, r *http.Request) {
	ct := dailymenu.CourseType(r.URL.Query().Get("course_type"))
	if !ct.IsValid() {
		writeError(w, http.StatusBadRequest, "course_type query parameter must be first or second")
		return
	}
	if err := h.service.DeleteCourse(r.Context(), pathID(r, "id"), pathID(r, "courseID"), ct); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// pathID extracts a numeric mux path variable; the route patterns guarantee
// it parses.
func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}
