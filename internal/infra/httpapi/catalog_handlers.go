package httpapi

import (
	"database/sql"
	"net/http"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/catalog"

	"github.com/gorilla/mux"
)

type CatalogHandlers struct {
	service *app.CatalogService
}

func NewCatalogHandlers(service *app.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{service: service}
}

func (h *CatalogHandlers) Register(r *mux.Router) {
	r.HandleFunc("/menu-items", h.listItems).Methods(http.MethodGet)
	r.HandleFunc("/menu-items", h.createItem).Methods(http.MethodPost)
	r.HandleFunc("/menu-items/{id}", h.getItem).Methods(http.MethodGet)
	r.HandleFunc("/menu-items/{id}", h.updateItem).Methods(http.MethodPut)
	r.HandleFunc("/menu-items/{id}", h.deleteItem).Methods(http.MethodDelete)

	r.HandleFunc("/wines", h.listWines).Methods(http.MethodGet)
	r.HandleFunc("/wines", h.createWine).Methods(http.MethodPost)
	r.HandleFunc("/wines/{id}", h.getWine).Methods(http.MethodGet)
	r.HandleFunc("/wines/{id}", h.updateWine).Methods(http.MethodPut)
	r.HandleFunc("/wines/{id}", h.deleteWine).Methods(http.MethodDelete)

	r.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/allergens", h.listAllergens).Methods(http.MethodGet)
}

func listOptionsFromQuery(r *http.Request) app.ListOptions {
	q := r.URL.Query()
	return app.ListOptions{
		Query:      q.Get("q"),
		CategoryID: q.Get("category_id"),
		SortBy:     q.Get("sort_by"),
		Ascending:  q.Get("order") != "desc",
	}
}

type menuItemPayload struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	CategoryID  string   `json:"category_id" validate:"required"`
	ImagePath   string   `json:"image_path"`
	Active      *bool    `json:"active"`
	AllergenIDs []string `json:"allergen_ids"`
}

type menuItemResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CategoryID  string   `json:"category_id"`
	ImagePath   string   `json:"image_path,omitempty"`
	Active      bool     `json:"active"`
	AllergenIDs []string `json:"allergen_ids"`
}

func toMenuItemResponse(it *catalog.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		CategoryID:  it.CategoryID,
		Active:      it.Active,
		AllergenIDs: it.AllergenIDs,
	}
	if resp.AllergenIDs == nil {
		resp.AllergenIDs = []string{}
	}
	if it.ImagePath.Valid {
		resp.ImagePath = it.ImagePath.String
	}
	return resp
}

func (p *menuItemPayload) toDomain(id string) *catalog.MenuItem {
	item := &catalog.MenuItem{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Active:      true,
		AllergenIDs: p.AllergenIDs,
	}
	if p.Active != nil {
		item.Active = *p.Active
	}
	if p.ImagePath != "" {
		item.ImagePath = sql.NullString{String: p.ImagePath, Valid: true}
	}
	return item
}

func (h *CatalogHandlers) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMenuItems(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]menuItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toMenuItemResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandlers) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.service.GetMenuItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(it))
}

func (h *CatalogHandlers) createItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item := req.toDomain("")
	if err := h.service.CreateMenuItem(r.Context(), item); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

func (h *CatalogHandlers) updateItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item := req.toDomain(mux.Vars(r)["id"])
	if err := h.service.UpdateMenuItem(r.Context(), item); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *CatalogHandlers) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMenuItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type winePayload struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	BottlePrice float64  `json:"bottle_price" validate:"gte=0"`
	GlassPrice  *float64 `json:"glass_price" validate:"omitempty,gte=0"`
	CategoryID  string   `json:"category_id" validate:"required"`
	ImagePath   string   `json:"image_path"`
	Active      *bool    `json:"active"`
}

type wineResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BottlePrice float64  `json:"bottle_price"`
	GlassPrice  *float64 `json:"glass_price,omitempty"`
	CategoryID  string   `json:"category_id"`
	ImagePath   string   `json:"image_path,omitempty"`
	Active      bool     `json:"active"`
}

func toWineResponse(wn *catalog.Wine) wineResponse {
	resp := wineResponse{
		ID:          wn.ID,
		Name:        wn.Name,
		Description: wn.Description,
		BottlePrice: wn.BottlePrice,
		CategoryID:  wn.CategoryID,
		Active:      wn.Active,
	}
	if wn.GlassPrice.Valid {
		resp.GlassPrice = &wn.GlassPrice.Float64
	}
	if wn.ImagePath.Valid {
		resp.ImagePath = wn.ImagePath.String
	}
	return resp
}

func (p *winePayload) toDomain(id string) *catalog.Wine {
	wn := &catalog.Wine{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		BottlePrice: p.BottlePrice,
		CategoryID:  p.CategoryID,
		Active:      true,
	}
	if p.Active != nil {
		wn.Active = *p.Active
	}
	if p.GlassPrice != nil {
		wn.GlassPrice = sql.NullFloat64{Float64: *p.GlassPrice, Valid: true}
	}
	if p.ImagePath != "" {
		wn.ImagePath = sql.NullString{String: p.ImagePath, Valid: true}
	}
	return wn
}

func (h *CatalogHandlers) listWines(w http.ResponseWriter, r *http.Request) {
	wines, err := h.service.ListWines(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]wineResponse, 0, len(wines))
	for _, wn := range wines {
		out = append(out, toWineResponse(wn))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandlers) getWine(w http.ResponseWriter, r *http.Request) {
	wn, err := h.service.GetWine(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWineResponse(wn))
}

func (h *CatalogHandlers) createWine(w http.ResponseWriter, r *http.Request) {
	var req winePayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	wn := req.toDomain("")
	if err := h.service.CreateWine(r.Context(), wn); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWineResponse(wn))
}

func (h *CatalogHandlers) updateWine(w http.ResponseWriter, r *http.Request) {
	var req winePayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	wn := req.toDomain(mux.Vars(r)["id"])
	if err := h.service.UpdateWine(r.Context(), wn); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWineResponse(wn))
}

func (h *CatalogHandlers) deleteWine(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteWine(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type categoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	DisplayOrder int    `json:"display_order"`
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	kind := catalog.CategoryKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = catalog.CategoryKindMenu
	}
	if kind != catalog.CategoryKindMenu && kind != catalog.CategoryKindWine {
		writeError(w, http.StatusBadRequest, "kind must be menu or wine")
		return
	}

	categories, err := h.service.ListCategories(r.Context(), kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Kind: string(c.Kind), DisplayOrder: c.DisplayOrder})
	}
	writeJSON(w, http.StatusOK, out)
}

type allergenResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *CatalogHandlers) listAllergens(w http.ResponseWriter, r *http.Request) {
	allergens, err := h.service.ListAllergens(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]allergenResponse, 0, len(allergens))
	for _, a := range allergens {
		out = append(out, allergenResponse{ID: a.ID, Name: a.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
