package httpapi

import (
	"net/http"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/entry"

	"github.com/gorilla/mux"
)

type EntryHandlers struct {
	service *app.EntryService
}

func NewEntryHandlers(service *app.EntryService) *EntryHandlers {
	return &EntryHandlers{service: service}
}

func (h *EntryHandlers) Register(r *mux.Router) {
	r.HandleFunc("/entries", h.list).Methods(http.MethodGet)
	r.HandleFunc("/entries", h.create).Methods(http.MethodPost)
	r.HandleFunc("/entries/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/entries/{id}", h.delete).Methods(http.MethodDelete)
}

type entryPayload struct {
	Name string `json:"name" validate:"required"`
}

type entryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RandomNumber int    `json:"random_number"`
	UpdatedBy    string `json:"updated_by"`
	UpdatedAt    string `json:"updated_at"`
}

func toEntryResponse(e *entry.DataEntry) entryResponse {
	return entryResponse{
		ID:           e.ID,
		Name:         e.Name,
		RandomNumber: e.RandomNumber,
		UpdatedBy:    e.UpdatedBy,
		UpdatedAt:    e.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *EntryHandlers) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EntryHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req entryPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	e, err := h.service.Create(r.Context(), req.Name, EmailFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(e))
}

func (h *EntryHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req entryPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	e, err := h.service.Update(r.Context(), mux.Vars(r)["id"], req.Name, EmailFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(e))
}

func (h *EntryHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
