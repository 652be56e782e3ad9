package httpapi

import (
	"net/http"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/user"

	"github.com/gorilla/mux"
)

// UserHandlers serves account administration. All routes are expected to
// sit behind RequireAdmin.
type UserHandlers struct {
	service *app.UserService
}

func NewUserHandlers(service *app.UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

func (h *UserHandlers) Register(r *mux.Router) {
	r.HandleFunc("/users", h.list).Methods(http.MethodGet)
	r.HandleFunc("/users/invite", h.invite).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/role", h.setRole).Methods(http.MethodPatch)
	r.HandleFunc("/users/{id}/active", h.setActive).Methods(http.MethodPatch)
}

func (h *UserHandlers) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandlers) invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=admin user"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.service.Invite(r.Context(), req.Email, user.Role(req.Role))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *UserHandlers) setRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role" validate:"required,oneof=admin user"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.service.SetRole(r.Context(), mux.Vars(r)["id"], user.Role(req.Role))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *UserHandlers) setActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.service.SetActive(r.Context(), mux.Vars(r)["id"], *req.Active)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
