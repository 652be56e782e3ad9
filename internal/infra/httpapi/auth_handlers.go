package httpapi

import (
	"net/http"
	"strings"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/user"
	"restaurant_backoffice/internal/infra/supabase"

	"github.com/gorilla/mux"
)

type AuthHandlers struct {
	service *app.AuthService
}

func NewAuthHandlers(service *app.AuthService) *AuthHandlers {
	return &AuthHandlers{service: service}
}

// RegisterPublic wires the endpoints reachable without a session.
func (h *AuthHandlers) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", h.refresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify", h.verify).Methods(http.MethodPost)
}

// RegisterProtected wires the endpoints that need a session.
func (h *AuthHandlers) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), Active: u.Active}
}

func toSessionResponse(s *supabase.Session, profile *user.User) sessionResponse {
	resp := sessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	}
	if profile != nil {
		resp.User = toUserResponse(profile)
	} else {
		resp.User = userResponse{ID: s.User.ID, Email: s.User.Email}
	}
	return resp
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, profile, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session, profile))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session, nil))
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=invite recovery magiclink"`
}

func (h *AuthHandlers) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.service.VerifyInvite(r.Context(), req.Email, req.Token, req.Type)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session, nil))
}

func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.service.Logout(r.Context(), parts[1]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
