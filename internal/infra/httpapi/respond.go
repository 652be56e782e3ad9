package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"restaurant_backoffice/internal/app"
	idb "restaurant_backoffice/internal/infra/database"
	"restaurant_backoffice/internal/infra/logger"
	"restaurant_backoffice/internal/infra/supabase"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError translates well-known service and repository errors
// into HTTP statuses; anything unrecognized becomes a 500 with a generic
// message so internals never leak to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *supabase.Error

	switch {
	case errors.Is(err, idb.ErrDailyMenuNotFound),
		errors.Is(err, idb.ErrMenuItemNotFound),
		errors.Is(err, idb.ErrWineNotFound),
		errors.Is(err, idb.ErrPostNotFound),
		errors.Is(err, idb.ErrEntryNotFound),
		errors.Is(err, idb.ErrUserNotFound),
		errors.Is(err, app.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrDateConflict),
		errors.Is(err, idb.ErrDuplicateMenuDate),
		errors.Is(err, idb.ErrDuplicateSlug),
		errors.Is(err, idb.ErrDuplicateEmail),
		errors.Is(err, app.ErrSlugTaken),
		errors.Is(err, app.ErrImageInUse),
		errors.Is(err, app.ErrNothingToSchedule),
		errors.Is(err, app.ErrLastAdmin):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrEmptyDateRange),
		errors.Is(err, app.ErrNoCourses),
		errors.Is(err, app.ErrUnknownFolder),
		errors.Is(err, app.ErrUnknownSortField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, apiErr.Message)
	default:
		logger.Log.WithError(err).Error("Unhandled service error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeAndValidate parses the JSON body into dst and runs its validation
// tags, answering the request itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation failed: %v", err))
		return false
	}
	return true
}
