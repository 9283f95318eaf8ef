package rest

import (
	"errors"
	"house-map-service/internal/core/domain"
	"net/http"

	"github.com/go-chi/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError sends {"error": message} with the given status.
func WriteJSONError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, errorResponse{Error: message})
}

// RespondWithJSON sends payload as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	render.Status(r, code)
	render.JSON(w, r, payload)
}

// statusForError maps use case errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPageOutOfRange),
		errors.Is(err, domain.ErrUnknownLifecycle):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFetchInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRefreshThrottled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
