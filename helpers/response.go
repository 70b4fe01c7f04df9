package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"petmatch_server/logging"
	"petmatch_server/models"
)

// WriteJSONResponse writes data as a JSON body with the given status
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// StatusForError maps the error taxonomy onto HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes {"error": ...}. Internal errors are logged and their detail hidden.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = "internal server error"
	}
	WriteJSONResponse(w, status, map[string]string{"error": message})
}
