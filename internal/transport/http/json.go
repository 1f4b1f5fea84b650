package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quiz-battle-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var loadErr *domain.DataLoadError
	switch {
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		return http.StatusNotFound
	case errors.As(err, &loadErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
