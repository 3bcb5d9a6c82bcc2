package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"curator/internal/logging"
	"curator/internal/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeError maps a classified error onto the response envelope. Anything
// that classifies as an internal failure gets logged with its full chain
// and reported with a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
		message = "internal error"
	}
	s.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (s *Server) writeValidationError(w http.ResponseWriter, format string, args ...any) {
	s.writeError(w, services.Wrap(services.ErrValidation, "", "", fmt.Sprintf(format, args...), nil))
}

// decodeJSON parses a request body into dst, treating malformed bodies as
// validation failures.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "", "decode", "invalid JSON body", err)
	}
	return nil
}
