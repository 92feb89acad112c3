package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Index   *int   `json:"index,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// writeServiceError maps a service error onto a status code. Anything that is
// neither bad input nor a missing resource is logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidationError(err):
		body := errorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: err.Error(),
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			index := verr.Index
			body.Index = &index
			body.Hint = verr.Hint
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrInvalidPollID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPollNotFound), errors.Is(err, domain.ErrResultsNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
