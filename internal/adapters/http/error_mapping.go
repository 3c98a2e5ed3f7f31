package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrMissingColumns):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrWorkbookOpen):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error          string   `json:"error"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	RequestID      string   `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	resp := errorResponse{Error: err.Error(), RequestID: requestIDFromContext(r.Context())}

	var missing *domain.MissingColumnsError
	if errors.As(err, &missing) {
		resp.MissingColumns = missing.Columns
	}
	if status == http.StatusInternalServerError {
		slog.Error("request_failed", "request_id", resp.RequestID, "path", r.URL.Path, "error", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}
