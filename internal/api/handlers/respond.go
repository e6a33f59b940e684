package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

type errorBody struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps pipeline errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrUnreadableDocument),
		errors.Is(err, apperrors.ErrEmptyDocument),
		errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrExtractionParse),
		errors.Is(err, apperrors.ErrExtractionEmptyResult),
		errors.Is(err, apperrors.ErrGenerationParse):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrExtractionUnavailable),
		errors.Is(err, apperrors.ErrGenerationUnavailable):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Warn("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Detail: err.Error(), Field: apperrors.FieldOf(err)})
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}
