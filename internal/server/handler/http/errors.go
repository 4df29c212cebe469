package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/models"
	"github.com/atinyakov/UserNotepad/internal/validation"
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request"})
}

// writeError maps err onto an HTTP status and a JSON body. Unclassified
// errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Wrong input", Errors: verrs})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "user already exists"})
	case errors.Is(err, models.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "unauthorized"})
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
