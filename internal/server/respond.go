package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"travel-booking/internal/database"
	"travel-booking/internal/service"
	"travel-booking/internal/storage"
)

var (
	errBadRequest   = errors.New("bad request")
	errUnauthorized = errors.New("unauthorized")
	errForbidden    = errors.New("forbidden")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response", zap.Error(err))
	}
}

// fail writes err as a JSON error. Errors the client can act on carry their
// message; anything else is logged and answered with a generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		msg    = err.Error()
	)
	switch {
	case errors.Is(err, service.ErrInvalid),
		errors.Is(err, database.ErrBadFilter),
		errors.Is(err, storage.ErrInvalidImage),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		status = http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, database.ErrStatusConflict):
		status = http.StatusConflict
	default:
		status, msg = http.StatusInternalServerError, "Internal Server Error"
		s.log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.respond(w, status, errorResponse{Error: msg})
}
