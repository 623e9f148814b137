package web

// errors.go provides unified error responses for the web layer.
//
// Every error is logged with full technical detail and the request ID
// for correlation, then returned to the client as the user-friendly
// message produced by core.MapError.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/core"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses. It
// carries both machine-readable (Code) and human-readable fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error server-side and answers with
// the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusForError picks the HTTP status for a transformation failure.
// Bad input is the user's problem; a saturated limiter is back-pressure;
// everything else is ours.
func statusForError(err error) int {
	var parseErr *core.ParseError
	var typeErr *core.TypeError
	var schemaErr *core.SchemaError

	switch {
	case errors.As(err, &parseErr), errors.As(err, &typeErr), errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyTransforms):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
