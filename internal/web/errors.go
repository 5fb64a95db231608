package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Mapped to an HTTP status derived from the pipeline error kind
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. Structured JSON failure is written; no partial ViewResult ever escapes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"statusboard/internal/core"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and writes a JSON failure whose
// status is derived from the pipeline error kind.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	statusCode := statusForError(err)

	// Get request ID for correlation
	requestID := middleware.GetReqID(r.Context())

	// Log the technical error with context
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", requestID,
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

// statusForError maps a pipeline error kind to an HTTP status code.
// Errors without a kind default to 500.
func statusForError(err error) int {
	kind, ok := core.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case core.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case core.KindParse, core.KindEmptyResult:
		return http.StatusBadRequest
	case core.KindMissingColumn, core.KindInvalidRange, core.KindNoNumericColumns:
		return http.StatusUnprocessableEntity
	case core.KindDatasetNotFound:
		return http.StatusNotFound
	case core.KindTooManyDatasets:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
