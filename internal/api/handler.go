// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/onboards-me/backend/internal/domain/catalog"
	"github.com/onboards-me/backend/internal/domain/quiz"
	"github.com/onboards-me/backend/internal/loader"
	"github.com/onboards-me/backend/internal/service"
)

// ContentSource hands handlers the current course catalog and quiz
// definitions. The production implementation is the loader; tests plug in
// a stub.
type ContentSource interface {
	Catalog() (*catalog.Catalog, error)
	Quizzes() (*quiz.Set, error)
	Reload(ctx context.Context) error
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	content    ContentSource
	progress   *service.ProgressService
	quizzes    *service.QuizService
	enrollment *service.EnrollmentService
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(content ContentSource, p *service.ProgressService, q *service.QuizService, e *service.EnrollmentService, logger *slog.Logger) *Handler {
	return &Handler{
		content:    content,
		progress:   p,
		quizzes:    q,
		enrollment: e,
		logger:     logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. Returns false (after writing
// a 400) when the body is not valid JSON; the caller should return.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// handleContentError checks for content-source errors and writes the
// appropriate HTTP response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleContentError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, loader.ErrNotReady):
		respondError(w, http.StatusServiceUnavailable, "content still loading")
	case errors.Is(err, loader.ErrUnavailable):
		respondError(w, http.StatusBadGateway, "content source unavailable")
	default:
		h.logger.Error("content source error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
