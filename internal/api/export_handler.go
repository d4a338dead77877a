// internal/api/export_handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/onboards-me/backend/internal/domain/enrollment"
	"github.com/onboards-me/backend/internal/domain/progress"
	"github.com/onboards-me/backend/internal/domain/quiz"
	"github.com/onboards-me/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

// ExportData is the whole persisted state as one portable document: the
// enrollment record, the progress snapshot, and the attempt log.
type ExportData struct {
	Version    string             `json:"version"`
	ExportedAt string             `json:"exported_at"`
	Enrollment *enrollment.Record `json:"enrollment,omitempty"`
	Progress   *progress.Snapshot `json:"progress"`
	Attempts   []*quiz.Attempt    `json:"quiz_attempts"`
}

type ImportResult struct {
	EnrollmentImported bool `json:"enrollment_imported"`
	CoursesImported    int  `json:"courses_imported"`
	AttemptsImported   int  `json:"attempts_imported"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /export
func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Progress:   h.progress.Export(),
		Attempts:   h.quizzes.Export(),
	}
	if exportData.Attempts == nil {
		exportData.Attempts = []*quiz.Attempt{}
	}

	rec, err := h.enrollment.Record()
	if err != nil && !errors.Is(err, service.ErrNotEnrolled) {
		respondError(w, http.StatusInternalServerError, "failed to load enrollment")
		return
	}
	exportData.Enrollment = rec

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=onboardsme-export.json")
	json.NewEncoder(w).Encode(exportData)
}

// POST /import
func (h *Handler) importAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var importData ExportData
	if !decodeJSON(w, r, &importData) {
		return
	}

	result := ImportResult{}

	if err := h.enrollment.Import(ctx, importData.Enrollment); err != nil {
		h.logger.Error("failed to import enrollment", "error", err)
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}
	result.EnrollmentImported = importData.Enrollment != nil

	if err := h.progress.Import(ctx, importData.Progress); err != nil {
		h.logger.Error("failed to import progress", "error", err)
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}
	if importData.Progress != nil {
		result.CoursesImported = len(importData.Progress.Courses)
	}

	if err := h.quizzes.Import(ctx, importData.Attempts); err != nil {
		h.logger.Error("failed to import attempts", "error", err)
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}
	result.AttemptsImported = len(importData.Attempts)

	respondJSON(w, http.StatusOK, result)
}

// DELETE /data
func (h *Handler) resetAll(w http.ResponseWriter, r *http.Request) {
	if err := service.ResetAll(r.Context(), h.enrollment, h.progress, h.quizzes); err != nil {
		h.logger.Error("full reset failed", "error", err)
		respondError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
