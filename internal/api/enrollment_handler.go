// internal/api/enrollment_handler.go
package api

import (
	"errors"
	"net/http"

	"github.com/onboards-me/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type EnrollRequest struct {
	Name              string `json:"name"`
	Age               int    `json:"age"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	YearsOfExperience int    `json:"years_of_experience"`
}

func (r EnrollRequest) Validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Email == "" {
		return "email is required"
	}
	return ""
}

type SelectCoursesRequest struct {
	CourseIDs []string `json:"course_ids"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /enrollment
func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.Validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	rec, err := h.enrollment.Enroll(r.Context(), req.Name, req.Age, req.Email, req.Role, req.YearsOfExperience)
	if err != nil {
		h.logger.Error("enrollment failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to enroll")
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

// GET /enrollment
func (h *Handler) getEnrollment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.enrollment.Record()
	if h.handleEnrollmentError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// PUT /enrollment/courses
func (h *Handler) selectCourses(w http.ResponseWriter, r *http.Request) {
	var req SelectCoursesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if h.handleEnrollmentError(w, h.enrollment.SelectCourses(r.Context(), req.CourseIDs)) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// POST /enrollment/courses/{courseID}
func (h *Handler) enrollInCourse(w http.ResponseWriter, r *http.Request) {
	if h.handleEnrollmentError(w, h.enrollment.EnrollInCourse(r.Context(), r.PathValue("courseID"))) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "enrolled"})
}

// DELETE /enrollment/courses/{courseID}
func (h *Handler) unenrollFromCourse(w http.ResponseWriter, r *http.Request) {
	if h.handleEnrollmentError(w, h.enrollment.UnenrollFromCourse(r.Context(), r.PathValue("courseID"))) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEnrollmentError maps enrollment errors onto HTTP responses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleEnrollmentError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrNotEnrolled) {
		respondError(w, http.StatusNotFound, "not enrolled")
		return true
	}
	h.logger.Error("enrollment error", "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}
