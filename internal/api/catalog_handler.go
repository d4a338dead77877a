// internal/api/catalog_handler.go
package api

import (
	"net/http"

	"github.com/onboards-me/backend/internal/domain/catalog"
)

// ── Response types ──────────────────────────────────────────────────────────

type CourseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Lessons     int    `json:"lessons"`
	TotalItems  int    `json:"total_items"`
	Percentage  int    `json:"progress_percentage"`
}

type ResumeResponse struct {
	LessonID string `json:"lesson_id"`
	ItemID   string `json:"item_id"`
}

type NeighborsResponse struct {
	Next     *ResumeResponse `json:"next,omitempty"`
	Previous *ResumeResponse `json:"previous,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /courses
func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	cat, err := h.content.Catalog()
	if h.handleContentError(w, err) {
		return
	}

	response := make([]CourseSummary, len(cat.Courses))
	for i := range cat.Courses {
		c := &cat.Courses[i]
		response[i] = CourseSummary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Lessons:     len(c.Lessons),
			TotalItems:  c.TotalItems(),
			Percentage:  h.progress.CompletionPercentage(c.ID),
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /courses/{courseID}
func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	cat, err := h.content.Catalog()
	if h.handleContentError(w, err) {
		return
	}

	course, ok := cat.Course(r.PathValue("courseID"))
	if !ok {
		respondError(w, http.StatusNotFound, "course not found")
		return
	}
	respondJSON(w, http.StatusOK, course)
}

// GET /courses/{courseID}/resume
func (h *Handler) getResumePoint(w http.ResponseWriter, r *http.Request) {
	cat, err := h.content.Catalog()
	if h.handleContentError(w, err) {
		return
	}

	courseID := r.PathValue("courseID")
	if _, ok := cat.Course(courseID); !ok {
		respondError(w, http.StatusNotFound, "course not found")
		return
	}

	pos, ok := h.progress.ResumePoint(courseID)
	if !ok {
		respondError(w, http.StatusNotFound, "course has no items")
		return
	}
	respondJSON(w, http.StatusOK, ResumeResponse{LessonID: pos.LessonID, ItemID: pos.ItemID})
}

// GET /courses/{courseID}/lessons/{lessonID}/items/{itemID}/neighbors
func (h *Handler) getNeighbors(w http.ResponseWriter, r *http.Request) {
	cat, err := h.content.Catalog()
	if h.handleContentError(w, err) {
		return
	}

	course, ok := cat.Course(r.PathValue("courseID"))
	if !ok {
		respondError(w, http.StatusNotFound, "course not found")
		return
	}

	lessonID := r.PathValue("lessonID")
	itemID := r.PathValue("itemID")
	response := NeighborsResponse{}
	if next, ok := course.Next(lessonID, itemID); ok {
		response.Next = positionResponse(next)
	}
	if prev, ok := course.Previous(lessonID, itemID); ok {
		response.Previous = positionResponse(prev)
	}
	respondJSON(w, http.StatusOK, response)
}

// POST /content/reload
func (h *Handler) reloadContent(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Reload(r.Context()); err != nil {
		h.logger.Error("content reload failed", "error", err)
		respondError(w, http.StatusBadGateway, "reload failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func positionResponse(pos catalog.Position) *ResumeResponse {
	return &ResumeResponse{LessonID: pos.LessonID, ItemID: pos.ItemID}
}
