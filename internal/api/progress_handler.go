// internal/api/progress_handler.go
package api

import (
	"net/http"
	"strconv"
)

// ── Request / Response types ────────────────────────────────────────────────

type VideoProgressRequest struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}

func (r VideoProgressRequest) Validate() string {
	if r.CurrentTime < 0 {
		return "current_time must not be negative"
	}
	if r.Duration < 0 {
		return "duration must not be negative"
	}
	return ""
}

type CourseProgressResponse struct {
	CourseID       string          `json:"course_id"`
	CompletedItems []string        `json:"completed_items"`
	CompletedCount int             `json:"completed_count"`
	Percentage     int             `json:"progress_percentage"`
	LastViewed     *ResumeResponse `json:"last_viewed,omitempty"`
}

type LessonProgressResponse struct {
	CourseID   string `json:"course_id"`
	LessonID   string `json:"lesson_id"`
	Percentage int    `json:"progress_percentage"`
}

type ItemProgressResponse struct {
	ItemID    string                `json:"item_id"`
	Completed bool                  `json:"completed"`
	Video     *VideoProgressRequest `json:"video,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /progress/courses/{courseID}
func (h *Handler) getCourseProgress(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")

	cp, ok := h.progress.CourseProgress(courseID)
	if !ok {
		// No history yet reads as empty progress, not an error.
		respondJSON(w, http.StatusOK, CourseProgressResponse{
			CourseID:       courseID,
			CompletedItems: []string{},
		})
		return
	}

	response := CourseProgressResponse{
		CourseID:       courseID,
		CompletedItems: cp.CompletedItems,
		CompletedCount: cp.CompletedCount,
		Percentage:     cp.Percentage,
	}
	if pos, ok := h.progress.LastViewed(courseID); ok {
		response.LastViewed = positionResponse(pos)
	}
	respondJSON(w, http.StatusOK, response)
}

// DELETE /progress/courses/{courseID}
func (h *Handler) resetCourseProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.ResetCourseProgress(r.Context(), r.PathValue("courseID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /progress/courses/{courseID}/lessons/{lessonID}
func (h *Handler) getLessonProgress(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	lessonID := r.PathValue("lessonID")
	respondJSON(w, http.StatusOK, LessonProgressResponse{
		CourseID:   courseID,
		LessonID:   lessonID,
		Percentage: h.progress.LessonCompletionPercentage(courseID, lessonID),
	})
}

// GET /progress/items/{itemID}
func (h *Handler) getItemProgress(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")

	response := ItemProgressResponse{
		ItemID:    itemID,
		Completed: h.progress.IsItemCompleted(itemID),
	}
	if vp, ok := h.progress.VideoProgress(itemID); ok {
		response.Video = &VideoProgressRequest{CurrentTime: vp.CurrentTime, Duration: vp.Duration}
	}
	respondJSON(w, http.StatusOK, response)
}

// POST /progress/courses/{courseID}/lessons/{lessonID}/items/{itemID}/start
func (h *Handler) startItem(w http.ResponseWriter, r *http.Request) {
	err := h.progress.MarkItemStarted(r.Context(),
		r.PathValue("courseID"), r.PathValue("lessonID"), r.PathValue("itemID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record view")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// POST /progress/courses/{courseID}/lessons/{lessonID}/items/{itemID}/complete
func (h *Handler) completeItem(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	err := h.progress.MarkItemCompleted(r.Context(),
		courseID, r.PathValue("lessonID"), r.PathValue("itemID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":              "completed",
		"progress_percentage": h.progress.CompletionPercentage(courseID),
	})
}

// PUT /progress/courses/{courseID}/lessons/{lessonID}/items/{itemID}/video
func (h *Handler) updateVideoProgress(w http.ResponseWriter, r *http.Request) {
	var req VideoProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.Validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	itemID := r.PathValue("itemID")
	err := h.progress.UpdateVideoProgress(r.Context(),
		r.PathValue("courseID"), r.PathValue("lessonID"), itemID,
		req.CurrentTime, req.Duration)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record video progress")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "recorded",
		"completed": h.progress.IsItemCompleted(itemID),
	})
}

// GET /progress/recent?limit=N
func (h *Handler) getRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, map[string]any{"course_ids": h.progress.RecentlyViewed(limit)})
}
