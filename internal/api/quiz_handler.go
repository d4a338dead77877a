// internal/api/quiz_handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/onboards-me/backend/internal/domain/quiz"
)

// ── Request / Response types ────────────────────────────────────────────────

// QuestionView is a question as presented to the learner: the correct
// answer and the explanation stay server-side until the attempt is graded.
type QuestionView struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Points   int      `json:"points"`
}

type QuizResponse struct {
	ID           string         `json:"id"`
	CourseID     string         `json:"course_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	PassingScore int            `json:"passing_score"`
	TimeLimit    int            `json:"time_limit,omitempty"`
	Questions    []QuestionView `json:"questions"`
}

type StartAttemptRequest struct {
	CourseID string `json:"course_id"`
}

type StartAttemptResponse struct {
	AttemptID string `json:"attempt_id"`
	QuizID    string `json:"quiz_id"`
	TimeLimit int    `json:"time_limit,omitempty"`
}

type RecordAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     any    `json:"answer"`
}

type SubmitAttemptRequest struct {
	Answers map[string]any `json:"answers"`
}

type QuizStatusResponse struct {
	QuizID       string `json:"quiz_id"`
	HasAttempted bool   `json:"has_attempted"`
	HasPassed    bool   `json:"has_passed"`
	LatestScore  *int   `json:"latest_score,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /quizzes/{quizID}
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := h.quizzes.QuizByID(r.PathValue("quizID"))
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, quizResponse(q))
}

// GET /courses/{courseID}/quiz
func (h *Handler) getCourseQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := h.quizzes.QuizByCourse(r.PathValue("courseID"))
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, quizResponse(q))
}

// POST /quizzes/{quizID}/attempts
func (h *Handler) startAttempt(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("quizID")

	q, err := h.quizzes.QuizByID(quizID)
	if h.handleQuizError(w, err) {
		return
	}

	// The body is optional: starting an attempt needs no input beyond the
	// quiz id, but a client may pin the course explicitly.
	var req StartAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	courseID := req.CourseID
	if courseID == "" {
		courseID = q.CourseID
	}

	attempt := h.quizzes.StartAttempt(quizID, courseID)
	respondJSON(w, http.StatusCreated, StartAttemptResponse{
		AttemptID: attempt.ID,
		QuizID:    quizID,
		TimeLimit: q.TimeLimit,
	})
}

// POST /attempts/{attemptID}/answers
func (h *Handler) recordAnswer(w http.ResponseWriter, r *http.Request) {
	var req RecordAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionID == "" {
		respondError(w, http.StatusBadRequest, "question_id is required")
		return
	}

	if err := h.quizzes.RecordAnswer(r.PathValue("attemptID"), req.QuestionID, req.Answer); err != nil {
		respondError(w, http.StatusNotFound, "no pending attempt")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// POST /attempts/{attemptID}/submit
func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	var req SubmitAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.quizzes.SubmitPending(r.Context(), r.PathValue("attemptID"), req.Answers)
	switch {
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		respondError(w, http.StatusConflict, "attempt already submitted")
		return
	case errors.Is(err, quiz.ErrQuizNotFound):
		respondError(w, http.StatusNotFound, "quiz not found")
		return
	case err != nil:
		respondError(w, http.StatusNotFound, "no pending attempt")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GET /quizzes/{quizID}/status
func (h *Handler) getQuizStatus(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("quizID")

	response := QuizStatusResponse{
		QuizID:       quizID,
		HasAttempted: h.quizzes.HasAttempted(quizID),
		HasPassed:    h.quizzes.HasPassed(quizID),
	}
	if latest, ok := h.quizzes.LatestAttempt(quizID); ok {
		response.LatestScore = &latest.Score
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /quizzes/{quizID}/attempts
func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	attempts := h.quizzes.AllAttempts(r.PathValue("quizID"))
	if attempts == nil {
		attempts = []*quiz.Attempt{}
	}
	respondJSON(w, http.StatusOK, attempts)
}

// DELETE /quizzes/{quizID}/attempts
func (h *Handler) resetAttempts(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.ResetAttempts(r.Context(), r.PathValue("quizID")); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset attempts")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /quizzes/passed
func (h *Handler) getPassedQuizzes(w http.ResponseWriter, r *http.Request) {
	ids := h.quizzes.PassedQuizIDs()
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"quiz_ids": ids})
}

// handleQuizError maps quiz lookup errors onto HTTP responses. Returns
// true if an error was handled (caller should return).
func (h *Handler) handleQuizError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, quiz.ErrQuizNotFound) {
		respondError(w, http.StatusNotFound, "quiz not found")
		return true
	}
	return h.handleContentError(w, err)
}

func quizResponse(q *quiz.Quiz) QuizResponse {
	questions := make([]QuestionView, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionView{
			ID:       question.ID,
			Type:     string(question.Type),
			Question: question.Question,
			Options:  question.Options,
			Points:   question.Points,
		}
	}
	return QuizResponse{
		ID:           q.ID,
		CourseID:     q.CourseID,
		Title:        q.Title,
		Description:  q.Description,
		PassingScore: q.PassingScore,
		TimeLimit:    q.TimeLimit,
		Questions:    questions,
	}
}
