package quiz

import (
	"math"
	"sync"
	"time"

	"github.com/onboards-me/backend/internal/id"
)

// Attempt is one timed run through a quiz. It is created in memory at quiz
// start and becomes durable only at submission, which mutates it exactly
// once: completion timestamp, answers, score and pass flag are stamped
// together and never edited afterwards.
type Attempt struct {
	ID          string         `json:"id"`
	QuizID      string         `json:"quiz_id"`
	CourseID    string         `json:"course_id"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Answers     map[string]any `json:"answers"`
	Score       int            `json:"score"` // percentage, 0-100
	Passed      bool           `json:"passed"`
	TimeTaken   int            `json:"time_taken,omitempty"` // whole seconds

	mu        sync.Mutex
	submitted bool
}

// NewAttempt creates an unsubmitted attempt starting now.
func NewAttempt(quizID, courseID string) *Attempt {
	return &Attempt{
		ID:        id.GenerateID(),
		QuizID:    quizID,
		CourseID:  courseID,
		StartedAt: time.Now().UTC(),
		Answers:   make(map[string]any),
	}
}

// Record stores an in-flight answer. Recording after submission is a no-op;
// the submitted attempt is immutable.
func (a *Attempt) Record(questionID string, answer any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return
	}
	if a.Answers == nil {
		a.Answers = make(map[string]any)
	}
	a.Answers[questionID] = answer
}

// RecordedAnswers returns a copy of the answers recorded so far. A time-limit
// expiry submits with exactly this map.
func (a *Attempt) RecordedAnswers() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	answers := make(map[string]any, len(a.Answers))
	for k, v := range a.Answers {
		answers[k] = v
	}
	return answers
}

// Submitted reports whether the attempt has been graded.
func (a *Attempt) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// Submit grades the answer map against the quiz definition and stamps the
// outcome onto the attempt. The submission slot is claimed exactly once:
// a second call (a retried click, or the expiry timer firing after a
// manual submit) gets ErrAlreadySubmitted and the attempt is untouched.
func (a *Attempt) Submit(q *Quiz, answers map[string]any, completedAt time.Time) (Result, error) {
	if q == nil {
		return Result{}, ErrQuizNotFound
	}

	a.mu.Lock()
	if a.submitted {
		a.mu.Unlock()
		return Result{}, ErrAlreadySubmitted
	}
	a.submitted = true
	a.mu.Unlock()

	result := Score(q, answers)

	a.mu.Lock()
	a.Answers = answers
	a.Score = result.Score
	a.Passed = result.Passed
	done := completedAt
	a.CompletedAt = &done
	elapsed := completedAt.Sub(a.StartedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	a.TimeTaken = int(math.Round(elapsed))
	a.mu.Unlock()

	return result, nil
}
