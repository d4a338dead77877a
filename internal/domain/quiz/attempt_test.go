package quiz_test

import (
	"errors"
	"testing"
	"time"

	"github.com/onboards-me/backend/internal/domain/quiz"
)

func TestNewAttempt(t *testing.T) {
	attempt := quiz.NewAttempt("quiz-1", "course-1")

	if attempt.ID == "" {
		t.Error("expected attempt id to be generated")
	}
	if attempt.StartedAt.IsZero() {
		t.Error("expected start timestamp")
	}
	if attempt.CompletedAt != nil {
		t.Error("new attempt must not be completed")
	}
	if attempt.Score != 0 || attempt.Passed {
		t.Error("new attempt must start unscored and unpassed")
	}
}

func TestAttemptSubmit_StampsOutcome(t *testing.T) {
	q := twoQuestionQuiz()
	attempt := quiz.NewAttempt(q.ID, q.CourseID)
	attempt.StartedAt = time.Now().UTC().Add(-90 * time.Second)

	answers := map[string]any{"q1": float64(0), "q2": "true"}
	result, err := attempt.Submit(q, answers, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 100 || !result.Passed {
		t.Errorf("expected a full score, got %+v", result)
	}
	if attempt.Score != 100 || !attempt.Passed {
		t.Errorf("expected outcome stamped on attempt, got score=%d passed=%v", attempt.Score, attempt.Passed)
	}
	if attempt.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if attempt.TimeTaken < 89 || attempt.TimeTaken > 91 {
		t.Errorf("expected roughly 90 elapsed seconds, got %d", attempt.TimeTaken)
	}
}

func TestAttemptSubmit_ExactlyOnce(t *testing.T) {
	q := twoQuestionQuiz()
	attempt := quiz.NewAttempt(q.ID, q.CourseID)

	if _, err := attempt.Submit(q, map[string]any{"q1": float64(0)}, time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := attempt.Submit(q, map[string]any{"q1": float64(0), "q2": "true"}, time.Now().UTC())
	if !errors.Is(err, quiz.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	// The first outcome must survive the rejected retry.
	if attempt.Score != 50 {
		t.Errorf("expected original score 50 to be preserved, got %d", attempt.Score)
	}
}

func TestAttemptSubmit_NilQuizIsHardError(t *testing.T) {
	attempt := quiz.NewAttempt("ghost", "course-1")

	_, err := attempt.Submit(nil, map[string]any{}, time.Now().UTC())
	if !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if attempt.Submitted() {
		t.Error("a failed submission must not consume the submission slot")
	}
}

func TestAttemptRecord(t *testing.T) {
	q := twoQuestionQuiz()
	attempt := quiz.NewAttempt(q.ID, q.CourseID)

	attempt.Record("q1", float64(0))
	attempt.Record("q1", float64(1)) // later answer wins
	attempt.Record("q2", "true")

	answers := attempt.RecordedAnswers()
	if answers["q1"] != float64(1) || answers["q2"] != "true" {
		t.Errorf("unexpected recorded answers: %v", answers)
	}

	if _, err := attempt.Submit(q, attempt.RecordedAnswers(), time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attempt.Record("q1", float64(0))
	if attempt.RecordedAnswers()["q1"] != float64(1) {
		t.Error("recording after submission must be a no-op")
	}
}

func TestQuizSetLookups(t *testing.T) {
	set := &quiz.Set{Quizzes: []quiz.Quiz{
		{ID: "quiz-1", CourseID: "course-1"},
		{ID: "quiz-2", CourseID: "course-2"},
	}}

	if q, ok := set.ByID("quiz-2"); !ok || q.CourseID != "course-2" {
		t.Errorf("ByID failed: %v %v", q, ok)
	}
	if q, ok := set.ByCourse("course-1"); !ok || q.ID != "quiz-1" {
		t.Errorf("ByCourse failed: %v %v", q, ok)
	}
	if _, ok := set.ByID("missing"); ok {
		t.Error("expected missing quiz id to not resolve")
	}
}
