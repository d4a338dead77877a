package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/onboards-me/backend/internal/domain/quiz"
	"github.com/onboards-me/backend/internal/store"
)

// QuizSource hands out the current quiz definitions.
type QuizSource interface {
	Quizzes() (*quiz.Set, error)
}

// StaticQuizzes wraps a fixed quiz set as a QuizSource.
type StaticQuizzes struct {
	Set *quiz.Set
}

func (s StaticQuizzes) Quizzes() (*quiz.Set, error) {
	return s.Set, nil
}

// QuizService owns the attempt log and runs the lifecycle of a quiz
// attempt: started in memory, graded and appended to the log exactly once
// at submission. Quizzes with a time limit get a one-shot expiry timer that
// force-submits whatever answers are recorded.
type QuizService struct {
	store  store.Store
	source QuizSource
	logger *slog.Logger

	mu       sync.Mutex
	attempts []*quiz.Attempt
	pending  map[string]*quiz.Attempt // started but not yet submitted
}

// NewQuizService loads the persisted attempt log, falling back to an empty
// log when the document is missing or unreadable.
func NewQuizService(ctx context.Context, s store.Store, source QuizSource, logger *slog.Logger) *QuizService {
	attempts, err := s.LoadAttempts(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("starting with empty attempt log", "error", err)
		}
		attempts = nil
	}

	return &QuizService{
		store:    s,
		source:   source,
		logger:   logger,
		attempts: attempts,
		pending:  make(map[string]*quiz.Attempt),
	}
}

// ============================================================================
// Quiz lookups
// ============================================================================

// QuizByID returns a quiz definition, or quiz.ErrQuizNotFound.
func (s *QuizService) QuizByID(quizID string) (*quiz.Quiz, error) {
	set, err := s.source.Quizzes()
	if err != nil {
		return nil, err
	}
	q, ok := set.ByID(quizID)
	if !ok {
		return nil, quiz.ErrQuizNotFound
	}
	return q, nil
}

// QuizByCourse returns the quiz attached to a course, or quiz.ErrQuizNotFound.
func (s *QuizService) QuizByCourse(courseID string) (*quiz.Quiz, error) {
	set, err := s.source.Quizzes()
	if err != nil {
		return nil, err
	}
	q, ok := set.ByCourse(courseID)
	if !ok {
		return nil, quiz.ErrQuizNotFound
	}
	return q, nil
}

// ============================================================================
// Attempt lifecycle
// ============================================================================

// StartAttempt creates an unsubmitted attempt. Nothing is persisted until
// submission; abandoning the quiz leaves no trace. If the quiz carries a
// time limit, expiry force-submits the attempt once with whatever answers
// are recorded by then.
func (s *QuizService) StartAttempt(quizID, courseID string) *quiz.Attempt {
	attempt := quiz.NewAttempt(quizID, courseID)

	s.mu.Lock()
	s.pending[attempt.ID] = attempt
	s.mu.Unlock()

	if q, err := s.QuizByID(quizID); err == nil && q.TimeLimit > 0 {
		limit := time.Duration(q.TimeLimit) * time.Minute
		time.AfterFunc(limit, func() {
			s.autoSubmit(context.Background(), attempt.ID)
		})
	}

	return attempt
}

// SubmitAttempt grades the attempt, appends it to the persisted log, and
// returns the result. Submitting against a quiz id with no definition is a
// hard error; submitting the same attempt twice returns
// quiz.ErrAlreadySubmitted.
func (s *QuizService) SubmitAttempt(ctx context.Context, attempt *quiz.Attempt, answers map[string]any) (quiz.Result, error) {
	set, err := s.source.Quizzes()
	if err != nil {
		return quiz.Result{}, fmt.Errorf("quiz definitions unavailable: %w", err)
	}
	q, ok := set.ByID(attempt.QuizID)
	if !ok {
		return quiz.Result{}, fmt.Errorf("%w: %s", quiz.ErrQuizNotFound, attempt.QuizID)
	}

	result, err := attempt.Submit(q, answers, time.Now().UTC())
	if err != nil {
		return quiz.Result{}, err
	}

	s.mu.Lock()
	delete(s.pending, attempt.ID)
	s.attempts = append(s.attempts, attempt)
	err = s.persist(ctx)
	s.mu.Unlock()

	return result, err
}

// SubmitPending submits a previously started attempt by id.
func (s *QuizService) SubmitPending(ctx context.Context, attemptID string, answers map[string]any) (quiz.Result, error) {
	s.mu.Lock()
	attempt, ok := s.pending[attemptID]
	s.mu.Unlock()
	if !ok {
		return quiz.Result{}, fmt.Errorf("no pending attempt %s", attemptID)
	}
	return s.SubmitAttempt(ctx, attempt, answers)
}

// RecordAnswer stores an in-flight answer on a pending attempt so a
// time-limit expiry can submit what was answered so far.
func (s *QuizService) RecordAnswer(attemptID, questionID string, answer any) error {
	s.mu.Lock()
	attempt, ok := s.pending[attemptID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending attempt %s", attemptID)
	}
	attempt.Record(questionID, answer)
	return nil
}

// autoSubmit is the expiry path. The attempt's own submission guard makes
// it a no-op when a manual submit won the race.
func (s *QuizService) autoSubmit(ctx context.Context, attemptID string) {
	s.mu.Lock()
	attempt, ok := s.pending[attemptID]
	s.mu.Unlock()
	if !ok || attempt.Submitted() {
		return
	}

	s.logger.Info("time limit reached, submitting attempt", "attempt_id", attemptID, "quiz_id", attempt.QuizID)
	if _, err := s.SubmitAttempt(ctx, attempt, attempt.RecordedAnswers()); err != nil && !errors.Is(err, quiz.ErrAlreadySubmitted) {
		s.logger.Error("auto-submit failed", "attempt_id", attemptID, "error", err)
	}
}

// ============================================================================
// Attempt history
// ============================================================================

// HasAttempted reports whether any attempt exists for the quiz.
func (s *QuizService) HasAttempted(quizID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.attempts {
		if a.QuizID == quizID {
			return true
		}
	}
	return false
}

// HasPassed reports whether any historical attempt passed. A later failed
// retake never revokes it.
func (s *QuizService) HasPassed(quizID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.attempts {
		if a.QuizID == quizID && a.Passed {
			return true
		}
	}
	return false
}

// PassedQuizIDs lists every quiz with at least one passed attempt.
func (s *QuizService) PassedQuizIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, a := range s.attempts {
		if !a.Passed || a.CompletedAt == nil {
			continue
		}
		if _, dup := seen[a.QuizID]; dup {
			continue
		}
		seen[a.QuizID] = struct{}{}
		ids = append(ids, a.QuizID)
	}
	return ids
}

// LatestAttempt returns the most recent attempt for a quiz by start time.
func (s *QuizService) LatestAttempt(quizID string) (*quiz.Attempt, bool) {
	all := s.AllAttempts(quizID)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// AllAttempts returns every attempt for a quiz, newest first by start time.
func (s *QuizService) AllAttempts(quizID string) []*quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*quiz.Attempt
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// ReplayResult rebuilds the graded result of a persisted attempt from its
// answer map and the current quiz definition. Scoring is pure, so this is
// exactly the result the attempt was graded with.
func (s *QuizService) ReplayResult(attempt *quiz.Attempt) (quiz.Result, error) {
	set, err := s.source.Quizzes()
	if err != nil {
		return quiz.Result{}, fmt.Errorf("quiz definitions unavailable: %w", err)
	}
	q, ok := set.ByID(attempt.QuizID)
	if !ok {
		return quiz.Result{}, fmt.Errorf("%w: %s", quiz.ErrQuizNotFound, attempt.QuizID)
	}
	return quiz.Score(q, attempt.Answers), nil
}

// ============================================================================
// Resets and export
// ============================================================================

// ResetAttempts removes every attempt for one quiz, leaving the rest of
// the log intact.
func (s *QuizService) ResetAttempts(ctx context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.attempts[:0]
	for _, a := range s.attempts {
		if a.QuizID != quizID {
			kept = append(kept, a)
		}
	}
	s.attempts = kept
	return s.persist(ctx)
}

// Reset clears the whole attempt log. Part of the full reset path.
func (s *QuizService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = nil
	if err := s.store.DeleteAttempts(ctx); err != nil {
		s.logger.Error("failed to delete attempt log", "error", err)
		return fmt.Errorf("delete attempts: %w", err)
	}
	return nil
}

// Export returns the attempt log for the export document.
func (s *QuizService) Export() []*quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*quiz.Attempt(nil), s.attempts...)
}

// Import replaces the attempt log wholesale and persists it.
func (s *QuizService) Import(ctx context.Context, attempts []*quiz.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = attempts
	return s.persist(ctx)
}

// persist writes the whole attempt log. Caller holds the lock.
func (s *QuizService) persist(ctx context.Context) error {
	if err := s.store.SaveAttempts(ctx, s.attempts); err != nil {
		s.logger.Error("failed to persist attempts", "error", err)
		return fmt.Errorf("persist attempts: %w", err)
	}
	return nil
}
