package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/onboards-me/backend/internal/domain/enrollment"
	"github.com/onboards-me/backend/internal/store"
)

// ErrNotEnrolled is returned by operations that need an enrollment record
// before one exists.
var ErrNotEnrolled = errors.New("not enrolled")

// EnrollmentService owns the single local user's enrollment record.
type EnrollmentService struct {
	store  store.Store
	logger *slog.Logger

	mu     sync.Mutex
	record *enrollment.Record // nil until the user enrolls
}

// NewEnrollmentService loads the persisted record. Missing or corrupt
// documents leave the user un-enrolled rather than failing.
func NewEnrollmentService(ctx context.Context, s store.Store, logger *slog.Logger) *EnrollmentService {
	rec, err := s.LoadEnrollment(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("starting without enrollment record", "error", err)
		}
		rec = nil
	}

	return &EnrollmentService{
		store:  s,
		logger: logger,
		record: rec,
	}
}

// Enroll creates and persists the enrollment record with no course
// selections yet. Re-enrolling replaces the record.
func (e *EnrollmentService) Enroll(ctx context.Context, name string, age int, email, role string, yearsOfExperience int) (*enrollment.Record, error) {
	rec, err := enrollment.New(name, age, email, role, yearsOfExperience)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.record = rec
	if err := e.persist(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// IsEnrolled reports whether an enrollment record exists.
func (e *EnrollmentService) IsEnrolled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record != nil
}

// Record returns the current enrollment record, or ErrNotEnrolled.
func (e *EnrollmentService) Record() (*enrollment.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return nil, ErrNotEnrolled
	}
	out := *e.record
	out.EnrolledCourses = append([]string(nil), e.record.EnrolledCourses...)
	return &out, nil
}

// SelectCourses replaces the enrolled-course list.
func (e *EnrollmentService) SelectCourses(ctx context.Context, courseIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return ErrNotEnrolled
	}
	e.record.EnrolledCourses = append([]string(nil), courseIDs...)
	return e.persist(ctx)
}

// EnrollInCourse adds one course selection; already-selected is a no-op.
func (e *EnrollmentService) EnrollInCourse(ctx context.Context, courseID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return ErrNotEnrolled
	}
	e.record.AddCourse(courseID)
	return e.persist(ctx)
}

// UnenrollFromCourse drops one course selection.
func (e *EnrollmentService) UnenrollFromCourse(ctx context.Context, courseID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return ErrNotEnrolled
	}
	e.record.RemoveCourse(courseID)
	return e.persist(ctx)
}

// Reset clears the enrollment record. Part of the full reset path.
func (e *EnrollmentService) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record = nil
	if err := e.store.DeleteEnrollment(ctx); err != nil {
		e.logger.Error("failed to delete enrollment record", "error", err)
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// Import replaces the enrollment record wholesale and persists it. A nil
// record clears it.
func (e *EnrollmentService) Import(ctx context.Context, rec *enrollment.Record) error {
	if rec == nil {
		return e.Reset(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.record = rec
	return e.persist(ctx)
}

func (e *EnrollmentService) persist(ctx context.Context) error {
	if err := e.store.SaveEnrollment(ctx, e.record); err != nil {
		e.logger.Error("failed to persist enrollment", "error", err)
		return fmt.Errorf("persist enrollment: %w", err)
	}
	return nil
}

// ResetAll clears all three persisted aggregates (enrollment, progress,
// and the attempt log), returning the user to the pre-enrollment state.
// Each delete removes a whole aggregate, so no aggregate is ever left
// half-updated; a failure stops the sequence and is reported.
func ResetAll(ctx context.Context, e *EnrollmentService, p *ProgressService, q *QuizService) error {
	if err := e.Reset(ctx); err != nil {
		return err
	}
	if err := p.Reset(ctx); err != nil {
		return err
	}
	return q.Reset(ctx)
}
