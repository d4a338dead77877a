package store

import (
	"context"
	"errors"

	"github.com/onboards-me/backend/internal/domain/enrollment"
	"github.com/onboards-me/backend/internal/domain/progress"
	"github.com/onboards-me/backend/internal/domain/quiz"
)

var (
	// ErrNotFound means the aggregate has never been written.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt means the persisted document exists but cannot be decoded.
	// Callers treat it like a new user: they fall back to an empty aggregate
	// rather than surfacing the corruption.
	ErrCorrupt = errors.New("stored document is corrupt")
)

// Store is the persistence medium for the three user aggregates. Each
// aggregate is read and written as a whole document; there are no
// partial-field updates at this boundary. Every mutation upstream reads the
// full aggregate, applies the change, and writes the full aggregate back.
type Store interface {
	LoadEnrollment(ctx context.Context) (*enrollment.Record, error)
	SaveEnrollment(ctx context.Context, rec *enrollment.Record) error
	DeleteEnrollment(ctx context.Context) error

	LoadProgress(ctx context.Context) (*progress.Snapshot, error)
	SaveProgress(ctx context.Context, snap *progress.Snapshot) error
	DeleteProgress(ctx context.Context) error

	LoadAttempts(ctx context.Context) ([]*quiz.Attempt, error)
	SaveAttempts(ctx context.Context, attempts []*quiz.Attempt) error
	DeleteAttempts(ctx context.Context) error

	Close() error
}

// Document keys for the three aggregates.
const (
	keyEnrollment = "enrollment"
	keyProgress   = "progress"
	keyAttempts   = "quiz_attempts"
)
