// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/onboards-me/backend/internal/domain/enrollment"
	"github.com/onboards-me/backend/internal/domain/progress"
	"github.com/onboards-me/backend/internal/domain/quiz"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    key TEXT PRIMARY KEY,
    doc TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// SQLiteStore persists each aggregate as one JSON document in a single
// key/value table. The document granularity matches the mutation model:
// whole-aggregate read-modify-write, nothing finer.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens (or creates) the database at dbPath. ":memory:" works for
// throwaway stores.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Enrollment
// ============================================================================

func (s *SQLiteStore) LoadEnrollment(ctx context.Context) (*enrollment.Record, error) {
	var rec enrollment.Record
	if err := s.loadDoc(ctx, keyEnrollment, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) SaveEnrollment(ctx context.Context, rec *enrollment.Record) error {
	return s.saveDoc(ctx, keyEnrollment, rec)
}

func (s *SQLiteStore) DeleteEnrollment(ctx context.Context) error {
	return s.deleteDoc(ctx, keyEnrollment)
}

// ============================================================================
// Progress
// ============================================================================

func (s *SQLiteStore) LoadProgress(ctx context.Context) (*progress.Snapshot, error) {
	var snap progress.Snapshot
	if err := s.loadDoc(ctx, keyProgress, &snap); err != nil {
		return nil, err
	}
	snap.Normalize()
	return &snap, nil
}

func (s *SQLiteStore) SaveProgress(ctx context.Context, snap *progress.Snapshot) error {
	return s.saveDoc(ctx, keyProgress, snap)
}

func (s *SQLiteStore) DeleteProgress(ctx context.Context) error {
	return s.deleteDoc(ctx, keyProgress)
}

// ============================================================================
// Quiz attempts
// ============================================================================

func (s *SQLiteStore) LoadAttempts(ctx context.Context) ([]*quiz.Attempt, error) {
	var attempts []*quiz.Attempt
	if err := s.loadDoc(ctx, keyAttempts, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (s *SQLiteStore) SaveAttempts(ctx context.Context, attempts []*quiz.Attempt) error {
	return s.saveDoc(ctx, keyAttempts, attempts)
}

func (s *SQLiteStore) DeleteAttempts(ctx context.Context) error {
	return s.deleteDoc(ctx, keyAttempts)
}

// ============================================================================
// Document helpers
// ============================================================================

func (s *SQLiteStore) loadDoc(ctx context.Context, key string, v any) error {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM documents WHERE key = ?", key).Scan(&doc)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

func (s *SQLiteStore) saveDoc(ctx context.Context, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (key, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		key, string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) deleteDoc(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", key)
	return err
}
