package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/onboards-me/backend/internal/domain/enrollment"
	"github.com/onboards-me/backend/internal/domain/progress"
	"github.com/onboards-me/backend/internal/domain/quiz"
)

// MemoryStore keeps the aggregate documents in a map. It round-trips values
// through JSON so it behaves exactly like the sqlite medium, including
// surfacing corrupt documents. Used in tests and as a throwaway medium.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte

	// WriteErr, when set, is returned by every save. Lets tests exercise the
	// write-failure propagation path.
	WriteErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Corrupt overwrites an aggregate document with undecodable bytes.
func (m *MemoryStore) Corrupt(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = []byte("{not json")
}

// CorruptProgress poisons the progress document.
func (m *MemoryStore) CorruptProgress() { m.Corrupt(keyProgress) }

// CorruptAttempts poisons the attempt log document.
func (m *MemoryStore) CorruptAttempts() { m.Corrupt(keyAttempts) }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) LoadEnrollment(ctx context.Context) (*enrollment.Record, error) {
	var rec enrollment.Record
	if err := m.load(keyEnrollment, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *MemoryStore) SaveEnrollment(ctx context.Context, rec *enrollment.Record) error {
	return m.save(keyEnrollment, rec)
}

func (m *MemoryStore) DeleteEnrollment(ctx context.Context) error {
	return m.delete(keyEnrollment)
}

func (m *MemoryStore) LoadProgress(ctx context.Context) (*progress.Snapshot, error) {
	var snap progress.Snapshot
	if err := m.load(keyProgress, &snap); err != nil {
		return nil, err
	}
	snap.Normalize()
	return &snap, nil
}

func (m *MemoryStore) SaveProgress(ctx context.Context, snap *progress.Snapshot) error {
	return m.save(keyProgress, snap)
}

func (m *MemoryStore) DeleteProgress(ctx context.Context) error {
	return m.delete(keyProgress)
}

func (m *MemoryStore) LoadAttempts(ctx context.Context) ([]*quiz.Attempt, error) {
	var attempts []*quiz.Attempt
	if err := m.load(keyAttempts, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (m *MemoryStore) SaveAttempts(ctx context.Context, attempts []*quiz.Attempt) error {
	return m.save(keyAttempts, attempts)
}

func (m *MemoryStore) DeleteAttempts(ctx context.Context) error {
	return m.delete(keyAttempts)
}

func (m *MemoryStore) load(key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[key]
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

func (m *MemoryStore) save(key string, v any) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = doc
	return nil
}

func (m *MemoryStore) delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}
