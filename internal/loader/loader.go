// Package loader fetches the course and quiz configuration documents and
// hands out the immutable in-memory catalog built from them.
//
// Readiness is a one-shot future: callers that need the catalog at startup
// await Ready() once instead of polling. Until then reads degrade to an
// empty catalog with ErrNotReady, which the API surfaces as a loading state
// rather than an error.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/onboards-me/backend/internal/domain/catalog"
	"github.com/onboards-me/backend/internal/domain/quiz"
	"github.com/onboards-me/backend/internal/worker"
)

var (
	// ErrNotReady means the initial load has not finished yet.
	ErrNotReady = errors.New("catalog not loaded yet")

	// ErrUnavailable means the load finished and failed. A Reload may clear it.
	ErrUnavailable = errors.New("catalog unavailable")
)

const (
	docCourses = "courses"
	docQuizzes = "quizzes"
)

// Loader owns the catalog documents. Both documents are fetched side by
// side through a small worker pool; sources may be file paths or http(s)
// URLs.
type Loader struct {
	client     *http.Client
	logger     *slog.Logger
	coursesSrc string
	quizzesSrc string

	ready     chan struct{}
	readyOnce sync.Once

	mu      sync.RWMutex
	catalog *catalog.Catalog
	quizzes *quiz.Set
	loadErr error
}

// New creates a loader for the two document sources.
func New(coursesSrc, quizzesSrc string, logger *slog.Logger) *Loader {
	return &Loader{
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		coursesSrc: coursesSrc,
		quizzesSrc: quizzesSrc,
		ready:      make(chan struct{}),
		catalog:    catalog.Empty(),
		quizzes:    &quiz.Set{},
	}
}

// Start kicks off the initial load in the background. Ready() closes when
// it finishes, successfully or not.
func (l *Loader) Start(ctx context.Context) {
	go func() {
		if err := l.fetchAll(ctx); err != nil {
			l.logger.Error("catalog load failed", "error", err)
			l.mu.Lock()
			l.loadErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
			l.mu.Unlock()
		}
		l.readyOnce.Do(func() { close(l.ready) })
	}()
}

// Ready returns a channel closed once the initial load has finished.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}

// Reload fetches both documents again. On success the previous load error
// is cleared; on failure the last good catalog stays in place.
func (l *Loader) Reload(ctx context.Context) error {
	if err := l.fetchAll(ctx); err != nil {
		l.logger.Error("catalog reload failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Catalog returns the loaded content tree. Before the initial load has
// finished it returns an empty catalog with ErrNotReady; after a failed
// load, an empty catalog with the load error.
func (l *Loader) Catalog() (*catalog.Catalog, error) {
	select {
	case <-l.ready:
	default:
		return catalog.Empty(), ErrNotReady
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.loadErr != nil {
		return catalog.Empty(), l.loadErr
	}
	return l.catalog, nil
}

// Quizzes returns the loaded quiz definitions under the same readiness
// rules as Catalog.
func (l *Loader) Quizzes() (*quiz.Set, error) {
	select {
	case <-l.ready:
	default:
		return &quiz.Set{}, ErrNotReady
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.loadErr != nil {
		return &quiz.Set{}, l.loadErr
	}
	return l.quizzes, nil
}

type fetchOutcome struct {
	data []byte
	err  error
}

// fetchAll retrieves both documents concurrently and swaps them in together
// so consumers never observe courses from one load and quizzes from another.
func (l *Loader) fetchAll(ctx context.Context) error {
	pool := worker.NewPool[fetchOutcome](2, 2)
	defer pool.Close()

	sources := map[string]string{
		docCourses: l.coursesSrc,
		docQuizzes: l.quizzesSrc,
	}
	for name, src := range sources {
		src := src
		pool.Submit(name, func() fetchOutcome {
			data, err := l.fetchDocument(ctx, src)
			return fetchOutcome{data: data, err: err}
		})
	}

	docs := make(map[string][]byte, len(sources))
	for range sources {
		result := <-pool.Results()
		if result.Output.err != nil {
			return fmt.Errorf("fetch %s: %w", result.JobID, result.Output.err)
		}
		docs[result.JobID] = result.Output.data
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(docs[docCourses], &cat); err != nil {
		return fmt.Errorf("parse courses document: %w", err)
	}

	var set quiz.Set
	if err := json.Unmarshal(docs[docQuizzes], &set); err != nil {
		return fmt.Errorf("parse quizzes document: %w", err)
	}

	l.mu.Lock()
	l.catalog = &cat
	l.quizzes = &set
	l.loadErr = nil
	l.mu.Unlock()

	l.logger.Info("catalog loaded",
		"courses", len(cat.Courses),
		"quizzes", len(set.Quizzes),
	)
	return nil
}

// fetchDocument reads one source, either over HTTP or from disk.
func (l *Loader) fetchDocument(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, src)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(src)
}
