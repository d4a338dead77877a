package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onboards-me/backend/internal/domain/catalog"
	"github.com/onboards-me/backend/internal/domain/progress"
	"github.com/onboards-me/backend/internal/service"
	"github.com/onboards-me/backend/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testCatalog: go-101 has lessons basics[a b c] and extras[d];
// sql-201 has lesson s1[x y].
func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Courses: []catalog.Course{
			{
				ID: "go-101",
				Lessons: []catalog.Lesson{
					{
						ID: "basics",
						LearningItems: []catalog.LearningItem{
							{ID: "a", Type: catalog.ItemTypeVideo},
							{ID: "b", Type: catalog.ItemTypeURL},
							{ID: "c", Type: catalog.ItemTypePDF},
						},
					},
					{
						ID: "extras",
						LearningItems: []catalog.LearningItem{
							{ID: "d", Type: catalog.ItemTypeURL},
						},
					},
				},
			},
			{
				ID: "sql-201",
				Lessons: []catalog.Lesson{
					{
						ID: "s1",
						LearningItems: []catalog.LearningItem{
							{ID: "x", Type: catalog.ItemTypeURL},
							{ID: "y", Type: catalog.ItemTypeURL},
						},
					},
				},
			},
		},
	}
}

func newProgressService(t *testing.T) (*service.ProgressService, *store.MemoryStore) {
	t.Helper()
	m := store.NewMemory()
	p := service.NewProgressService(context.Background(), m, service.StaticCatalog{Cat: testCatalog()}, discard())
	return p, m
}

func TestMarkItemCompleted_Idempotent(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	if err := p.MarkItemCompleted(ctx, "go-101", "basics", "a"); err != nil {
		t.Fatal(err)
	}
	first, _ := p.CourseProgress("go-101")

	if err := p.MarkItemCompleted(ctx, "go-101", "basics", "a"); err != nil {
		t.Fatal(err)
	}
	second, _ := p.CourseProgress("go-101")

	if second.CompletedCount != 1 || second.CompletedCount != first.CompletedCount {
		t.Errorf("expected completing twice to count once, got %d then %d", first.CompletedCount, second.CompletedCount)
	}
	if second.Percentage != first.Percentage {
		t.Errorf("expected stable percentage, got %d then %d", first.Percentage, second.Percentage)
	}
	if len(second.CompletedItems) != 1 {
		t.Errorf("expected one completed item, got %v", second.CompletedItems)
	}
}

func TestMarkItemCompleted_PercentageInvariant(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	items := []struct{ lesson, item string }{
		{"basics", "a"}, {"basics", "b"}, {"basics", "c"}, {"extras", "d"},
	}
	for i, it := range items {
		if err := p.MarkItemCompleted(ctx, "go-101", it.lesson, it.item); err != nil {
			t.Fatal(err)
		}
		cp, ok := p.CourseProgress("go-101")
		if !ok {
			t.Fatal("expected course progress")
		}
		// Cached derived fields must equal a fresh recomputation.
		want := progress.Percentage(len(cp.CompletedItems), 4)
		if cp.Percentage != want {
			t.Errorf("after %d completions: cached %d%% != recomputed %d%%", i+1, cp.Percentage, want)
		}
	}

	if got := p.CompletionPercentage("go-101"); got != 100 {
		t.Errorf("expected 100%% after completing everything, got %d", got)
	}
}

func TestCompletedCount_MonotonicExceptReset(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	prev := 0
	step := func() {
		if got := p.CompletedCount("go-101"); got < prev {
			t.Errorf("completed count decreased from %d to %d without a reset", prev, got)
		} else {
			prev = got
		}
	}

	p.MarkItemCompleted(ctx, "go-101", "basics", "a")
	step()
	p.MarkItemStarted(ctx, "go-101", "basics", "b")
	step()
	p.MarkItemCompleted(ctx, "go-101", "basics", "a") // repeat
	step()
	p.UpdateVideoProgress(ctx, "go-101", "basics", "a", 50, 100)
	step()
	p.MarkItemCompleted(ctx, "go-101", "basics", "b")
	step()

	if err := p.ResetCourseProgress(ctx, "go-101"); err != nil {
		t.Fatal(err)
	}
	if got := p.CompletedCount("go-101"); got != 0 {
		t.Errorf("expected reset to zero the count, got %d", got)
	}
}

func TestMarkItemStarted_NoPercentageChangeNoDowngrade(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	p.MarkItemCompleted(ctx, "go-101", "basics", "a")
	before := p.CompletionPercentage("go-101")

	if err := p.MarkItemStarted(ctx, "go-101", "basics", "a"); err != nil {
		t.Fatal(err)
	}
	if !p.IsItemCompleted("a") {
		t.Error("starting must never downgrade a completed item")
	}
	if got := p.CompletionPercentage("go-101"); got != before {
		t.Errorf("starting changed percentage from %d to %d", before, got)
	}

	// The last-viewed pointer moves regardless of completion state.
	if err := p.MarkItemStarted(ctx, "go-101", "basics", "b"); err != nil {
		t.Fatal(err)
	}
	last, ok := p.LastViewed("go-101")
	if !ok || last.ItemID != "b" {
		t.Errorf("expected last viewed b, got %+v (ok=%v)", last, ok)
	}
	if p.IsItemCompleted("b") {
		t.Error("starting an item must not complete it")
	}
}

func TestUpdateVideoProgress_AutoCompletionExactlyOnce(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	// Below threshold: sub-state only.
	if err := p.UpdateVideoProgress(ctx, "go-101", "basics", "a", 50, 100); err != nil {
		t.Fatal(err)
	}
	if p.IsItemCompleted("a") {
		t.Fatal("50% watched must not complete the item")
	}
	vp, ok := p.VideoProgress("a")
	if !ok || vp.CurrentTime != 50 {
		t.Fatalf("expected recorded watch position, got %+v (ok=%v)", vp, ok)
	}

	// At the 90% threshold: completes.
	if err := p.UpdateVideoProgress(ctx, "go-101", "basics", "a", 90, 100); err != nil {
		t.Fatal(err)
	}
	if !p.IsItemCompleted("a") {
		t.Fatal("90% watched must complete the item")
	}
	if got := p.CompletedCount("go-101"); got != 1 {
		t.Fatalf("expected one completion, got %d", got)
	}

	// Repeated reports past the threshold must not double-count.
	for _, ct := range []float64{91, 95, 100} {
		if err := p.UpdateVideoProgress(ctx, "go-101", "basics", "a", ct, 100); err != nil {
			t.Fatal(err)
		}
	}
	if got := p.CompletedCount("go-101"); got != 1 {
		t.Errorf("expected repeated threshold reports to count once, got %d", got)
	}

	// The watch position keeps updating after completion.
	vp, _ = p.VideoProgress("a")
	if vp.CurrentTime != 100 {
		t.Errorf("expected watch position 100, got %v", vp.CurrentTime)
	}
}

func TestUpdateVideoProgress_ZeroDuration(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	if err := p.UpdateVideoProgress(ctx, "go-101", "basics", "a", 10, 0); err != nil {
		t.Fatal(err)
	}
	if p.IsItemCompleted("a") {
		t.Error("zero duration must never trigger completion")
	}
}

func TestResumePoint_Precedence(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	// No history: first item of the course.
	pos, ok := p.ResumePoint("go-101")
	if !ok || pos.ItemID != "a" {
		t.Fatalf("expected first item a, got %+v (ok=%v)", pos, ok)
	}

	// Completed a, last viewed b (incomplete): resume exactly at b.
	p.MarkItemCompleted(ctx, "go-101", "basics", "a")
	p.MarkItemStarted(ctx, "go-101", "basics", "b")
	pos, ok = p.ResumePoint("go-101")
	if !ok || pos.ItemID != "b" {
		t.Fatalf("expected resume at incomplete last-viewed b, got %+v (ok=%v)", pos, ok)
	}

	// b completed (now also last viewed): advance once to c.
	p.MarkItemCompleted(ctx, "go-101", "basics", "b")
	pos, ok = p.ResumePoint("go-101")
	if !ok || pos.ItemID != "c" {
		t.Fatalf("expected advance to c after completing last-viewed b, got %+v (ok=%v)", pos, ok)
	}

	// Everything completed: degrade to the course's first item, not "none".
	p.MarkItemCompleted(ctx, "go-101", "basics", "c")
	p.MarkItemCompleted(ctx, "go-101", "extras", "d")
	pos, ok = p.ResumePoint("go-101")
	if !ok || pos.ItemID != "a" || pos.LessonID != "basics" {
		t.Fatalf("expected review-from-start at a, got %+v (ok=%v)", pos, ok)
	}
}

func TestResumePoint_FirstIncompleteScan(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	// Complete the last-viewed item at the very end of the course, then
	// leave an earlier hole: the scan must find the hole.
	p.MarkItemCompleted(ctx, "go-101", "extras", "d")
	pos, ok := p.ResumePoint("go-101")
	if !ok || pos.ItemID != "a" {
		t.Fatalf("expected scan to find first incomplete a, got %+v (ok=%v)", pos, ok)
	}
}

func TestResumePoint_UnknownOrEmptyCourse(t *testing.T) {
	p, _ := newProgressService(t)

	if _, ok := p.ResumePoint("missing"); ok {
		t.Error("expected no resume point for an unknown course")
	}

	empty := &catalog.Catalog{Courses: []catalog.Course{{ID: "hollow", Lessons: []catalog.Lesson{{ID: "l1"}}}}}
	p2 := service.NewProgressService(context.Background(), store.NewMemory(), service.StaticCatalog{Cat: empty}, discard())
	if _, ok := p2.ResumePoint("hollow"); ok {
		t.Error("expected no resume point for a course with zero items")
	}
}

func TestResetCourseProgress_ScopedToOneCourse(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	p.MarkItemCompleted(ctx, "go-101", "basics", "a")
	p.MarkItemCompleted(ctx, "sql-201", "s1", "x")

	if err := p.ResetCourseProgress(ctx, "go-101"); err != nil {
		t.Fatal(err)
	}

	if _, ok := p.CourseProgress("go-101"); ok {
		t.Error("expected go-101 progress to be gone")
	}
	if p.IsItemCompleted("a") {
		t.Error("expected go-101 item progress to be gone")
	}

	if !p.IsItemCompleted("x") {
		t.Error("expected sql-201 item progress to survive")
	}
	cp, ok := p.CourseProgress("sql-201")
	if !ok || cp.CompletedCount != 1 {
		t.Errorf("expected sql-201 progress untouched, got %+v (ok=%v)", cp, ok)
	}
}

func TestReads_DefaultForUnknownIDs(t *testing.T) {
	p, _ := newProgressService(t)

	if p.IsItemCompleted("ghost") {
		t.Error("unknown item must read as incomplete")
	}
	if got := p.CompletionPercentage("ghost"); got != 0 {
		t.Errorf("unknown course must read as 0%%, got %d", got)
	}
	if _, ok := p.CourseProgress("ghost"); ok {
		t.Error("unknown course must not resolve")
	}
	if _, ok := p.VideoProgress("ghost"); ok {
		t.Error("unknown item must have no video progress")
	}
}

func TestLessonCompletionPercentage(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	p.MarkItemCompleted(ctx, "go-101", "basics", "a")
	p.MarkItemCompleted(ctx, "go-101", "basics", "b")

	if got := p.LessonCompletionPercentage("go-101", "basics"); got != 67 {
		t.Errorf("expected 67%% for 2 of 3, got %d", got)
	}
	if got := p.LessonCompletionPercentage("go-101", "extras"); got != 0 {
		t.Errorf("expected 0%% for untouched lesson, got %d", got)
	}
	if got := p.LessonCompletionPercentage("go-101", "missing"); got != 0 {
		t.Errorf("expected 0%% for unknown lesson, got %d", got)
	}
}

func TestRecentlyViewed_NewestFirst(t *testing.T) {
	ctx := context.Background()
	p, _ := newProgressService(t)

	p.MarkItemStarted(ctx, "go-101", "basics", "a")
	time.Sleep(2 * time.Millisecond)
	p.MarkItemStarted(ctx, "sql-201", "s1", "x")

	ids := p.RecentlyViewed(5)
	if len(ids) != 2 || ids[0] != "sql-201" || ids[1] != "go-101" {
		t.Errorf("expected [sql-201 go-101], got %v", ids)
	}

	if got := p.RecentlyViewed(1); len(got) != 1 || got[0] != "sql-201" {
		t.Errorf("expected limit to apply, got %v", got)
	}
}

func TestCorruptStore_FallsBackToEmpty(t *testing.T) {
	m := store.NewMemory()
	m.CorruptProgress()

	p := service.NewProgressService(context.Background(), m, service.StaticCatalog{Cat: testCatalog()}, discard())

	if p.IsItemCompleted("a") {
		t.Error("expected empty aggregate after corrupt load")
	}
	// The service stays usable: the next mutation overwrites the bad doc.
	if err := p.MarkItemCompleted(context.Background(), "go-101", "basics", "a"); err != nil {
		t.Fatalf("mutation after corrupt load failed: %v", err)
	}
	if !p.IsItemCompleted("a") {
		t.Error("expected completion to stick after recovery")
	}
}

func TestWriteFailure_ReportedNotRetried(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	p := service.NewProgressService(ctx, m, service.StaticCatalog{Cat: testCatalog()}, discard())

	m.WriteErr = errors.New("disk full")
	err := p.MarkItemCompleted(ctx, "go-101", "basics", "a")
	if err == nil {
		t.Fatal("expected write failure to surface to the caller")
	}

	// The in-memory mutation stands; a later successful call writes through.
	m.WriteErr = nil
	if err := p.MarkItemCompleted(ctx, "go-101", "basics", "b"); err != nil {
		t.Fatalf("expected recovery on next call, got %v", err)
	}
	if got := p.CompletedCount("go-101"); got != 2 {
		t.Errorf("expected both completions retained, got %d", got)
	}
}

func TestPersistence_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	src := service.StaticCatalog{Cat: testCatalog()}

	p := service.NewProgressService(ctx, m, src, discard())
	p.MarkItemCompleted(ctx, "go-101", "basics", "a")

	reloaded := service.NewProgressService(ctx, m, src, discard())
	if !reloaded.IsItemCompleted("a") {
		t.Error("expected completion to survive a restart")
	}
	if got := reloaded.CompletionPercentage("go-101"); got != 25 {
		t.Errorf("expected 25%% after restart, got %d", got)
	}
}
