package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/onboards-me/backend/internal/domain/catalog"
	"github.com/onboards-me/backend/internal/domain/progress"
	"github.com/onboards-me/backend/internal/store"
)

// CatalogSource hands out the current content catalog. The live
// implementation is the loader; tests plug in a static catalog.
type CatalogSource interface {
	Catalog() (*catalog.Catalog, error)
}

// StaticCatalog wraps an already-built catalog as a CatalogSource.
type StaticCatalog struct {
	Cat *catalog.Catalog
}

func (s StaticCatalog) Catalog() (*catalog.Catalog, error) {
	return s.Cat, nil
}

// videoCompletionThreshold: a video watched this far counts as completed.
const videoCompletionThreshold = 0.9

// ProgressService owns the user's progress aggregate. All mutation goes
// through its methods; every mutation recomputes the derived per-course
// fields against the catalog's current shape and persists the whole
// aggregate.
type ProgressService struct {
	store  store.Store
	source CatalogSource
	logger *slog.Logger

	mu   sync.Mutex
	snap *progress.Snapshot
}

// NewProgressService loads the persisted aggregate. A missing or corrupt
// document falls back to an empty aggregate: a learner with an unreadable
// store resumes as if new, never with a fatal error.
func NewProgressService(ctx context.Context, s store.Store, source CatalogSource, logger *slog.Logger) *ProgressService {
	snap, err := s.LoadProgress(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("starting with empty progress aggregate", "error", err)
		}
		snap = progress.NewSnapshot()
	}

	return &ProgressService{
		store:  s,
		source: source,
		logger: logger,
		snap:   snap,
	}
}

// ============================================================================
// Mutations
// ============================================================================

// MarkItemCompleted records a completion. It is idempotent: completing the
// same item twice neither double-counts nor moves the original completion
// timestamp. The course percentage is recomputed from the catalog's current
// item total on every call, so it always reflects the present catalog shape.
func (p *ProgressService) MarkItemCompleted(ctx context.Context, courseID, lessonID, itemID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completeItem(time.Now().UTC(), courseID, lessonID, itemID)
	return p.persist(ctx)
}

// MarkItemStarted records that the learner touched an item. It never
// downgrades a completed item, and it never changes the percentage; the
// course's last-viewed pointer moves regardless.
func (p *ProgressService) MarkItemStarted(ctx context.Context, courseID, lessonID, itemID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()

	ip := p.snap.Items[itemID]
	if !ip.Completed() {
		if ip == nil {
			ip = &progress.ItemProgress{ItemID: itemID, LessonID: lessonID, CourseID: courseID}
			p.snap.Items[itemID] = ip
		}
		switch p.itemType(courseID, lessonID, itemID) {
		case catalog.ItemTypePDF:
			ip.PDFOpened = true
		case catalog.ItemTypeVideo:
			// The player reports watch positions separately.
		default:
			ip.URLVisited = true
		}
	}

	p.touchCourse(now, courseID, lessonID, itemID)
	p.snap.LastActivity = now
	return p.persist(ctx)
}

// UpdateVideoProgress stores the watch position. Crossing the 90% watched
// threshold implies completion, applied exactly once no matter how often
// the player reports positions past it.
func (p *ProgressService) UpdateVideoProgress(ctx context.Context, courseID, lessonID, itemID string, currentTime, duration float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()

	ip := p.snap.Items[itemID]
	if ip == nil {
		ip = &progress.ItemProgress{ItemID: itemID, LessonID: lessonID, CourseID: courseID}
		p.snap.Items[itemID] = ip
	}
	if ip.Video == nil {
		ip.Video = &progress.VideoProgress{}
	}
	ip.Video.CurrentTime = currentTime
	ip.Video.Duration = duration

	watched := duration > 0 && currentTime/duration >= videoCompletionThreshold
	if watched {
		ip.Video.Completed = true
		if !ip.Completed() {
			p.completeItem(now, courseID, lessonID, itemID)
			return p.persist(ctx)
		}
	}

	p.snap.LastActivity = now
	return p.persist(ctx)
}

// ResetCourseProgress removes the course's progress entry and every item
// entry belonging to it, leaving other courses untouched. Item membership
// is taken from the catalog's current item set plus the entries' own course
// tag, so entries for items that have since left the catalog are swept too.
func (p *ProgressService) ResetCourseProgress(ctx context.Context, courseID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var courseItems map[string]struct{}
	if cat, err := p.source.Catalog(); err == nil {
		if course, ok := cat.Course(courseID); ok {
			courseItems = course.ItemIDs()
		}
	}

	for itemID, ip := range p.snap.Items {
		_, inCourse := courseItems[itemID]
		if inCourse || ip.CourseID == courseID {
			delete(p.snap.Items, itemID)
		}
	}
	delete(p.snap.Courses, courseID)

	p.snap.LastActivity = time.Now().UTC()
	return p.persist(ctx)
}

// Reset clears the whole progress aggregate. Part of the full reset path.
func (p *ProgressService) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snap = progress.NewSnapshot()
	if err := p.store.DeleteProgress(ctx); err != nil {
		p.logger.Error("failed to delete progress aggregate", "error", err)
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// ============================================================================
// Reads
// ============================================================================

// CourseProgress returns a copy of the per-course aggregate.
func (p *ProgressService) CourseProgress(courseID string) (progress.CourseProgress, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cp, ok := p.snap.Courses[courseID]
	if !ok {
		return progress.CourseProgress{}, false
	}
	out := *cp
	out.CompletedItems = append([]string(nil), cp.CompletedItems...)
	return out, true
}

// IsItemCompleted reports whether the item carries a completion timestamp.
// Unknown items are simply not completed.
func (p *ProgressService) IsItemCompleted(itemID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.ItemCompleted(itemID)
}

// CompletionPercentage returns the stored course percentage, 0 for unknown
// courses.
func (p *ProgressService) CompletionPercentage(courseID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cp, ok := p.snap.Courses[courseID]; ok {
		return cp.Percentage
	}
	return 0
}

// CompletedCount returns the number of completed items in a course.
func (p *ProgressService) CompletedCount(courseID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cp, ok := p.snap.Courses[courseID]; ok {
		return cp.CompletedCount
	}
	return 0
}

// LessonCompletionPercentage derives a lesson-level percentage from the
// item completion facts; it is not cached anywhere.
func (p *ProgressService) LessonCompletionPercentage(courseID, lessonID string) int {
	cat, err := p.source.Catalog()
	if err != nil {
		return 0
	}
	lesson, ok := cat.Lesson(courseID, lessonID)
	if !ok || len(lesson.LearningItems) == 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	completed := 0
	for i := range lesson.LearningItems {
		if p.snap.ItemCompleted(lesson.LearningItems[i].ID) {
			completed++
		}
	}
	return progress.Percentage(completed, len(lesson.LearningItems))
}

// VideoProgress returns the recorded watch position for a video item.
func (p *ProgressService) VideoProgress(itemID string) (progress.VideoProgress, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ip := p.snap.Items[itemID]
	if ip == nil || ip.Video == nil {
		return progress.VideoProgress{}, false
	}
	return *ip.Video, true
}

// LastViewed returns the course's last-viewed coordinate.
func (p *ProgressService) LastViewed(courseID string) (catalog.Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastViewed(courseID)
}

// RecentlyViewed lists course ids ordered by last-viewed time, newest first.
func (p *ProgressService) RecentlyViewed(limit int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	courses := make([]*progress.CourseProgress, 0, len(p.snap.Courses))
	for _, cp := range p.snap.Courses {
		courses = append(courses, cp)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].LastViewedAt.After(courses[j].LastViewedAt)
	})

	if limit > 0 && limit < len(courses) {
		courses = courses[:limit]
	}
	ids := make([]string, len(courses))
	for i, cp := range courses {
		ids[i] = cp.CourseID
	}
	return ids
}

// ResumePoint resolves where a returning learner should continue, in strict
// precedence order: the last-viewed item if it is still incomplete, else
// the item after it, else the first incomplete item in catalog order, else
// the course's first item when everything is done. A course with no items
// has no resume point.
func (p *ProgressService) ResumePoint(courseID string) (catalog.Position, bool) {
	cat, err := p.source.Catalog()
	if err != nil {
		return catalog.Position{}, false
	}
	course, ok := cat.Course(courseID)
	if !ok {
		return catalog.Position{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if last, ok := p.lastViewed(courseID); ok {
		if !p.snap.ItemCompleted(last.ItemID) {
			return last, true
		}
		if next, ok := course.Next(last.LessonID, last.ItemID); ok {
			return next, true
		}
	}

	for i := range course.Lessons {
		for j := range course.Lessons[i].LearningItems {
			item := &course.Lessons[i].LearningItems[j]
			if !p.snap.ItemCompleted(item.ID) {
				return catalog.Position{LessonID: course.Lessons[i].ID, ItemID: item.ID}, true
			}
		}
	}

	return course.First()
}

// Export returns a deep copy of the aggregate for the export document.
func (p *ProgressService) Export() *progress.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := progress.NewSnapshot()
	out.LastActivity = p.snap.LastActivity
	for id, cp := range p.snap.Courses {
		c := *cp
		c.CompletedItems = append([]string(nil), cp.CompletedItems...)
		out.Courses[id] = &c
	}
	for id, ip := range p.snap.Items {
		item := *ip
		if ip.Video != nil {
			v := *ip.Video
			item.Video = &v
		}
		out.Items[id] = &item
	}
	return out
}

// Import replaces the aggregate wholesale and persists it. A nil snapshot
// imports as empty.
func (p *ProgressService) Import(ctx context.Context, snap *progress.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if snap == nil {
		snap = progress.NewSnapshot()
	}
	snap.Normalize()
	p.snap = snap
	return p.persist(ctx)
}

// ============================================================================
// Internals
// ============================================================================

// completeItem applies the completion mutation. Caller holds the lock.
func (p *ProgressService) completeItem(now time.Time, courseID, lessonID, itemID string) {
	ip := p.snap.Items[itemID]
	if ip == nil {
		ip = &progress.ItemProgress{ItemID: itemID, LessonID: lessonID, CourseID: courseID}
		p.snap.Items[itemID] = ip
	}
	if ip.CompletedAt == nil {
		done := now
		ip.CompletedAt = &done
	}
	switch p.itemType(courseID, lessonID, itemID) {
	case catalog.ItemTypePDF:
		ip.PDFOpened = true
	case catalog.ItemTypeVideo:
		if ip.Video == nil {
			ip.Video = &progress.VideoProgress{}
		}
		ip.Video.Completed = true
	default:
		ip.URLVisited = true
	}

	cp := p.ensureCourse(now, courseID)
	if !cp.HasCompleted(itemID) {
		cp.CompletedItems = append(cp.CompletedItems, itemID)
	}
	cp.LastViewedAt = now
	cp.LastLessonID = lessonID
	cp.LastItemID = itemID
	cp.Recompute(p.totalItems(courseID))

	p.snap.LastActivity = now
}

// touchCourse moves the last-viewed pointer without touching completion.
// Caller holds the lock.
func (p *ProgressService) touchCourse(now time.Time, courseID, lessonID, itemID string) {
	cp := p.ensureCourse(now, courseID)
	cp.LastViewedAt = now
	cp.LastLessonID = lessonID
	cp.LastItemID = itemID
}

// ensureCourse returns the course aggregate, creating an empty one on first
// touch. Caller holds the lock.
func (p *ProgressService) ensureCourse(now time.Time, courseID string) *progress.CourseProgress {
	cp, ok := p.snap.Courses[courseID]
	if !ok {
		cp = &progress.CourseProgress{
			CourseID:       courseID,
			EnrolledAt:     now,
			LastViewedAt:   now,
			CompletedItems: []string{},
		}
		cp.Recompute(p.totalItems(courseID))
		p.snap.Courses[courseID] = cp
	}
	return cp
}

// totalItems reads the course's current item total from the catalog. An
// unavailable catalog or unknown course counts as zero; the percentage
// guard keeps that from dividing by zero, and the next mutation with the
// catalog present corrects the derived fields.
func (p *ProgressService) totalItems(courseID string) int {
	cat, err := p.source.Catalog()
	if err != nil {
		return 0
	}
	course, ok := cat.Course(courseID)
	if !ok {
		return 0
	}
	return course.TotalItems()
}

// itemType looks up the item's kind in the catalog. Unknown items default
// to the url kind, whose "visited" marker is the most general sub-state.
func (p *ProgressService) itemType(courseID, lessonID, itemID string) catalog.ItemType {
	cat, err := p.source.Catalog()
	if err != nil {
		return catalog.ItemTypeURL
	}
	if item, ok := cat.Item(courseID, lessonID, itemID); ok {
		return item.Type
	}
	return catalog.ItemTypeURL
}

func (p *ProgressService) lastViewed(courseID string) (catalog.Position, bool) {
	cp, ok := p.snap.Courses[courseID]
	if !ok || cp.LastLessonID == "" || cp.LastItemID == "" {
		return catalog.Position{}, false
	}
	return catalog.Position{LessonID: cp.LastLessonID, ItemID: cp.LastItemID}, true
}

// persist writes the whole aggregate. Failures are reported to the caller
// and not retried; the in-memory state keeps the mutation, so a later
// successful mutation writes it through.
func (p *ProgressService) persist(ctx context.Context) error {
	if err := p.store.SaveProgress(ctx, p.snap); err != nil {
		p.logger.Error("failed to persist progress", "error", err)
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}
