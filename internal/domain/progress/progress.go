package progress

import (
	"math"
	"time"
)

// VideoProgress tracks how far into a video item the learner has watched.
type VideoProgress struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Completed   bool    `json:"completed"`
}

// ItemProgress is the per-item progress record. The completion timestamp is
// the sole source of truth for "completed"; sub-state (a partially watched
// video, a visited link) may exist without it.
type ItemProgress struct {
	ItemID      string         `json:"item_id"`
	LessonID    string         `json:"lesson_id"`
	CourseID    string         `json:"course_id"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Video       *VideoProgress `json:"video_progress,omitempty"`
	PDFOpened   bool           `json:"pdf_opened,omitempty"`
	URLVisited  bool           `json:"url_visited,omitempty"`
}

// Completed reports whether the item carries a completion timestamp.
func (ip *ItemProgress) Completed() bool {
	return ip != nil && ip.CompletedAt != nil
}

// CourseProgress is the per-course aggregate. CompletedCount and Percentage
// are derived from CompletedItems and the catalog's current item total; they
// are stored for fast reads and recomputed on every mutation.
type CourseProgress struct {
	CourseID       string    `json:"course_id"`
	EnrolledAt     time.Time `json:"enrolled_at"`
	LastViewedAt   time.Time `json:"last_viewed_at"`
	LastLessonID   string    `json:"last_lesson_id,omitempty"`
	LastItemID     string    `json:"last_item_id,omitempty"`
	CompletedItems []string  `json:"completed_items"`
	TotalItems     int       `json:"total_items"`
	CompletedCount int       `json:"completed_count"`
	Percentage     int       `json:"progress_percentage"`
}

// HasCompleted reports whether itemID is in the course's completed set.
func (cp *CourseProgress) HasCompleted(itemID string) bool {
	for _, id := range cp.CompletedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// Recompute refreshes the derived fields from CompletedItems and the given
// catalog item total. totalItems == 0 yields 0%, never a division by zero.
func (cp *CourseProgress) Recompute(totalItems int) {
	cp.TotalItems = totalItems
	cp.CompletedCount = len(cp.CompletedItems)
	cp.Percentage = Percentage(cp.CompletedCount, totalItems)
}

// Percentage is round(100 * completed / total), with total == 0 mapping to 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Snapshot is the whole persisted progress aggregate: every course and item
// record for the single local user. It is read and written as one document.
type Snapshot struct {
	Courses      map[string]*CourseProgress `json:"courses"`
	Items        map[string]*ItemProgress   `json:"items"`
	LastActivity time.Time                  `json:"last_activity"`
}

// NewSnapshot returns an empty aggregate, the state of a brand-new learner
// and the fallback when the persisted document is missing or unreadable.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Courses: make(map[string]*CourseProgress),
		Items:   make(map[string]*ItemProgress),
	}
}

// Normalize ensures the maps are non-nil after JSON decoding.
func (s *Snapshot) Normalize() {
	if s.Courses == nil {
		s.Courses = make(map[string]*CourseProgress)
	}
	if s.Items == nil {
		s.Items = make(map[string]*ItemProgress)
	}
}

// Course returns the aggregate for courseID, or (nil, false).
func (s *Snapshot) Course(courseID string) (*CourseProgress, bool) {
	cp, ok := s.Courses[courseID]
	return cp, ok
}

// ItemCompleted reports whether the item has a completion timestamp.
func (s *Snapshot) ItemCompleted(itemID string) bool {
	return s.Items[itemID].Completed()
}
