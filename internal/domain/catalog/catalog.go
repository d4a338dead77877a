package catalog

// ItemType identifies the kind of learning material an item points at.
type ItemType string

const (
	ItemTypeURL   ItemType = "url"
	ItemTypeVideo ItemType = "video"
	ItemTypePDF   ItemType = "pdf"
)

// LearningItem is a single piece of learning material inside a lesson.
type LearningItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Type          ItemType `json:"type"`
	URL           string   `json:"url,omitempty"`
	VideoURL      string   `json:"videoUrl,omitempty"`
	PDFURL        string   `json:"pdfUrl,omitempty"`
	EstimatedTime int      `json:"estimatedTime,omitempty"` // minutes
	Order         int      `json:"order"`
}

// Lesson is an ordered collection of learning items.
type Lesson struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Order         int            `json:"order"`
	IsFree        bool           `json:"isFree,omitempty"`
	LearningItems []LearningItem `json:"learningItems"`
}

// Course is a complete learning module: an ordered list of lessons.
//
// Lessons and items carry a numeric Order field, but it is display metadata
// only. Traversal always follows slice order as stored in the catalog
// document; the Order value is never used to re-sort.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Category    string   `json:"category,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

// Catalog is the immutable content tree the rest of the engine reads from.
// It is built once from the catalog document and never mutated.
type Catalog struct {
	Courses []Course `json:"courses"`
}

// Empty returns a catalog with no courses. Used as the safe fallback while
// the real catalog document is unavailable.
func Empty() *Catalog {
	return &Catalog{Courses: []Course{}}
}

// Course returns the course with the given id, or (nil, false).
func (c *Catalog) Course(courseID string) (*Course, bool) {
	for i := range c.Courses {
		if c.Courses[i].ID == courseID {
			return &c.Courses[i], true
		}
	}
	return nil, false
}

// Lesson returns a lesson inside a course, or (nil, false).
func (c *Catalog) Lesson(courseID, lessonID string) (*Lesson, bool) {
	course, ok := c.Course(courseID)
	if !ok {
		return nil, false
	}
	return course.Lesson(lessonID)
}

// Item returns a learning item addressed by course/lesson/item ids.
func (c *Catalog) Item(courseID, lessonID, itemID string) (*LearningItem, bool) {
	lesson, ok := c.Lesson(courseID, lessonID)
	if !ok {
		return nil, false
	}
	for i := range lesson.LearningItems {
		if lesson.LearningItems[i].ID == itemID {
			return &lesson.LearningItems[i], true
		}
	}
	return nil, false
}

// Lesson returns the lesson with the given id, or (nil, false).
func (co *Course) Lesson(lessonID string) (*Lesson, bool) {
	for i := range co.Lessons {
		if co.Lessons[i].ID == lessonID {
			return &co.Lessons[i], true
		}
	}
	return nil, false
}

// TotalItems counts every learning item across all lessons of the course.
func (co *Course) TotalItems() int {
	total := 0
	for i := range co.Lessons {
		total += len(co.Lessons[i].LearningItems)
	}
	return total
}

// ItemIDs returns the set of all learning item ids in the course.
func (co *Course) ItemIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for i := range co.Lessons {
		for j := range co.Lessons[i].LearningItems {
			ids[co.Lessons[i].LearningItems[j].ID] = struct{}{}
		}
	}
	return ids
}
