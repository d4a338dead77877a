package catalog

// Position addresses a learning item inside a course by its lesson and
// item ids. The zero value is not a valid position; use the ok flag of the
// navigation functions to distinguish "no target".
type Position struct {
	LessonID string `json:"lesson_id"`
	ItemID   string `json:"item_id"`
}

// Next returns the item following (lessonID, itemID) in traversal order:
// the next item in the same lesson, else the first item of the nearest
// following non-empty lesson. Unknown ids and the last item of the course
// both yield ok=false.
func (co *Course) Next(lessonID, itemID string) (Position, bool) {
	li, ii := co.locate(lessonID, itemID)
	if li < 0 {
		return Position{}, false
	}

	lesson := &co.Lessons[li]
	if ii < len(lesson.LearningItems)-1 {
		return Position{LessonID: lesson.ID, ItemID: lesson.LearningItems[ii+1].ID}, true
	}

	for i := li + 1; i < len(co.Lessons); i++ {
		if len(co.Lessons[i].LearningItems) > 0 {
			return Position{LessonID: co.Lessons[i].ID, ItemID: co.Lessons[i].LearningItems[0].ID}, true
		}
	}
	return Position{}, false
}

// Previous returns the item before (lessonID, itemID) in traversal order:
// the previous item in the same lesson, else the last item of the nearest
// preceding non-empty lesson.
func (co *Course) Previous(lessonID, itemID string) (Position, bool) {
	li, ii := co.locate(lessonID, itemID)
	if li < 0 {
		return Position{}, false
	}

	lesson := &co.Lessons[li]
	if ii > 0 {
		return Position{LessonID: lesson.ID, ItemID: lesson.LearningItems[ii-1].ID}, true
	}

	for i := li - 1; i >= 0; i-- {
		items := co.Lessons[i].LearningItems
		if len(items) > 0 {
			return Position{LessonID: co.Lessons[i].ID, ItemID: items[len(items)-1].ID}, true
		}
	}
	return Position{}, false
}

// First returns the first item of the first non-empty lesson, or ok=false
// when the course has no items anywhere.
func (co *Course) First() (Position, bool) {
	for i := range co.Lessons {
		if len(co.Lessons[i].LearningItems) > 0 {
			return Position{LessonID: co.Lessons[i].ID, ItemID: co.Lessons[i].LearningItems[0].ID}, true
		}
	}
	return Position{}, false
}

// locate resolves a (lessonID, itemID) coordinate to slice indexes,
// returning (-1, -1) when either id is unknown.
func (co *Course) locate(lessonID, itemID string) (lessonIdx, itemIdx int) {
	for i := range co.Lessons {
		if co.Lessons[i].ID != lessonID {
			continue
		}
		for j := range co.Lessons[i].LearningItems {
			if co.Lessons[i].LearningItems[j].ID == itemID {
				return i, j
			}
		}
		return -1, -1
	}
	return -1, -1
}
