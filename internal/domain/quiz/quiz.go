package quiz

import "errors"

// ErrQuizNotFound is returned when an operation references a quiz id with no
// matching definition. Unlike read-path misses elsewhere in the engine this
// is a hard error: scoring against a missing definition is an integration
// bug, not a recoverable runtime condition.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrAlreadySubmitted is returned when an attempt is submitted twice.
// Attempts are graded exactly once; the guard also keeps a time-limit
// auto-submission from racing a manual one.
var ErrAlreadySubmitted = errors.New("attempt already submitted")

// QuestionType distinguishes the supported question kinds.
type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single-choice"
	QuestionTypeTrueFalse    QuestionType = "true-false"
)

// Question is one quiz question. CorrectAnswer holds either a string or a
// JSON number (float64): an option index for single-choice questions, or
// "true"/"false" for true-false ones, exactly as the config document
// encodes it.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer any          `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        int          `json:"points"`
}

// Quiz is a graded assessment attached to a course.
type Quiz struct {
	ID           string     `json:"id"`
	CourseID     string     `json:"courseId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	PassingScore int        `json:"passingScore"`         // percentage, 0-100
	TimeLimit    int        `json:"timeLimit,omitempty"`  // minutes, 0 = none
	Questions    []Question `json:"questions"`
}

// Set is a read-only collection of quiz definitions loaded from the quiz
// config document.
type Set struct {
	Quizzes []Quiz `json:"quizzes"`
}

// ByID returns the quiz with the given id.
func (s *Set) ByID(quizID string) (*Quiz, bool) {
	for i := range s.Quizzes {
		if s.Quizzes[i].ID == quizID {
			return &s.Quizzes[i], true
		}
	}
	return nil, false
}

// ByCourse returns the quiz attached to a course.
func (s *Set) ByCourse(courseID string) (*Quiz, bool) {
	for i := range s.Quizzes {
		if s.Quizzes[i].CourseID == courseID {
			return &s.Quizzes[i], true
		}
	}
	return nil, false
}
