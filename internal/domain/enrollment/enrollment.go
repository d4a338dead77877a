package enrollment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Record is the single local user's enrollment document: who they are and
// which courses they signed up for. One record exists per installation; it
// is persisted whole and cleared only by a full reset.
type Record struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	YearsOfExperience int       `json:"years_of_experience"`
	EnrolledCourses   []string  `json:"enrolled_courses"`
	EnrolledAt        time.Time `json:"enrollment_date"`
}

// New creates an enrollment record with no course selections yet.
func New(name string, age int, email, role string, yearsOfExperience int) (*Record, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if email == "" {
		return nil, errors.New("email is required")
	}
	return &Record{
		ID:                uuid.NewString(),
		Name:              name,
		Age:               age,
		Email:             email,
		Role:              role,
		YearsOfExperience: yearsOfExperience,
		EnrolledCourses:   []string{},
		EnrolledAt:        time.Now().UTC(),
	}, nil
}

// IsEnrolledIn reports whether courseID is among the selected courses.
func (r *Record) IsEnrolledIn(courseID string) bool {
	for _, id := range r.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// AddCourse adds a course selection; adding an already-selected course is a
// no-op.
func (r *Record) AddCourse(courseID string) {
	if r.IsEnrolledIn(courseID) {
		return
	}
	r.EnrolledCourses = append(r.EnrolledCourses, courseID)
}

// RemoveCourse drops a course selection if present.
func (r *Record) RemoveCourse(courseID string) {
	kept := r.EnrolledCourses[:0]
	for _, id := range r.EnrolledCourses {
		if id != courseID {
			kept = append(kept, id)
		}
	}
	r.EnrolledCourses = kept
}
