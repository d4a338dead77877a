package enrollment_test

import (
	"testing"

	"github.com/onboards-me/backend/internal/domain/enrollment"
)

func TestNew(t *testing.T) {
	rec, err := enrollment.New("Ada", 30, "ada@example.com", "Developer", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ID == "" {
		t.Error("expected generated id")
	}
	if rec.EnrolledAt.IsZero() {
		t.Error("expected enrollment timestamp")
	}
	if len(rec.EnrolledCourses) != 0 {
		t.Error("expected no course selections on a fresh record")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := enrollment.New("", 30, "ada@example.com", "Developer", 5); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := enrollment.New("Ada", 30, "", "Developer", 5); err == nil {
		t.Error("expected error for empty email")
	}
}

func TestCourseSelection(t *testing.T) {
	rec, _ := enrollment.New("Ada", 30, "ada@example.com", "Developer", 5)

	rec.AddCourse("go-101")
	rec.AddCourse("go-101") // duplicate is a no-op
	rec.AddCourse("sql-201")

	if len(rec.EnrolledCourses) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(rec.EnrolledCourses))
	}
	if !rec.IsEnrolledIn("go-101") {
		t.Error("expected go-101 to be selected")
	}

	rec.RemoveCourse("go-101")
	if rec.IsEnrolledIn("go-101") {
		t.Error("expected go-101 to be removed")
	}
	if !rec.IsEnrolledIn("sql-201") {
		t.Error("expected sql-201 to survive the removal")
	}
}
