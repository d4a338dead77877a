package catalog_test

import (
	"testing"

	"github.com/onboards-me/backend/internal/domain/catalog"
)

func TestCatalogLookups(t *testing.T) {
	cat := &catalog.Catalog{
		Courses: []catalog.Course{
			{
				ID: "go-101",
				Lessons: []catalog.Lesson{
					{
						ID: "basics",
						LearningItems: []catalog.LearningItem{
							{ID: "intro", Type: catalog.ItemTypeVideo},
							{ID: "tour", Type: catalog.ItemTypeURL},
						},
					},
					{
						ID: "tooling",
						LearningItems: []catalog.LearningItem{
							{ID: "cheatsheet", Type: catalog.ItemTypePDF},
						},
					},
				},
			},
		},
	}

	course, ok := cat.Course("go-101")
	if !ok {
		t.Fatal("expected to find course go-101")
	}
	if got := course.TotalItems(); got != 3 {
		t.Errorf("expected 3 total items, got %d", got)
	}

	if _, ok := cat.Course("missing"); ok {
		t.Error("expected missing course to not resolve")
	}

	lesson, ok := cat.Lesson("go-101", "tooling")
	if !ok || lesson.ID != "tooling" {
		t.Fatalf("expected lesson tooling, got %v (ok=%v)", lesson, ok)
	}

	item, ok := cat.Item("go-101", "basics", "tour")
	if !ok || item.Type != catalog.ItemTypeURL {
		t.Fatalf("expected url item tour, got %v (ok=%v)", item, ok)
	}

	if _, ok := cat.Item("go-101", "basics", "cheatsheet"); ok {
		t.Error("item lookup must be scoped to its lesson")
	}

	ids := course.ItemIDs()
	if len(ids) != 3 {
		t.Errorf("expected 3 item ids, got %d", len(ids))
	}
	if _, ok := ids["cheatsheet"]; !ok {
		t.Error("expected cheatsheet in item id set")
	}
}

func TestEmptyCatalog(t *testing.T) {
	cat := catalog.Empty()
	if _, ok := cat.Course("anything"); ok {
		t.Error("empty catalog must not resolve courses")
	}
}
