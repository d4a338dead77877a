package progress_test

import (
	"testing"
	"time"

	"github.com/onboards-me/backend/internal/domain/progress"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0}, // never divide by zero
		{5, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67}, // rounds, not truncates
		{1, 2, 50},
		{10, 10, 100},
	}
	for _, c := range cases {
		if got := progress.Percentage(c.completed, c.total); got != c.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", c.completed, c.total, got, c.want)
		}
	}
}

func TestRecompute(t *testing.T) {
	cp := &progress.CourseProgress{
		CourseID:       "c1",
		CompletedItems: []string{"a", "b"},
	}
	cp.Recompute(4)

	if cp.CompletedCount != 2 {
		t.Errorf("expected completed count 2, got %d", cp.CompletedCount)
	}
	if cp.TotalItems != 4 {
		t.Errorf("expected total 4, got %d", cp.TotalItems)
	}
	if cp.Percentage != 50 {
		t.Errorf("expected 50%%, got %d", cp.Percentage)
	}
}

func TestItemProgress_Completed(t *testing.T) {
	var nilItem *progress.ItemProgress
	if nilItem.Completed() {
		t.Error("nil item progress must not be completed")
	}

	item := &progress.ItemProgress{ItemID: "a"}
	if item.Completed() {
		t.Error("item without timestamp must not be completed")
	}

	now := time.Now().UTC()
	item.CompletedAt = &now
	if !item.Completed() {
		t.Error("item with timestamp must be completed")
	}
}

func TestSnapshotNormalize(t *testing.T) {
	var snap progress.Snapshot
	snap.Normalize()

	if snap.Courses == nil || snap.Items == nil {
		t.Fatal("expected non-nil maps after Normalize")
	}
	if snap.ItemCompleted("anything") {
		t.Error("empty snapshot must report items as incomplete")
	}
}
