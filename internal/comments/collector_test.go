package comments

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"HNDigest/internal/domain"
)

// fakeSource serves canned comment records, optionally delaying specific ids
// to shuffle completion order.
type fakeSource struct {
	items  map[int]*domain.Item
	delays map[int]time.Duration
	calls  atomic.Int64
}

func (f *fakeSource) TopItemIDs(ctx context.Context, limit int) ([]int, error) {
	return nil, nil
}

func (f *fakeSource) Item(ctx context.Context, id int) (*domain.Item, error) {
	f.calls.Add(1)
	if d, ok := f.delays[id]; ok {
		time.Sleep(d)
	}
	return f.items[id], nil
}

func comment(id int, by, text string, kids ...int) *domain.Item {
	return &domain.Item{ID: id, By: by, Text: text, Kids: kids}
}

func TestCollectDepthBound(t *testing.T) {
	t.Parallel()

	source := &fakeSource{items: map[int]*domain.Item{1: comment(1, "a", "hello")}}
	collector := NewCollector(source)

	lines, err := collector.Collect(context.Background(), []int{1}, 3)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty result past the depth bound, got %v", lines)
	}
	if source.calls.Load() != 0 {
		t.Fatalf("expected no fetches past the depth bound, got %d", source.calls.Load())
	}
}

func TestCollectDropsTextlessNodesAndDescendants(t *testing.T) {
	t.Parallel()

	source := &fakeSource{items: map[int]*domain.Item{
		1: comment(1, "a", "", 2), // textless parent announces a child
		2: comment(2, "b", "orphaned"),
		3: comment(3, "c", "kept"),
	}}
	collector := NewCollector(source)

	lines, err := collector.Collect(context.Background(), []int{1, 3}, 0)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(lines), lines)
	}
	if lines[0] != "c: kept" {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	for _, line := range lines {
		if strings.Contains(line, "orphaned") {
			t.Fatalf("descendant of textless node leaked into output: %q", line)
		}
	}
}

func TestCollectPreservesSiblingOrder(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		items: map[int]*domain.Item{
			1: comment(1, "a", "first"),
			2: comment(2, "b", "second"),
			3: comment(3, "c", "third"),
		},
		// Let the first sibling finish last.
		delays: map[int]time.Duration{1: 30 * time.Millisecond},
	}
	collector := NewCollector(source)

	lines, err := collector.Collect(context.Background(), []int{1, 2, 3}, 0)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	want := []string{"a: first", "b: second", "c: third"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCollectEmbedsChildrenInParentBlock(t *testing.T) {
	t.Parallel()

	source := &fakeSource{items: map[int]*domain.Item{
		1: comment(1, "a", "root", 2, 3),
		2: comment(2, "b", "reply", 4),
		3: comment(3, "c", "also"),
		4: comment(4, "d", "deep"),
	}}
	collector := NewCollector(source)

	lines, err := collector.Collect(context.Background(), []int{1}, 0)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected one contiguous block, got %d", len(lines))
	}
	want := "a: root\nb: reply\nd: deep\nc: also"
	if lines[0] != want {
		t.Fatalf("got %q, want %q", lines[0], want)
	}
}

func TestCollectParentWithTextlessChildrenYieldsSingleLine(t *testing.T) {
	t.Parallel()

	source := &fakeSource{items: map[int]*domain.Item{
		1: comment(1, "a", "lonely", 2, 3),
		2: comment(2, "b", ""),
		3: nil,
	}}
	collector := NewCollector(source)

	lines, err := collector.Collect(context.Background(), []int{1}, 0)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(lines) != 1 || lines[0] != "a: lonely" {
		t.Fatalf("expected single line without trailing block, got %v", lines)
	}
}

func TestCollectStopsRecursionThreeLevelsDown(t *testing.T) {
	t.Parallel()

	source := &fakeSource{items: map[int]*domain.Item{
		1: comment(1, "a", "d0", 2),
		2: comment(2, "b", "d1", 3),
		3: comment(3, "c", "d2", 4),
		4: comment(4, "d", "d3"),
	}}
	collector := NewCollector(source)

	lines, err := collector.Collect(context.Background(), []int{1}, 0)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected one block, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "d2") {
		t.Fatalf("depth 2 should still render: %q", lines[0])
	}
	if strings.Contains(lines[0], "d3") {
		t.Fatalf("depth 3 must not render: %q", lines[0])
	}
}
