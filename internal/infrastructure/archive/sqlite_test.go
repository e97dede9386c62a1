package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"HNDigest/internal/domain"
)

func openTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()

	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestSaveAndRecentRecords(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	ctx := context.Background()

	first := domain.SummaryRecord{
		Title:          "First",
		URL:            "https://example.org/1",
		ArticleSummary: "summary one",
		CommentSummary: "comments one",
		Author:         "alice",
		Score:          10,
		PostedAt:       time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC),
	}
	second := domain.SummaryRecord{Title: "Second", Author: "bob", Score: 5, PostedAt: time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)}

	if err := a.SaveRecord(ctx, first); err != nil {
		t.Fatalf("SaveRecord error: %v", err)
	}
	if err := a.SaveRecord(ctx, second); err != nil {
		t.Fatalf("SaveRecord error: %v", err)
	}

	records, err := a.RecentRecords(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRecords error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Newest insert first.
	if records[0].Title != "Second" || records[1].Title != "First" {
		t.Fatalf("unexpected order: %q, %q", records[0].Title, records[1].Title)
	}

	got := records[1]
	if got.ArticleSummary != "summary one" || got.Score != 10 || got.Author != "alice" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if !got.PostedAt.Equal(first.PostedAt) {
		t.Fatalf("posted-at mismatch: %v vs %v", got.PostedAt, first.PostedAt)
	}
}

func TestRecentRecordsHonorsLimit(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		record := domain.SummaryRecord{Title: "r", PostedAt: time.Now()}
		if err := a.SaveRecord(ctx, record); err != nil {
			t.Fatalf("SaveRecord error: %v", err)
		}
	}

	records, err := a.RecentRecords(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRecords error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestDuplicateSavesAreNotCollapsed(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	ctx := context.Background()

	record := domain.SummaryRecord{Title: "Same", PostedAt: time.Now()}
	if err := a.SaveRecord(ctx, record); err != nil {
		t.Fatalf("SaveRecord error: %v", err)
	}
	if err := a.SaveRecord(ctx, record); err != nil {
		t.Fatalf("SaveRecord error: %v", err)
	}

	records, err := a.RecentRecords(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRecords error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("archive must not deduplicate, got %d rows", len(records))
	}
}
