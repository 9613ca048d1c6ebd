package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()

	a, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func archivedReport(url string) *model.CombinedReport {
	return &model.CombinedReport{
		Input: model.NewURLInput(url),
		Classification: model.ClassificationResult{
			Kind:       model.InputURL,
			Confidence: model.ConfidenceHigh,
		},
		AnalyzedAt: time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Branches: []model.BranchResult{
			{Name: model.BranchSEO, Status: model.BranchRan, FormattedText: "text"},
		},
	}
}

// TestSaveAndGet tests the round trip through the archive.
func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	ctx := context.Background()

	report := archivedReport("https://example.com")
	if err := a.Save(ctx, "abc-123", report); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := a.Get(ctx, "abc-123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Input.URL != "https://example.com" {
		t.Errorf("Input.URL = %q", got.Input.URL)
	}
	if len(got.Branches) != 1 || got.Branches[0].Name != model.BranchSEO {
		t.Errorf("Branches = %+v", got.Branches)
	}
}

// TestGetMissing tests the sentinel for unknown ids.
func TestGetMissing(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	if _, err := a.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

// TestSaveReplacesSameID tests that re-saving an id replaces the record.
func TestSaveReplacesSameID(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	ctx := context.Background()

	if err := a.Save(ctx, "id-1", archivedReport("https://old.example.com")); err != nil {
		t.Fatal(err)
	}
	if err := a.Save(ctx, "id-1", archivedReport("https://new.example.com")); err != nil {
		t.Fatal(err)
	}

	got, err := a.Get(ctx, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Input.URL != "https://new.example.com" {
		t.Errorf("Input.URL = %q, want replacement", got.Input.URL)
	}
}

// TestLatestAndListTargets tests target-based queries.
func TestLatestAndListTargets(t *testing.T) {
	t.Parallel()

	a := openTestArchive(t)
	ctx := context.Background()

	for i, id := range []string{"a1", "a2", "b1"} {
		url := "https://a.example.com"
		if i == 2 {
			url = "https://b.example.com"
		}
		if err := a.Save(ctx, id, archivedReport(url)); err != nil {
			t.Fatal(err)
		}
	}

	targets, err := a.ListTargets(ctx)
	if err != nil {
		t.Fatalf("ListTargets() error = %v", err)
	}
	if len(targets) != 2 {
		t.Errorf("ListTargets() = %v, want 2 targets", targets)
	}

	if _, err := a.Latest(ctx, "https://a.example.com"); err != nil {
		t.Errorf("Latest() error = %v", err)
	}
	if _, err := a.Latest(ctx, "https://missing.example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

// TestOpenRequiresExisting tests mode=rw refusal for missing archives.
func TestOpenRequiresExisting(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	if err == nil {
		t.Error("Open() should fail when the archive does not exist")
	}
}
