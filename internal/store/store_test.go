package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "first segment"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "second segment"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestSaveBlankTextIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, ""); err != nil {
		t.Fatalf("Save(\"\") error = %v", err)
	}
	if err := s.Save(ctx, "   "); err != nil {
		t.Fatalf("Save(blank) error = %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after blank saves, want 0", n)
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		if err := s.Save(ctx, text); err != nil {
			t.Fatalf("Save(%q) error = %v", text, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 || got[0] != "three" || got[1] != "two" {
		t.Errorf("Recent(2) = %v, want [three two]", got)
	}
}

func TestSaveQuotedText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	text := `it's a "quoted" line; DROP TABLE transcriptions`
	if err := s.Save(ctx, text); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 || got[0] != text {
		t.Errorf("Recent(1) = %v, want the saved text unchanged", got)
	}
}
