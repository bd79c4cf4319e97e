package records

import (
	"context"
	"path/filepath"
	"testing"
)

func TestInMemoryAppendAndListOrdering(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		if err := s.Append(ctx, map[string]string{"Name": name}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	rows, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, want := range []string{"A", "B", "C"} {
		if rows[i].Data["Name"] != want {
			t.Fatalf("rows[%d].Name = %q, want %q", i, rows[i].Data["Name"], want)
		}
		if rows[i].ID != int64(i+1) {
			t.Fatalf("rows[%d].ID = %d, want %d", i, rows[i].ID, i+1)
		}
	}
}

func TestInMemoryAppendCopiesData(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	data := map[string]string{"Name": "A"}
	if err := s.Append(ctx, data); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	data["Name"] = "mutated"

	rows, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rows[0].Data["Name"] != "A" {
		t.Fatal("stored row shares memory with caller's map")
	}
}

func TestSQLiteAppendAndList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "candidates.db")

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Append(ctx, map[string]string{"Name": "Ada", "Email": "cipher-text"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Append(ctx, map[string]string{"Name": "Ada", "Phone": "cipher-text-2"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rows, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (write-every-turn, not upsert)", len(rows))
	}
	if rows[0].ID >= rows[1].ID {
		t.Fatalf("ids not monotonically increasing: %d, %d", rows[0].ID, rows[1].ID)
	}
	if rows[1].Data["Phone"] != "cipher-text-2" {
		t.Fatalf("payload round trip failed: %+v", rows[1].Data)
	}
	if rows[0].CreatedAt.IsZero() {
		t.Fatal("created_at not assigned by the store")
	}
}

func TestSQLiteSchemaPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "candidates.db")

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := s.Append(ctx, map[string]string{"Name": "Ada"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Data["Name"] != "Ada" {
		t.Fatalf("rows after reopen = %+v, want the persisted snapshot", rows)
	}
}
