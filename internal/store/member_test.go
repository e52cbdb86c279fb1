package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dukerupert/ghosthunt/internal/database"
	"github.com/dukerupert/ghosthunt/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMemberReplaceAll(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	members := []model.Member{
		{Name: "Hong Gildong", StudentID: "S001"},
		{Name: "Kim Yeonghee", StudentID: "S002"},
	}
	if err := ms.ReplaceAll(members); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	n, err := ms.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestMemberReplaceAllSwapsRoster(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	if err := ms.ReplaceAll([]model.Member{{Name: "Hong Gildong", StudentID: "S001"}}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := ms.ReplaceAll([]model.Member{{Name: "Kim Yeonghee", StudentID: "S002"}}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	gone, err := ms.FindByNameAndID("Hong Gildong", "S001")
	if err != nil {
		t.Fatalf("find old member: %v", err)
	}
	if gone != nil {
		t.Error("expected old roster row to be gone after replace")
	}

	m, err := ms.FindByNameAndID("Kim Yeonghee", "S002")
	if err != nil {
		t.Fatalf("find new member: %v", err)
	}
	if m == nil {
		t.Fatal("expected new roster row after replace")
	}
}

func TestMemberReplaceAllEmpty(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	if err := ms.ReplaceAll([]model.Member{{Name: "Hong Gildong", StudentID: "S001"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := ms.ReplaceAll(nil); err != nil {
		t.Fatalf("replace with empty set: %v", err)
	}

	n, err := ms.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestMemberReplaceAllAtomicUnderConcurrentReads(t *testing.T) {
	// Concurrent readers need an on-disk database: each pooled connection to
	// :memory: would see its own empty tables with this driver.
	db, err := database.Open(filepath.Join(t.TempDir(), "members.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ms := NewMemberStore(db)

	rosterA := make([]model.Member, 30)
	for i := range rosterA {
		rosterA[i] = model.Member{Name: fmt.Sprintf("Student A%d", i), StudentID: fmt.Sprintf("A%03d", i)}
	}
	rosterB := make([]model.Member, 17)
	for i := range rosterB {
		rosterB[i] = model.Member{Name: fmt.Sprintf("Student B%d", i), StudentID: fmt.Sprintf("B%03d", i)}
	}

	if err := ms.ReplaceAll(rosterA); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 25; i++ {
			next := rosterA
			if i%2 == 0 {
				next = rosterB
			}
			if err := ms.ReplaceAll(next); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	// A reader racing the swaps must always observe one full roster, never
	// the deleted-but-not-yet-inserted state.
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("replace all: %v", err)
			}
			return
		default:
		}

		n, err := ms.Count()
		if err != nil {
			t.Fatalf("count during reload: %v", err)
		}
		if n != len(rosterA) && n != len(rosterB) {
			t.Fatalf("observed partial roster: count = %d, want %d or %d",
				n, len(rosterA), len(rosterB))
		}
		if _, err := ms.FindByNameAndID("Student A0", "A000"); err != nil {
			t.Fatalf("find during reload: %v", err)
		}
	}
}

func TestMemberFindByNameAndID(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	if err := ms.ReplaceAll([]model.Member{{Name: "Hong Gildong", StudentID: "S001"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	m, err := ms.FindByNameAndID("Hong Gildong", "S001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m == nil {
		t.Fatal("expected member, got nil")
	}
	if m.StudentID != "S001" {
		t.Errorf("student_id = %q, want %q", m.StudentID, "S001")
	}
}

func TestMemberFindRequiresBothFields(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	if err := ms.ReplaceAll([]model.Member{{Name: "Hong Gildong", StudentID: "S001"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	m, err := ms.FindByNameAndID("Hong Gildong", "S999")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m != nil {
		t.Error("expected nil for mismatched student id")
	}

	m, err = ms.FindByNameAndID("Someone Else", "S001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m != nil {
		t.Error("expected nil for mismatched name")
	}
}
