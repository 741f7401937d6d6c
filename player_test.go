package main

import "testing"

func TestEntityUpsertReplacesWholeRecord(t *testing.T) {
	s := newEntityStore()
	s.upsert(Entity{ID: "p1", X: 10, Y: 20, Name: "alice", Avatar: "fox", Moving: true})
	// A later record with fewer interesting fields still wins wholesale.
	s.upsert(Entity{ID: "p1", X: 30, Y: 40, Facing: DirLeft})

	e, ok := s.get("p1")
	if !ok {
		t.Fatal("entity missing after upsert")
	}
	if e.X != 30 || e.Y != 40 || e.Facing != DirLeft {
		t.Fatalf("unexpected entity %+v", e)
	}
	if e.Name != "" || e.Moving {
		t.Fatalf("old fields survived a replace: %+v", e)
	}
}

func TestEntityRemoveUnknownIsNoop(t *testing.T) {
	s := newEntityStore()
	s.remove("never-seen")
	if s.count() != 0 {
		t.Fatalf("count = %d", s.count())
	}
}

func TestEntityDepartureCleanup(t *testing.T) {
	s := newEntityStore()
	s.upsert(Entity{ID: "p1"})
	s.upsert(Entity{ID: "p2"})
	s.remove("p1")

	if _, ok := s.get("p1"); ok {
		t.Fatal("p1 still present after remove")
	}
	seen := 0
	s.forEach(func(e *Entity) {
		if e.ID == "p1" {
			t.Fatal("p1 visited after remove")
		}
		seen++
	})
	if seen != 1 {
		t.Fatalf("visited %d entities, want 1", seen)
	}
}

func TestEntityReplaceAll(t *testing.T) {
	s := newEntityStore()
	s.upsert(Entity{ID: "old"})
	s.replaceAll([]Entity{{ID: "a"}, {ID: "b"}})

	if _, ok := s.get("old"); ok {
		t.Fatal("stale entity survived replaceAll")
	}
	if s.count() != 2 {
		t.Fatalf("count = %d, want 2", s.count())
	}
}
