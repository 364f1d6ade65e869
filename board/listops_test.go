package board

import (
	"reflect"
	"testing"
)

func TestInsertAtClampsIndex(t *testing.T) {
	seq := []string{"a", "b"}

	if got := InsertAt(seq, -5, "x"); !reflect.DeepEqual(got, []string{"x", "a", "b"}) {
		t.Fatalf("negative index should clamp to front, got %v", got)
	}
	if got := InsertAt(seq, 99, "x"); !reflect.DeepEqual(got, []string{"a", "b", "x"}) {
		t.Fatalf("oversized index should clamp to back, got %v", got)
	}
	if got := InsertAt(seq, 1, "x"); !reflect.DeepEqual(got, []string{"a", "x", "b"}) {
		t.Fatalf("in-range insert misplaced, got %v", got)
	}
}

func TestInsertAtDoesNotMutateInput(t *testing.T) {
	seq := []string{"a", "b", "c"}
	InsertAt(seq, 1, "x")
	if !reflect.DeepEqual(seq, []string{"a", "b", "c"}) {
		t.Fatalf("input was mutated: %v", seq)
	}
}

func TestRemoveFromAbsentItem(t *testing.T) {
	seq := []string{"a", "b"}
	got := RemoveFrom(seq, "zzz")
	if !reflect.DeepEqual(got, seq) {
		t.Fatalf("removing an absent item should return equal content, got %v", got)
	}
}

func TestRemoveFromFirstOccurrenceOnly(t *testing.T) {
	got := RemoveFrom([]string{"a", "b", "a"}, "a")
	if !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("expected only the first occurrence removed, got %v", got)
	}
}

func TestMoveWithin(t *testing.T) {
	seq := []string{"a", "b", "c"}

	if got := MoveWithin(seq, 2, 0); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("move 2->0 gave %v", got)
	}
	if got := MoveWithin(seq, 0, 2); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("move 0->2 gave %v", got)
	}
	if got := MoveWithin(seq, 1, 1); !reflect.DeepEqual(got, seq) {
		t.Fatalf("equal indices should be a no-op, got %v", got)
	}
	if got := MoveWithin(seq, 7, 0); !reflect.DeepEqual(got, seq) {
		t.Fatalf("out-of-range fromIndex should be a no-op, got %v", got)
	}
}

func TestIndexOf(t *testing.T) {
	seq := []string{"a", "b"}
	if got := IndexOf(seq, "b"); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := IndexOf(seq, "zzz"); got != -1 {
		t.Fatalf("expected -1 for absent item, got %d", got)
	}
}
