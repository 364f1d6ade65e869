// Package board holds the in-memory mirror of a remote board: the snapshot
// store, the pure list primitives that rearrange card ids, and the locator
// that resolves which column owns an item.
package board

// InsertAt returns a copy of seq with item inserted at index. Out-of-range
// indices are clamped into [0, len(seq)]. The input is never mutated.
func InsertAt(seq []string, index int, item string) []string {
	if index < 0 {
		index = 0
	}
	if index > len(seq) {
		index = len(seq)
	}
	out := make([]string, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, item)
	out = append(out, seq[index:]...)
	return out
}

// RemoveFrom returns a copy of seq with the first occurrence of item removed.
// Absence is not an error; the copy simply matches the input.
func RemoveFrom(seq []string, item string) []string {
	out := make([]string, 0, len(seq))
	removed := false
	for _, v := range seq {
		if !removed && v == item {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out
}

// MoveWithin removes the element at fromIndex and reinserts it at toIndex.
// Equal or out-of-range fromIndex returns an unchanged copy.
func MoveWithin(seq []string, fromIndex, toIndex int) []string {
	if fromIndex == toIndex || fromIndex < 0 || fromIndex >= len(seq) {
		return append([]string(nil), seq...)
	}
	item := seq[fromIndex]
	return InsertAt(RemoveFrom(seq, item), toIndex, item)
}

// IndexOf returns the position of item in seq, or -1.
func IndexOf(seq []string, item string) int {
	for i, v := range seq {
		if v == item {
			return i
		}
	}
	return -1
}
