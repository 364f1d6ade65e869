package board

import (
	"sync"

	"github.com/chxlky/boardflow/internal/models"
)

// Store holds the current board snapshot. The snapshot is replaced wholesale
// after every successful fetch and mutated only through the pure transforms
// below, so previous board values stay immutable once handed out.
//
// The mutex only makes the pointer swap safe when a request completion lands
// on another goroutine; it deliberately does not serialize overlapping
// mutations. When several refreshes are in flight the last one to complete
// wins, which can transiently drop a newer optimistic preview. That race is
// accepted: the next refresh restores server truth.
type Store struct {
	mu    sync.RWMutex
	board *models.Board
}

func NewStore(b *models.Board) *Store {
	return &Store{board: b}
}

// Current returns the latest snapshot. Async completions must call this
// instead of acting on a board captured before the request was issued.
func (s *Store) Current() *models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Replace swaps in a freshly fetched board, superseding any local preview.
func (s *Store) Replace(b *models.Board) {
	s.mu.Lock()
	s.board = b
	s.mu.Unlock()
}

// Apply runs a pure transform against the latest snapshot and installs the
// result. Used for optimistic previews.
func (s *Store) Apply(transform func(*models.Board) *models.Board) {
	s.mu.Lock()
	s.board = transform(s.board)
	s.mu.Unlock()
}

// MoveCard detaches cardID from its current column's list, inserts it into
// toColumnID at index and points the card's ColumnID at its new owner.
// Returns b unmodified when the card has no owning column (invariant
// violation, the caller logs it) or when the target list already contains the
// card (a repeated hover event; inserting again would duplicate it).
func MoveCard(b *models.Board, cardID, toColumnID string, index int) *models.Board {
	fromColumnID := Locate(cardID, b)
	if fromColumnID == "" || fromColumnID == cardID {
		return b
	}
	if IndexOf(b.Lists[toColumnID], cardID) >= 0 {
		return b
	}
	out := b.Clone()
	out.Lists[fromColumnID] = RemoveFrom(out.Lists[fromColumnID], cardID)
	out.Lists[toColumnID] = InsertAt(out.Lists[toColumnID], index, cardID)
	card := out.Cards[cardID]
	card.ColumnID = toColumnID
	out.Cards[cardID] = card
	return out
}

// ReorderWithin moves a card between two indices of the same column list.
func ReorderWithin(b *models.Board, columnID string, fromIndex, toIndex int) *models.Board {
	if fromIndex == toIndex {
		return b
	}
	out := b.Clone()
	out.Lists[columnID] = MoveWithin(out.Lists[columnID], fromIndex, toIndex)
	return out
}

// RemoveCard drops the card from the card mapping and from every column list.
func RemoveCard(b *models.Board, cardID string) *models.Board {
	out := b.Clone()
	delete(out.Cards, cardID)
	for columnID, list := range out.Lists {
		out.Lists[columnID] = RemoveFrom(list, cardID)
	}
	return out
}

// PatchCard applies the set fields of patch to a single card.
func PatchCard(b *models.Board, cardID string, patch models.CardPatch) *models.Board {
	card, ok := b.Cards[cardID]
	if !ok {
		return b
	}
	out := b.Clone()
	if patch.Title != nil {
		card.Title = *patch.Title
	}
	if patch.Description != nil {
		card.Description = *patch.Description
	}
	if patch.Points != nil {
		card.Points = *patch.Points
	}
	out.Cards[cardID] = card
	return out
}

// RenameColumn retitles a column in place.
func RenameColumn(b *models.Board, columnID, title string) *models.Board {
	out := b.Clone()
	for i := range out.Columns {
		if out.Columns[i].ID == columnID {
			out.Columns[i].Title = title
		}
	}
	return out
}

// InsertColumn appends a column with an empty list.
func InsertColumn(b *models.Board, col models.Column) *models.Board {
	out := b.Clone()
	out.Columns = append(out.Columns, col)
	if out.Lists[col.ID] == nil {
		out.Lists[col.ID] = []string{}
	}
	return out
}

// RemoveColumn drops a column together with its list and the cards it owns.
func RemoveColumn(b *models.Board, columnID string) *models.Board {
	out := b.Clone()
	cols := out.Columns[:0]
	for _, col := range out.Columns {
		if col.ID != columnID {
			cols = append(cols, col)
		}
	}
	out.Columns = cols
	for _, cardID := range out.Lists[columnID] {
		delete(out.Cards, cardID)
	}
	delete(out.Lists, columnID)
	return out
}
