package board

import "github.com/chxlky/boardflow/internal/models"

// Locate resolves the column that owns itemID. A column id resolves to
// itself, which is how drops onto a column header or empty body are handled.
// Otherwise the column whose ordered list contains itemID is returned.
//
// An empty result means the item exists nowhere on the board. For a card id
// that is an invariant violation (every card belongs to exactly one list);
// callers must log it and abort the operation rather than guess a container.
func Locate(itemID string, b *models.Board) string {
	for _, col := range b.Columns {
		if col.ID == itemID {
			return col.ID
		}
	}
	for _, col := range b.Columns {
		if IndexOf(b.Lists[col.ID], itemID) >= 0 {
			return col.ID
		}
	}
	return ""
}
