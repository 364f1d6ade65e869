package models

import "time"

// Column is a named bucket of cards. Order is used only to arrange columns on
// the board; it says nothing about card ordering inside the column.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Card is a single work item. Rank is assigned by the server as a tie-break
// hint between syncs; clients display cards in list order, never by Rank.
type Card struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"columnId"`
	Rank        float64    `json:"rank"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Board is the full server state of one board. Lists maps a column id to the
// ordered card ids it owns; that ordering is the single source of display
// order on the client.
type Board struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Version int64               `json:"version"`
	Columns []Column            `json:"columns"`
	Cards   map[string]Card     `json:"cards"`
	Lists   map[string][]string `json:"columnCards"`
}

// Clone returns a deep copy. Snapshot transforms clone first so the previous
// board value stays valid for anyone still holding it.
func (b *Board) Clone() *Board {
	out := &Board{
		ID:      b.ID,
		Name:    b.Name,
		Version: b.Version,
		Columns: append([]Column(nil), b.Columns...),
		Cards:   make(map[string]Card, len(b.Cards)),
		Lists:   make(map[string][]string, len(b.Lists)),
	}
	for id, card := range b.Cards {
		out.Cards[id] = card
	}
	for id, list := range b.Lists {
		out.Lists[id] = append([]string(nil), list...)
	}
	return out
}
