package models

// DeleteMode selects what happens to a deleted column's cards.
type DeleteMode string

const (
	DeleteModeMoveCards   DeleteMode = "move_cards"
	DeleteModeDeleteCards DeleteMode = "delete_cards"
)

func (m DeleteMode) Valid() bool {
	return m == DeleteModeMoveCards || m == DeleteModeDeleteCards
}

type CreateBoardRequest struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

type ColumnRequest struct {
	Title string `json:"title"`
}

type CreateCardRequest struct {
	ColumnID    string `json:"columnId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// CardPatch carries only the fields the caller wants to change.
type CardPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Points      *int    `json:"points,omitempty"`
}

// MoveRequest places a card by naming its new neighbors instead of a numeric
// index. BeforeCardID is the immediate predecessor (nil when the card lands
// first), AfterCardID the immediate successor (nil when it lands last). The
// server derives a rank between the two, so the request stays valid even when
// concurrent edits have shifted positions elsewhere in the list.
type MoveRequest struct {
	ToColumnID   string  `json:"toColumnId"`
	BeforeCardID *string `json:"beforeCardId"`
	AfterCardID  *string `json:"afterCardId"`
}
