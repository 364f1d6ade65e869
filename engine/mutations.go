package engine

import (
	"context"

	"github.com/chxlky/boardflow/board"
	"github.com/chxlky/boardflow/internal/models"
)

// The create/rename/delete/update family. Rename, update and delete have a
// local preview; create and column deletion do not, because their outcome
// (server-assigned identity, card reassignment) is determined remotely. Every
// call ends in a refresh either way, so a failed call cannot leave a preview
// standing as a silent lie.

func (e *Engine) AddColumn(ctx context.Context, title string) error {
	err := e.remote.AddColumn(ctx, e.boardID, title)
	return e.refreshAfter(ctx, err)
}

func (e *Engine) RenameColumn(ctx context.Context, columnID, title string) error {
	e.store.Apply(func(b *models.Board) *models.Board {
		return board.RenameColumn(b, columnID, title)
	})
	err := e.remote.RenameColumn(ctx, e.boardID, columnID, title)
	return e.refreshAfter(ctx, err)
}

// DeleteColumn removes a column, either reassigning its cards to the first
// remaining column or deleting them with it. Deleting the last column is
// rejected before any network call.
func (e *Engine) DeleteColumn(ctx context.Context, columnID string, mode models.DeleteMode) error {
	if len(e.store.Current().Columns) < 2 {
		return ErrLastColumn
	}
	err := e.remote.DeleteColumn(ctx, e.boardID, columnID, mode)
	return e.refreshAfter(ctx, err)
}

func (e *Engine) CreateCard(ctx context.Context, req models.CreateCardRequest) error {
	err := e.remote.CreateCard(ctx, e.boardID, req)
	return e.refreshAfter(ctx, err)
}

func (e *Engine) UpdateCard(ctx context.Context, cardID string, patch models.CardPatch) error {
	e.store.Apply(func(b *models.Board) *models.Board {
		return board.PatchCard(b, cardID, patch)
	})
	err := e.remote.UpdateCard(ctx, e.boardID, cardID, patch)
	return e.refreshAfter(ctx, err)
}

func (e *Engine) DeleteCard(ctx context.Context, cardID string) error {
	e.store.Apply(func(b *models.Board) *models.Board {
		return board.RemoveCard(b, cardID)
	})
	err := e.remote.DeleteCard(ctx, e.boardID, cardID)
	return e.refreshAfter(ctx, err)
}
