package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chxlky/boardflow/board"
	"github.com/chxlky/boardflow/internal/models"
)

// SyncMove pushes a card's current local position to the remote store. It
// reads the snapshot at call time (never a stale capture from when the drag
// began), anchors the position on the card's immediate neighbors and lets the
// server compute a rank between them. On success and on failure alike the
// board is refreshed: success normalizes server-assigned ranks, failure
// overwrites the optimistic preview with last-known-good server state.
func (e *Engine) SyncMove(ctx context.Context, cardID string) error {
	b := e.store.Current()
	columnID := board.Locate(cardID, b)
	if columnID == "" || columnID == cardID {
		e.log.Error("cannot sync a card with no owning column", zap.String("cardID", cardID))
		return fmt.Errorf("card %s has no owning column", cardID)
	}

	list := b.Lists[columnID]
	index := board.IndexOf(list, cardID)

	var before, after *string
	if index > 0 {
		id := list[index-1]
		before = &id
	}
	if index >= 0 && index < len(list)-1 {
		id := list[index+1]
		after = &id
	}

	err := e.remote.MoveCard(ctx, e.boardID, cardID, models.MoveRequest{
		ToColumnID:   columnID,
		BeforeCardID: before,
		AfterCardID:  after,
	})
	if err != nil {
		e.log.Warn("move rejected by board store, reverting to server state",
			zap.String("cardID", cardID), zap.Error(err))
	}
	return e.refreshAfter(ctx, err)
}
