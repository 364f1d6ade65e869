// Package engine wraps every remote write in the optimistic-mutation
// discipline: apply a local preview where one makes sense, issue a single
// network attempt, then refresh the full board from the server so the
// snapshot always converges on server truth, success or not.
package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/chxlky/boardflow/board"
	"github.com/chxlky/boardflow/internal/models"
)

// ErrLastColumn rejects deleting a board's only remaining column. The
// presentation layer is expected to disable the action; this is the
// defensive backstop.
var ErrLastColumn = errors.New("a board must keep at least one column")

// RemoteStore is the abstract transport to the authoritative board store.
// Implemented by integrations.BoardStoreClient.
type RemoteStore interface {
	FetchBoard(ctx context.Context, boardID string) (*models.Board, error)
	AddColumn(ctx context.Context, boardID, title string) error
	RenameColumn(ctx context.Context, boardID, columnID, title string) error
	DeleteColumn(ctx context.Context, boardID, columnID string, mode models.DeleteMode) error
	CreateCard(ctx context.Context, boardID string, req models.CreateCardRequest) error
	UpdateCard(ctx context.Context, boardID, cardID string, patch models.CardPatch) error
	DeleteCard(ctx context.Context, boardID, cardID string) error
	MoveCard(ctx context.Context, boardID, cardID string, req models.MoveRequest) error
}

type Engine struct {
	boardID string
	store   *board.Store
	remote  RemoteStore
	log     *zap.Logger
}

func New(boardID string, store *board.Store, remote RemoteStore, log *zap.Logger) *Engine {
	return &Engine{boardID: boardID, store: store, remote: remote, log: log}
}

// Refresh replaces the snapshot with fresh server state. Every mutating path
// ends here; the refresh is what reconciles optimistic previews with truth.
func (e *Engine) Refresh(ctx context.Context) error {
	b, err := e.remote.FetchBoard(ctx, e.boardID)
	if err != nil {
		return err
	}
	e.store.Replace(b)
	return nil
}

// refreshAfter runs the mandatory post-mutation refresh and keeps the
// mutation's own error as the primary one. A preview must never outlive a
// failed call unreported, so a failed refresh is logged even when the
// mutation itself failed first.
func (e *Engine) refreshAfter(ctx context.Context, opErr error) error {
	if err := e.Refresh(ctx); err != nil {
		e.log.Error("failed to refresh board after mutation", zap.String("boardID", e.boardID), zap.Error(err))
		if opErr == nil {
			return err
		}
	}
	return opErr
}
