// Package drag drives the card drag gesture: cross-column previews while the
// pointer moves, same-column reordering on drop, and the decision whether the
// final position needs to be synced to the remote store.
package drag

import (
	"context"

	"go.uber.org/zap"

	"github.com/chxlky/boardflow/board"
	"github.com/chxlky/boardflow/internal/models"
)

// EventKind tags a drag-lifecycle event.
type EventKind int

const (
	EventStart EventKind = iota
	EventOver
	EventEnd
	EventCancel
)

// Event is one gesture event. ItemID is the dragged card; TargetID is the
// card or column currently under the pointer, empty when there is none.
type Event struct {
	Kind     EventKind
	ItemID   string
	TargetID string
}

// Mover syncs a card's current position to the remote store. Implemented by
// engine.Engine.
type Mover interface {
	SyncMove(ctx context.Context, cardID string) error
}

type state int

const (
	idle state = iota
	dragging
)

// Coordinator is the drag gesture state machine. Everything it does between
// Start and End is local: previews go straight into the snapshot store and no
// network request is issued until the drop resolves to a changed position.
type Coordinator struct {
	store *board.Store
	mover Mover
	log   *zap.Logger

	state          state
	cardID         string
	sourceColumnID string
	sourceIndex    int
}

func NewCoordinator(store *board.Store, mover Mover, log *zap.Logger) *Coordinator {
	return &Coordinator{store: store, mover: mover, log: log}
}

// Handle dispatches one gesture event.
func (c *Coordinator) Handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventStart:
		c.Start(ev.ItemID)
	case EventOver:
		c.Over(ev.TargetID)
	case EventEnd:
		c.End(ctx, ev.TargetID)
	case EventCancel:
		c.Cancel()
	}
}

// Dragging reports whether a gesture is in flight.
func (c *Coordinator) Dragging() bool {
	return c.state == dragging
}

// Start begins a drag on a card, recording its current column and index as
// the origin against which the drop position is compared. Drags starting on a
// column id are rejected; columns are not draggable.
func (c *Coordinator) Start(itemID string) {
	b := c.store.Current()
	owner := board.Locate(itemID, b)
	if owner == itemID {
		c.log.Debug("ignoring drag start on a column", zap.String("columnID", itemID))
		return
	}
	if owner == "" {
		c.log.Error("drag start on a card with no owning column", zap.String("cardID", itemID))
		return
	}
	c.state = dragging
	c.cardID = itemID
	c.sourceColumnID = owner
	c.sourceIndex = board.IndexOf(b.Lists[owner], itemID)
}

// Over applies a live cross-column preview. When the hovered target belongs
// to a different column than the card currently occupies, the card migrates
// into that column at the hovered card's index (end of list when hovering the
// column itself). Hovering inside the card's own column does nothing here:
// intra-column order is resolved only at drop. Repeated events for the same
// target are no-ops.
func (c *Coordinator) Over(targetID string) {
	if c.state != dragging || targetID == "" {
		return
	}
	b := c.store.Current()
	targetColumnID := board.Locate(targetID, b)
	if targetColumnID == "" {
		return
	}
	currentColumnID := board.Locate(c.cardID, b)
	if currentColumnID == "" {
		c.log.Error("dragged card lost its owning column", zap.String("cardID", c.cardID))
		return
	}
	if targetColumnID == currentColumnID {
		return
	}
	index := len(b.Lists[targetColumnID])
	if targetID != targetColumnID {
		index = board.IndexOf(b.Lists[targetColumnID], targetID)
	}
	c.store.Apply(func(cur *models.Board) *models.Board {
		return board.MoveCard(cur, c.cardID, targetColumnID, index)
	})
}

// End finalizes the gesture. A drop inside the card's current column becomes
// an intra-column reorder; a drop with no resolvable column leaves the board
// as-is. The final (column, index) is then compared against the origin
// snapshot and handed to the Mover only when it differs.
func (c *Coordinator) End(ctx context.Context, targetID string) {
	if c.state != dragging {
		return
	}
	defer c.reset()

	if targetID == "" {
		return
	}
	b := c.store.Current()
	targetColumnID := board.Locate(targetID, b)
	if targetColumnID == "" {
		c.log.Debug("drop target resolves to no column", zap.String("targetID", targetID))
		return
	}
	currentColumnID := board.Locate(c.cardID, b)
	if currentColumnID == "" {
		c.log.Error("dragged card lost its owning column", zap.String("cardID", c.cardID))
		return
	}

	if targetColumnID == currentColumnID {
		list := b.Lists[currentColumnID]
		oldIndex := board.IndexOf(list, c.cardID)
		newIndex := len(list) - 1
		if targetID != targetColumnID {
			newIndex = board.IndexOf(list, targetID)
		}
		if oldIndex != newIndex {
			c.store.Apply(func(cur *models.Board) *models.Board {
				return board.ReorderWithin(cur, currentColumnID, oldIndex, newIndex)
			})
		}
	}

	final := c.store.Current()
	finalColumnID := board.Locate(c.cardID, final)
	finalIndex := board.IndexOf(final.Lists[finalColumnID], c.cardID)
	if finalColumnID == c.sourceColumnID && finalIndex == c.sourceIndex {
		return
	}
	if err := c.mover.SyncMove(ctx, c.cardID); err != nil {
		c.log.Error("failed to sync card move", zap.String("cardID", c.cardID), zap.Error(err))
	}
}

// Cancel abandons the gesture. Cross-column previews already applied by Over
// events are intentionally not rolled back; the next refresh restores server
// truth. See DESIGN.md.
func (c *Coordinator) Cancel() {
	c.reset()
}

func (c *Coordinator) reset() {
	c.state = idle
	c.cardID = ""
	c.sourceColumnID = ""
	c.sourceIndex = 0
}
