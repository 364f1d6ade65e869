package drag

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/chxlky/boardflow/board"
	"github.com/chxlky/boardflow/internal/models"
)

type fakeMover struct {
	synced []string
	err    error
}

func (f *fakeMover) SyncMove(_ context.Context, cardID string) error {
	f.synced = append(f.synced, cardID)
	return f.err
}

func testBoard() *models.Board {
	return &models.Board{
		ID: "b1",
		Columns: []models.Column{
			{ID: "todo", Title: "To Do", Order: 0},
			{ID: "done", Title: "Done", Order: 1},
		},
		Cards: map[string]models.Card{
			"c1": {ID: "c1", ColumnID: "todo"},
			"c2": {ID: "c2", ColumnID: "todo"},
			"c3": {ID: "c3", ColumnID: "todo"},
		},
		Lists: map[string][]string{
			"todo": {"c1", "c2", "c3"},
			"done": {},
		},
	}
}

func newCoordinator(b *models.Board) (*Coordinator, *board.Store, *fakeMover) {
	store := board.NewStore(b)
	mover := &fakeMover{}
	return NewCoordinator(store, mover, zap.NewNop()), store, mover
}

func TestDragOntoEmptyColumnSyncsMove(t *testing.T) {
	// Scenario: drag the first To Do card onto the empty Done column.
	b := testBoard()
	b.Lists["todo"] = []string{"c1", "c2"}
	delete(b.Cards, "c3")
	c, store, mover := newCoordinator(b)
	ctx := context.Background()

	c.Handle(ctx, Event{Kind: EventStart, ItemID: "c1"})
	if !c.Dragging() {
		t.Fatal("drag should be in flight")
	}

	c.Handle(ctx, Event{Kind: EventOver, ItemID: "c1", TargetID: "done"})
	cur := store.Current()
	if !reflect.DeepEqual(cur.Lists["todo"], []string{"c2"}) || !reflect.DeepEqual(cur.Lists["done"], []string{"c1"}) {
		t.Fatalf("over preview wrong: todo=%v done=%v", cur.Lists["todo"], cur.Lists["done"])
	}
	if cur.Cards["c1"].ColumnID != "done" {
		t.Fatalf("ColumnID not migrated: %q", cur.Cards["c1"].ColumnID)
	}

	c.Handle(ctx, Event{Kind: EventEnd, ItemID: "c1", TargetID: "done"})
	if !reflect.DeepEqual(mover.synced, []string{"c1"}) {
		t.Fatalf("expected one sync for c1, got %v", mover.synced)
	}
	if c.Dragging() {
		t.Fatal("drag should have ended")
	}
}

func TestRepeatedOverIsIdempotent(t *testing.T) {
	c, store, _ := newCoordinator(testBoard())

	c.Start("c1")
	c.Over("done")
	c.Over("done")
	cur := store.Current()
	if !reflect.DeepEqual(cur.Lists["done"], []string{"c1"}) {
		t.Fatalf("duplicate insertion after repeated over: %v", cur.Lists["done"])
	}
}

func TestOverInsertsAtHoveredCardIndex(t *testing.T) {
	b := testBoard()
	b.Lists["done"] = []string{"c3"}
	b.Lists["todo"] = []string{"c1", "c2"}
	card := b.Cards["c3"]
	card.ColumnID = "done"
	b.Cards["c3"] = card

	c, store, _ := newCoordinator(b)
	c.Start("c1")
	c.Over("c3")
	if got := store.Current().Lists["done"]; !reflect.DeepEqual(got, []string{"c1", "c3"}) {
		t.Fatalf("expected insertion at the hovered card's index, got %v", got)
	}
}

func TestOverInsideOwnColumnDoesNothing(t *testing.T) {
	c, store, _ := newCoordinator(testBoard())
	c.Start("c3")
	c.Over("c1")
	if got := store.Current().Lists["todo"]; !reflect.DeepEqual(got, []string{"c1", "c2", "c3"}) {
		t.Fatalf("intra-column over must not reorder, got %v", got)
	}
}

func TestDropReordersWithinColumn(t *testing.T) {
	// Scenario: drag c3 and drop it on c1 in the same column.
	c, store, mover := newCoordinator(testBoard())
	ctx := context.Background()

	c.Start("c3")
	c.End(ctx, "c1")

	if got := store.Current().Lists["todo"]; !reflect.DeepEqual(got, []string{"c3", "c1", "c2"}) {
		t.Fatalf("expected [c3 c1 c2], got %v", got)
	}
	if !reflect.DeepEqual(mover.synced, []string{"c3"}) {
		t.Fatalf("index changed, a sync is due; got %v", mover.synced)
	}
}

func TestDropOnColumnBodyMovesToEnd(t *testing.T) {
	c, store, mover := newCoordinator(testBoard())
	c.Start("c1")
	c.End(context.Background(), "todo")

	if got := store.Current().Lists["todo"]; !reflect.DeepEqual(got, []string{"c2", "c3", "c1"}) {
		t.Fatalf("expected [c2 c3 c1], got %v", got)
	}
	if len(mover.synced) != 1 {
		t.Fatalf("expected a sync, got %v", mover.synced)
	}
}

func TestDropOnOriginPositionSkipsSync(t *testing.T) {
	c, store, mover := newCoordinator(testBoard())

	c.Start("c1")
	c.End(context.Background(), "c1")

	if got := store.Current().Lists["todo"]; !reflect.DeepEqual(got, []string{"c1", "c2", "c3"}) {
		t.Fatalf("board should be unchanged, got %v", got)
	}
	if len(mover.synced) != 0 {
		t.Fatalf("unchanged position must not sync, got %v", mover.synced)
	}
}

func TestStartOnColumnIsRejected(t *testing.T) {
	c, _, _ := newCoordinator(testBoard())
	c.Start("todo")
	if c.Dragging() {
		t.Fatal("columns are not draggable")
	}
}

func TestStartOnUnknownCardIsRejected(t *testing.T) {
	c, _, _ := newCoordinator(testBoard())
	c.Start("ghost")
	if c.Dragging() {
		t.Fatal("a card outside every list must not start a drag")
	}
}

func TestEndWithoutResolvableTargetSkipsSync(t *testing.T) {
	c, store, mover := newCoordinator(testBoard())
	ctx := context.Background()

	c.Start("c1")
	c.Over("done")
	c.End(ctx, "")

	// The cross-column preview stays in place; only the sync is skipped.
	if got := store.Current().Lists["done"]; !reflect.DeepEqual(got, []string{"c1"}) {
		t.Fatalf("preview should persist, got %v", got)
	}
	if len(mover.synced) != 0 {
		t.Fatalf("no sync expected without a drop target, got %v", mover.synced)
	}
	if c.Dragging() {
		t.Fatal("drag should have ended")
	}
}

func TestCancelKeepsPreview(t *testing.T) {
	c, store, mover := newCoordinator(testBoard())

	c.Start("c1")
	c.Over("done")
	c.Cancel()

	if got := store.Current().Lists["done"]; !reflect.DeepEqual(got, []string{"c1"}) {
		t.Fatalf("cancel must not roll back the preview, got %v", got)
	}
	if len(mover.synced) != 0 || c.Dragging() {
		t.Fatal("cancel must end the drag without syncing")
	}
}

func TestSyncFailureIsSwallowed(t *testing.T) {
	c, _, mover := newCoordinator(testBoard())
	mover.err = errors.New("store unreachable")

	c.Start("c3")
	c.End(context.Background(), "c1")

	// The mover owns reconciliation; the coordinator only logs.
	if len(mover.synced) != 1 {
		t.Fatalf("sync should still have been attempted, got %v", mover.synced)
	}
}
