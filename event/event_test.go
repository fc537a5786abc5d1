package event

import (
	"testing"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/refscope"
)

func TestQueuePushAllPreservesOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Inspect(nil))
	q.Push(Move(entity.Point{X: 0, Y: 0}, entity.Point{X: 1, Y: 0}, nil))
	q.Push(View(nil))

	got := q.All()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	want := []Type{TypeInspect, TypeMove, TypeView}
	for i, e := range got {
		if e.Type != want[i] {
			t.Fatalf("event %d: got type %q, want %q", i, e.Type, want[i])
		}
	}
}

func TestQueueHas(t *testing.T) {
	q := NewQueue()
	if q.Has(TypeHit) {
		t.Fatalf("empty queue should not have any event")
	}
	q.Push(Hit(refscope.Ref(0)))
	if !q.Has(TypeHit) {
		t.Fatalf("expected queue to have a hit event")
	}
	if q.Has(TypeHitBy) {
		t.Fatalf("queue should not report a hitBy event it never received")
	}
}

func TestQueueClearEmptiesButKeepsQueueUsable(t *testing.T) {
	q := NewQueue()
	q.Push(Inspect(nil))
	q.Clear()
	if len(q.All()) != 0 {
		t.Fatalf("expected queue to be empty after Clear")
	}
	q.Push(Move(entity.Point{}, entity.Point{X: 1}, nil))
	if !q.Has(TypeMove) {
		t.Fatalf("expected queue to accept new events after Clear")
	}
}

func TestHitByCarriesEntityRef(t *testing.T) {
	ref := refscope.Ref(7)
	e := HitBy(ref)
	if e.Type != TypeHitBy {
		t.Fatalf("expected type hitBy, got %q", e.Type)
	}
	if e.Entity != ref {
		t.Fatalf("expected hitBy event to carry the given ref")
	}
}

func TestMoveCarriesFromToAndHere(t *testing.T) {
	from := entity.Point{X: 0, Y: 0}
	to := entity.Point{X: 1, Y: 0}
	here := []refscope.Ref{1}
	e := Move(from, to, here)
	if e.From != from || e.To != to {
		t.Fatalf("expected move event to carry from/to, got %+v -> %+v", e.From, e.To)
	}
	if len(e.Here) != 1 {
		t.Fatalf("expected move event to carry here refs")
	}
}
