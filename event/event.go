// Package event implements the per-entity, turn-local event buffer and
// the Event variants it carries (§4.6).
package event

import (
	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/refscope"
)

// Type identifies the kind of an Event, usable as a WaitFor token.
type Type string

const (
	TypeHit     Type = "hit"
	TypeHitBy   Type = "hitBy"
	TypeMove    Type = "move"
	TypeInspect Type = "inspect"
	TypeView    Type = "view"
	TypeInput   Type = "input"
)

// Event is a tagged union over the six wire-format event variants (§6).
// Exactly one of the typed fields is meaningful, selected by Type.
type Event struct {
	Type Type

	// hit / hitBy
	Target refscope.Ref // hit
	Entity refscope.Ref // hitBy

	// move
	From, To entity.Point
	Here     []refscope.Ref // move, inspect

	// view
	View ViewportReader

	// input
	Input any
}

// ViewportReader is the read-only surface of a computed viewport attached
// to a "view" event; it is implemented by package view's Viewport.
type ViewportReader interface {
	At(p entity.Point) (glyph rune, ref refscope.Ref, ok bool)
	Radius() int
	Center() entity.Point
}

// Hit builds a "hit" event: the mover struck target.
func Hit(target refscope.Ref) Event { return Event{Type: TypeHit, Target: target} }

// HitBy builds a "hitBy" event: the receiver was struck by entity.
func HitBy(by refscope.Ref) Event { return Event{Type: TypeHitBy, Entity: by} }

// Move builds a "move" event.
func Move(from, to entity.Point, here []refscope.Ref) Event {
	return Event{Type: TypeMove, From: from, To: to, Here: here}
}

// Inspect builds an "inspect" event (a "stay" move).
func Inspect(here []refscope.Ref) Event {
	return Event{Type: TypeInspect, Here: here}
}

// View builds a "view" event.
func View(v ViewportReader) Event { return Event{Type: TypeView, View: v} }

// Input builds an "input" event.
func Input(datum any) Event { return Event{Type: TypeInput, Input: datum} }

// Queue buffers one entity's events for the current turn.
type Queue struct {
	events []Event
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue { return &Queue{} }

// Push appends e to the queue.
func (q *Queue) Push(e Event) { q.events = append(q.events, e) }

// All returns the events buffered this turn, in emission order.
func (q *Queue) All() []Event { return q.events }

// Has reports whether any buffered event matches t.
func (q *Queue) Has(t Type) bool {
	for _, e := range q.events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Clear empties the queue at turn rollover.
func (q *Queue) Clear() { q.events = q.events[:0] }
