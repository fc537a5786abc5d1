package task

import (
	"errors"

	"github.com/boopworld/boopworld/event"
)

// ErrInvalidWaitFor is returned by Validate when a WaitFor tree is
// malformed (§7).
var ErrInvalidWaitFor = errors.New("boopworld: invalid waitFor")

// Kind discriminates the WaitFor grammar's variants (§4.9):
//
//	waitFor ::= event(type) | input | time(t) | any(waitFor...) | all(waitFor...)
type Kind int

const (
	KindEvent Kind = iota
	KindInput
	KindTime
	KindAny
	KindAll
)

// WaitFor is a node in the wait-condition grammar a Thunk can suspend on.
type WaitFor struct {
	Kind  Kind
	Event event.Type
	Time  int64
	Sub   []WaitFor
}

// OnEvent waits for at least one buffered event of type t this turn.
func OnEvent(t event.Type) WaitFor { return WaitFor{Kind: KindEvent, Event: t} }

// OnInput waits for at least one queued input datum.
func OnInput() WaitFor { return WaitFor{Kind: KindInput} }

// AtTime waits until the clock's time reaches t.
func AtTime(t int64) WaitFor { return WaitFor{Kind: KindTime, Time: t} }

// Any is satisfied once any one of ws is satisfied.
func Any(ws ...WaitFor) WaitFor { return WaitFor{Kind: KindAny, Sub: ws} }

// All is satisfied once every one of ws is satisfied.
func All(ws ...WaitFor) WaitFor { return WaitFor{Kind: KindAll, Sub: ws} }

// Validate reports ErrInvalidWaitFor if w or any of its descendants is
// malformed: an event() node with the zero event type, or an any()/all()
// node with no children.
func Validate(w WaitFor) error {
	switch w.Kind {
	case KindEvent:
		if w.Event == "" {
			return ErrInvalidWaitFor
		}
	case KindInput, KindTime:
		// no further shape to check
	case KindAny, KindAll:
		if len(w.Sub) == 0 {
			return ErrInvalidWaitFor
		}
		for _, s := range w.Sub {
			if err := Validate(s); err != nil {
				return err
			}
		}
	default:
		return ErrInvalidWaitFor
	}
	return nil
}

// condition bundles the turn-local facts needed to decide whether a
// WaitFor is currently satisfied.
type condition struct {
	time     int64
	events   []event.Event
	hasInput bool
}

// Runnable reports whether w is satisfied given the current time, the
// entity's buffered events this turn, and whether it has queued input.
func Runnable(w WaitFor, time int64, events []event.Event, hasInput bool) bool {
	return satisfied(w, condition{time: time, events: events, hasInput: hasInput})
}

func satisfied(w WaitFor, c condition) bool {
	switch w.Kind {
	case KindEvent:
		for _, e := range c.events {
			if e.Type == w.Event {
				return true
			}
		}
		return false
	case KindInput:
		return c.hasInput
	case KindTime:
		return c.time >= w.Time
	case KindAny:
		for _, s := range w.Sub {
			if satisfied(s, c) {
				return true
			}
		}
		return false
	case KindAll:
		for _, s := range w.Sub {
			if !satisfied(s, c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
