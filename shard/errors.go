package shard

import (
	"errors"

	"github.com/boopworld/boopworld/input"
)

// Error kinds raised by a Shard (§7). Component-level errors
// (InvalidMove, NoThunk, ObsoleteHandle, InvalidWaitFor) raised while a
// mind steps are caught at the mind-step boundary and converted into a
// reap Remnant rather than propagated. ErrShardFull and ErrRevokedInput
// reach callers as ordinary errors, and New returns ErrObsoleteHandle
// when the build callback uses a handle past its valid scope.
var (
	// ErrShardFull is returned by Entity.Create when the store has
	// exhausted its hard capacity.
	ErrShardFull = errors.New("boopworld: shard is full")

	// ErrRevokedInput is returned by a Push function bound to an entity
	// whose INPUT component has since been replaced or destroyed. It is
	// the same value as input.ErrRevoked.
	ErrRevokedInput = input.ErrRevoked

	// ErrInvalidMove is recorded (never returned to callers) when a task
	// submits a move outside the five-member alphabet; the offending mind
	// is reaped with ok=false.
	ErrInvalidMove = errors.New("boopworld: invalid move")

	// ErrNoThunk is recorded when a mind is stepped with no thunk set.
	ErrNoThunk = errors.New("boopworld: mind has no thunk")

	// ErrObsoleteHandle is recorded when a mind-step, build, or control
	// call panics via the guard package's capability check (a captured
	// handle used past its turn/generation). guard.Run catches the panic:
	// at the mind-step boundary it becomes the Remnant's Reason, New
	// returns it for the build call, and the control call site logs it;
	// it never propagates out of Update as a panic.
	ErrObsoleteHandle = errors.New("boopworld: handle used past its valid scope")
)
