package disruptor

import "errors"

// Sentinel error kinds returned by the coordination core. Callers should
// use errors.Is against these, since wrapped variants carry extra context
// via fmt.Errorf("%w: ...", ...).
var (
	// ErrAlert is returned by any wait path after SequenceBarrier.Alert has
	// been called. It is a cooperative cancellation signal, never a fault:
	// the caller's outer loop is expected to recover from it.
	ErrAlert = errors.New("disruptor: alerted")

	// ErrTimeout is returned by a timed wait that observed the deadline
	// before the requested sequence became available.
	ErrTimeout = errors.New("disruptor: wait timed out")

	// ErrInsufficientCapacity is returned only by the non-blocking
	// TryNext/TryNextN/TryPublishEvent paths when the ring has no room
	// against the current gating sequences. It has no side effects.
	ErrInsufficientCapacity = errors.New("disruptor: insufficient capacity")

	// ErrIllegalArgument marks programmer error: a bad capacity, a batch
	// larger than the ring, gating sequences registered after claiming has
	// started, or an
	// operation used outside the producer kind it supports. The library
	// does not attempt recovery from this class of error.
	ErrIllegalArgument = errors.New("disruptor: illegal argument")
)
