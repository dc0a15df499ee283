package disruptor

import (
	"math"
	"sync/atomic"
)

// unknownSequenceValue marks a Sequence that has never been published.
const unknownSequenceValue int64 = -1

// Sequence is a monotonically non-decreasing 64-bit counter representing a
// position in the event stream. It is padded on both sides of the atomic
// word so it never shares a cache line with a neighboring field, matching
// the padded-atomic pattern used throughout the ring-buffer ports in the
// wider Go disruptor ecosystem: 56 bytes of padding on each side of an
// 8-byte atomic fills one 64-byte cache line with room to spare for
// whatever field precedes or follows it in a containing struct.
type Sequence struct {
	_     [56]byte
	value atomic.Int64
	_     [56]byte
}

// NewSequence returns a Sequence initialized to initial. Use
// unknownSequenceValue (-1) for "no sequence published yet".
func NewSequence(initial int64) *Sequence {
	s := &Sequence{}
	s.value.Store(initial)
	return s
}

// Get performs an acquire-ordered read of the sequence value.
func (s *Sequence) Get() int64 {
	return s.value.Load()
}

// Set performs a release-ordered write. Every write to ring-buffer state
// that precedes Set in program order on the calling goroutine happens
// before any goroutine that observes the new value via Get.
func (s *Sequence) Set(value int64) {
	s.value.Store(value)
}

// CompareAndSwap atomically sets the sequence to new if it currently holds
// old, with acquire-release ordering, and reports whether the swap took
// place.
func (s *Sequence) CompareAndSwap(old, new int64) bool {
	return s.value.CompareAndSwap(old, new)
}

// IncrementAndGet atomically adds one and returns the new value.
func (s *Sequence) IncrementAndGet() int64 {
	return s.value.Add(1)
}

// AddAndGet atomically adds delta and returns the new value. Used for
// batch claims where delta is the batch size.
func (s *Sequence) AddAndGet(delta int64) int64 {
	return s.value.Add(delta)
}

// minSequence returns the lowest value among sequences, or math.MaxInt64 if
// sequences is empty — the "no constraint" identity for a minimum.
func minSequence(sequences []*Sequence) int64 {
	if len(sequences) == 0 {
		return math.MaxInt64
	}
	min := sequences[0].Get()
	for _, seq := range sequences[1:] {
		if v := seq.Get(); v < min {
			min = v
		}
	}
	return min
}
