package disruptor

import "fmt"

// maxCapacity is the upper bound on ring capacity accepted by NewRing and
// NewSequencer: beyond this the index-shift arithmetic used by the
// multi-producer availability bitmap (sequencer.go) loses precision for no
// practical benefit.
const maxCapacity = 1 << 30

// EntryFactory produces one ring slot value. It is invoked exactly
// capacity times at construction; the ring never allocates a slot again
// after that.
type EntryFactory[T any] func() T

// Ring is the fixed, pre-allocated circular store of reusable slots. It
// has no concurrency of its own: every slot is protected entirely by the
// claim/publish sequence protocol implemented by Sequencer and
// SequenceBarrier. Capacity is rounded up to the next power of two so
// indexing can use a bitwise AND instead of a modulo.
type Ring[T any] struct {
	entries  []T
	mask     int64
	capacity int64
}

// NewRing allocates a Ring of at least requestedCapacity slots, rounded up
// to the next power of two, filling every slot once via factory.
func NewRing[T any](requestedCapacity int64, factory EntryFactory[T]) (*Ring[T], error) {
	capacity, err := ceilingPowerOfTwo(requestedCapacity)
	if err != nil {
		return nil, err
	}
	entries := make([]T, capacity)
	for i := range entries {
		entries[i] = factory()
	}
	return &Ring[T]{entries: entries, mask: capacity - 1, capacity: capacity}, nil
}

// Get returns the slot addressed by sequence, i.e. entries[sequence &
// mask]. The returned pointer is owned by whichever producer or consumer
// currently holds sequence under the claim/publish protocol; Ring itself
// performs no access control.
func (r *Ring[T]) Get(sequence int64) *T {
	return &r.entries[sequence&r.mask]
}

// Capacity returns the ring's fixed, power-of-two capacity.
func (r *Ring[T]) Capacity() int64 {
	return r.capacity
}

// ceilingPowerOfTwo rounds requested up to the next power of two, failing
// for non-positive input or input beyond maxCapacity.
func ceilingPowerOfTwo(requested int64) (int64, error) {
	if requested <= 0 {
		return 0, fmt.Errorf("%w: capacity must be positive, got %d", ErrIllegalArgument, requested)
	}
	if requested > maxCapacity {
		return 0, fmt.Errorf("%w: capacity %d exceeds maximum of %d", ErrIllegalArgument, requested, maxCapacity)
	}
	capacity := int64(1)
	for capacity < requested {
		capacity <<= 1
	}
	return capacity, nil
}

// log2 returns the base-2 logarithm of a power-of-two capacity, used to
// split a sequence into (round, index) for the availability bitmap.
func log2(capacity int64) uint {
	var shift uint
	for v := capacity; v > 1; v >>= 1 {
		shift++
	}
	return shift
}
