package disruptor

import (
	"fmt"
	"sync/atomic"
)

// ProducerKind selects the claim strategy a Sequencer uses internally.
type ProducerKind int

const (
	// SingleProducer selects SingleProducerClaimStrategy. The caller must
	// guarantee that only one goroutine ever calls Next/TryNext/Publish on
	// the resulting Sequencer.
	SingleProducer ProducerKind = iota

	// MultiProducer selects MultiProducerClaimStrategy, safe for any
	// number of concurrent producer goroutines.
	MultiProducer
)

// SequencerConfig holds the knobs that change Sequencer's behavior beyond
// the producer kind and wait strategy.
type SequencerConfig struct {
	// RequireGatingSequences, when true (the default), makes Next/TryNext
	// fail fast with ErrIllegalArgument if called before AddGatingSequences
	// has registered at least one consumer sequence: with no gating
	// sequence a producer could run the whole ring ahead of every
	// consumer and silently overwrite unread slots. Set to false to permit
	// an ungated Sequencer, e.g. for a producer-only benchmark harness
	// where wraparound is an accepted risk rather than a bug.
	RequireGatingSequences bool
}

// DefaultSequencerConfig returns the config used when a nil *SequencerConfig
// is passed to NewSequencer: RequireGatingSequences is true.
func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{RequireGatingSequences: true}
}

// SequenceBatch is a contiguous run of claimed sequences returned by
// NextN/TryNextN.
type SequenceBatch struct {
	start int64
	end   int64
}

// Start returns the first sequence in the batch.
func (b SequenceBatch) Start() int64 { return b.start }

// End returns the last sequence in the batch.
func (b SequenceBatch) End() int64 { return b.end }

// Size returns the number of sequences in the batch.
func (b SequenceBatch) Size() int64 { return b.end - b.start + 1 }

// Sequencer is the single coordination point for claiming and publishing
// positions in a ring. It owns the producer cursor, the registered
// consumer gating sequences that bound how far a producer may run ahead,
// and (for MultiProducer) the availability bitmap that lets the cursor
// only advance past a claimed slot once it has actually been published,
// so out-of-order publish completion among concurrent producers cannot
// expose a half-written slot to consumers.
type Sequencer struct {
	capacity   int64
	indexMask  int64
	indexShift uint

	claim ClaimStrategy
	wait  WaitStrategy
	kind  ProducerKind

	cursor Sequence

	gating    []*Sequence
	gatingSet bool

	config SequencerConfig
	alert  AlertChecker

	claimStarted atomic.Bool

	// availableBuffer tracks, per slot, which "lap" around the ring last
	// published into it. A slot is available for sequence seq once
	// availableBuffer[seq&indexMask] == seq>>indexShift. Only used by
	// MultiProducer; SingleProducer advances the cursor directly since
	// there is only ever one publisher to serialize against.
	availableBuffer []atomic.Int32
}

// NewSequencer allocates a Sequencer over a ring of the given capacity
// (must already be a power of two, as returned by Ring.Capacity). If
// config is nil, DefaultSequencerConfig is used.
func NewSequencer(capacity int64, kind ProducerKind, wait WaitStrategy, config *SequencerConfig) (*Sequencer, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: capacity must be a positive power of two, got %d", ErrIllegalArgument, capacity)
	}
	if capacity > maxCapacity {
		return nil, fmt.Errorf("%w: capacity %d exceeds maximum of %d", ErrIllegalArgument, capacity, maxCapacity)
	}
	if wait == nil {
		return nil, fmt.Errorf("%w: wait strategy must not be nil", ErrIllegalArgument)
	}

	cfg := DefaultSequencerConfig()
	if config != nil {
		cfg = *config
	}

	s := &Sequencer{
		capacity:   capacity,
		indexMask:  capacity - 1,
		indexShift: log2(capacity),
		wait:       wait,
		kind:       kind,
		config:     cfg,
		alert:      noopAlertChecker{},
	}
	s.cursor.Set(unknownSequenceValue)

	switch kind {
	case SingleProducer:
		s.claim = NewSingleProducerClaimStrategy()
	case MultiProducer:
		s.claim = NewMultiProducerClaimStrategy()
		s.availableBuffer = make([]atomic.Int32, capacity)
		for i := range s.availableBuffer {
			s.availableBuffer[i].Store(-1)
		}
	default:
		return nil, fmt.Errorf("%w: unknown producer kind %d", ErrIllegalArgument, kind)
	}

	return s, nil
}

// AddGatingSequences registers consumer sequences that bound how far a
// producer may claim ahead of the slowest reader. It must be called
// before the first call to Next/TryNext/NextN/TryNextN; calling it after
// claiming has started returns ErrIllegalArgument, since a claim strategy
// already mid-spin against the old gating set would not observe a set
// registered afterward.
func (s *Sequencer) AddGatingSequences(sequences ...*Sequence) error {
	if s.claimStarted.Load() {
		return fmt.Errorf("%w: gating sequences must be registered before the first claim", ErrIllegalArgument)
	}
	s.gating = append(s.gating, sequences...)
	s.gatingSet = true
	return nil
}

// SetAlertChecker wires an AlertChecker (typically a SequenceBarrier
// returned by NewBarrier) so that Next/NextN can return promptly with
// ErrAlert while spinning for capacity, instead of spinning forever
// against a gating consumer that has been asked to shut down.
func (s *Sequencer) SetAlertChecker(alert AlertChecker) {
	if alert == nil {
		s.alert = noopAlertChecker{}
		return
	}
	s.alert = alert
}

// Cursor returns the current producer cursor: the highest sequence that
// has completed publish.
func (s *Sequencer) Cursor() int64 {
	return s.cursor.Get()
}

// Capacity returns the ring capacity this sequencer coordinates against.
func (s *Sequencer) Capacity() int64 {
	return s.capacity
}

// Next claims the next single sequence, blocking until room is available
// against the registered gating sequences.
func (s *Sequencer) Next() (int64, error) {
	batch, err := s.NextN(1)
	if err != nil {
		return 0, err
	}
	return batch.End(), nil
}

// NextN claims the next n contiguous sequences, blocking until room is
// available. RequireGatingSequences in the config governs whether this
// fails fast when no gating sequence has ever been registered.
func (s *Sequencer) NextN(n int64) (SequenceBatch, error) {
	if n <= 0 {
		return SequenceBatch{}, fmt.Errorf("%w: n must be positive, got %d", ErrIllegalArgument, n)
	}
	if s.config.RequireGatingSequences && !s.gatingSet {
		return SequenceBatch{}, fmt.Errorf("%w: Next called with no gating sequences registered", ErrIllegalArgument)
	}
	s.claimStarted.Store(true)

	end, err := s.claim.Claim(n, s.gating, s.capacity, s.alert)
	if err != nil {
		return SequenceBatch{}, err
	}
	return SequenceBatch{start: end - n + 1, end: end}, nil
}

// TryNext attempts to claim the next single sequence without blocking.
func (s *Sequencer) TryNext() (int64, bool, error) {
	batch, ok, err := s.TryNextN(1)
	if err != nil || !ok {
		return 0, ok, err
	}
	return batch.End(), true, nil
}

// TryNextN attempts to claim n contiguous sequences without blocking. ok
// is false, with ErrInsufficientCapacity, if the ring currently has no room.
func (s *Sequencer) TryNextN(n int64) (SequenceBatch, bool, error) {
	if n <= 0 {
		return SequenceBatch{}, false, fmt.Errorf("%w: n must be positive, got %d", ErrIllegalArgument, n)
	}
	if s.config.RequireGatingSequences && !s.gatingSet {
		return SequenceBatch{}, false, fmt.Errorf("%w: TryNext called with no gating sequences registered", ErrIllegalArgument)
	}
	s.claimStarted.Store(true)

	end, ok := s.claim.TryClaim(n, s.gating, s.capacity)
	if !ok {
		return SequenceBatch{}, false, ErrInsufficientCapacity
	}
	return SequenceBatch{start: end - n + 1, end: end}, true, nil
}

// Publish makes sequence visible to consumers. For SingleProducer this
// simply advances the cursor, since there is only one publisher to
// serialize against. For MultiProducer it marks the slot available and
// advances the cursor only as far as a contiguous run of published slots
// reaches, so a consumer never observes a gap left by a slower concurrent
// producer.
func (s *Sequencer) Publish(sequence int64) {
	s.PublishBatch(SequenceBatch{start: sequence, end: sequence})
}

// PublishBatch makes every sequence in batch visible to consumers in one
// step. Equivalent to calling Publish for each sequence in the batch, but
// avoids redundant cursor-advance work for MultiProducer.
func (s *Sequencer) PublishBatch(batch SequenceBatch) {
	if s.kind == SingleProducer {
		s.cursor.Set(batch.end)
		s.wait.SignalAllWhenBlocking()
		return
	}

	for seq := batch.start; seq <= batch.end; seq++ {
		s.setAvailable(seq)
	}
	s.advanceCursorMultiProducer(batch.start)
	s.wait.SignalAllWhenBlocking()
}

// Claim directly sets the claim strategy's internal counter to sequence
// without publishing, used to resynchronize a SingleProducer sequencer
// after sequences are established by an external source (e.g. replay).
func (s *Sequencer) Claim(sequence int64) error {
	return s.claim.Force(sequence)
}

// ForcePublish sets both the claim counter and the cursor directly to
// sequence, bypassing the normal claim/publish protocol. Only supported
// for SingleProducer, matching the restriction on ClaimStrategy.Force.
func (s *Sequencer) ForcePublish(sequence int64) error {
	if err := s.claim.Force(sequence); err != nil {
		return err
	}
	s.cursor.Set(sequence)
	s.wait.SignalAllWhenBlocking()
	return nil
}

// NewBarrier returns a SequenceBarrier gated on this sequencer's cursor
// plus the given upstream dependency sequences, sharing this sequencer's
// wait strategy.
func (s *Sequencer) NewBarrier(dependencies ...*Sequence) *SequenceBarrier {
	return newSequenceBarrier(s.wait, &s.cursor, dependencies)
}

func (s *Sequencer) availabilityIndex(sequence int64) int64 {
	return sequence & s.indexMask
}

func (s *Sequencer) availabilityFlag(sequence int64) int32 {
	return int32(sequence >> s.indexShift)
}

func (s *Sequencer) setAvailable(sequence int64) {
	s.availableBuffer[s.availabilityIndex(sequence)].Store(s.availabilityFlag(sequence))
}

func (s *Sequencer) isAvailable(sequence int64) bool {
	return s.availableBuffer[s.availabilityIndex(sequence)].Load() == s.availabilityFlag(sequence)
}

// advanceCursorMultiProducer moves the cursor forward past the longest
// contiguous run of available slots starting just after the current
// cursor (from is not used by the scan), using a CAS loop so
// concurrent publishers racing to advance the same cursor never move it
// backward and never double-count a run another goroutine already
// advanced past.
func (s *Sequencer) advanceCursorMultiProducer(from int64) {
	for {
		current := s.cursor.Get()
		next := current
		for candidate := current + 1; s.isAvailable(candidate); candidate++ {
			next = candidate
		}
		if next == current {
			return
		}
		if s.cursor.CompareAndSwap(current, next) {
			return
		}
		// Another producer advanced the cursor concurrently; re-check
		// from its new position rather than overwrite progress.
	}
}
