package disruptor

// EventTranslator writes caller data into a ring slot at the given
// sequence. It is invoked after the sequence has been claimed but before
// it is published, so the write is never observed half-done by a
// consumer.
type EventTranslator[T any] func(slot *T, sequence int64)

// Publisher is the producer-facing façade over a Ring and Sequencer pair:
// it hides the claim/write/publish protocol behind a single call so
// callers never forget the publish step or write outside the claimed
// sequence.
type Publisher[T any] struct {
	ring      *Ring[T]
	sequencer *Sequencer
}

// NewPublisher returns a Publisher over ring and sequencer. The two must
// have been constructed with matching capacity; NewPublisher does not
// itself verify this since Ring and Sequencer have no back-reference to
// each other by design.
func NewPublisher[T any](ring *Ring[T], sequencer *Sequencer) *Publisher[T] {
	return &Publisher[T]{ring: ring, sequencer: sequencer}
}

// PublishEvent claims the next sequence, invokes translate on its slot,
// and publishes it, blocking if the ring has no room against the
// registered gating sequences.
func (p *Publisher[T]) PublishEvent(translate EventTranslator[T]) error {
	sequence, err := p.sequencer.Next()
	if err != nil {
		return err
	}
	translate(p.ring.Get(sequence), sequence)
	p.sequencer.Publish(sequence)
	return nil
}

// TryPublishEvent behaves like PublishEvent but never blocks: it returns
// ErrInsufficientCapacity immediately if the ring has no room right now.
func (p *Publisher[T]) TryPublishEvent(translate EventTranslator[T]) error {
	sequence, ok, err := p.sequencer.TryNext()
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientCapacity
	}
	translate(p.ring.Get(sequence), sequence)
	p.sequencer.Publish(sequence)
	return nil
}

// PublishEvents claims a batch of n sequences, invokes translate once per
// slot in order, and publishes the whole batch in one step. Blocks if the
// ring has no room for the batch against the registered gating sequences.
func (p *Publisher[T]) PublishEvents(n int64, translate EventTranslator[T]) error {
	batch, err := p.sequencer.NextN(n)
	if err != nil {
		return err
	}
	for seq := batch.Start(); seq <= batch.End(); seq++ {
		translate(p.ring.Get(seq), seq)
	}
	p.sequencer.PublishBatch(batch)
	return nil
}

// TryPublishEvents behaves like PublishEvents but never blocks: it
// returns ErrInsufficientCapacity immediately if the ring has no room for
// the whole batch right now.
func (p *Publisher[T]) TryPublishEvents(n int64, translate EventTranslator[T]) error {
	batch, ok, err := p.sequencer.TryNextN(n)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientCapacity
	}
	for seq := batch.Start(); seq <= batch.End(); seq++ {
		translate(p.ring.Get(seq), seq)
	}
	p.sequencer.PublishBatch(batch)
	return nil
}

// Ring returns the ring this publisher writes into, for a consumer-side
// caller that wants to build its own barrier/processing loop directly
// against the same ring.
func (p *Publisher[T]) Ring() *Ring[T] {
	return p.ring
}

// Sequencer returns the sequencer backing this publisher, for a caller
// that needs to register gating sequences or build additional barriers.
func (p *Publisher[T]) Sequencer() *Sequencer {
	return p.sequencer
}
