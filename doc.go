// Package disruptor implements a bounded, pre-allocated, single-ring event
// exchange for coordinating one or more producers with one or more
// dependent consumer stages, in the spirit of the LMAX Disruptor pattern.
//
// # Design
//
// The package is a coordination core only: a Ring holds pre-allocated
// slots, a Sequencer hands out monotonic sequence numbers to producers
// through a pluggable ClaimStrategy (single- or multi-producer), and
// consumers observe published sequences through a SequenceBarrier backed by
// a pluggable WaitStrategy (blocking, busy-spin, yielding, or sleeping).
// Dependent consumer stages form a DAG by naming each other's Sequence as
// a dependency and as a gating sequence for the Sequencer, so a slow
// consumer applies backpressure to producers without any lock on the fast
// path.
//
// The event-handler loop that drains a SequenceBarrier and invokes user
// callbacks, the wiring that composes handler graphs, user event payload
// types, and logging are intentionally outside this package — it exposes
// only the claim/publish/wait/barrier protocol that such collaborators are
// built on top of.
//
// # Usage
//
//	ring, _ := disruptor.NewRing(1024, func() Event { return Event{} })
//	sequencer, _ := disruptor.NewSequencer(1024, disruptor.SingleProducer,
//		disruptor.NewBlockingWaitStrategy(), nil)
//	consumed := disruptor.NewSequence(-1)
//	sequencer.AddGatingSequences(consumed)
//	barrier := sequencer.NewBarrier()
//	publisher := disruptor.NewPublisher(ring, sequencer)
//
//	publisher.PublishEvent(func(slot *Event, sequence int64) {
//		slot.Value = sequence
//	})
//
//	available, _ := barrier.WaitFor(0)
//	for seq := int64(0); seq <= available; seq++ {
//		process(ring.Get(seq))
//		consumed.Set(seq)
//	}
package disruptor
