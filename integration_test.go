package disruptor

import (
	"errors"
	"testing"
	"time"
)

// TestProducerConsumerPipeline exercises the full claim/publish/barrier
// protocol end to end: one producer publishing events through a
// Publisher, one consumer draining them through a SequenceBarrier and
// advancing its own gating sequence so the producer can reuse slots.
func TestProducerConsumerPipeline(t *testing.T) {
	ring, err := NewRing(16, func() testEvent { return testEvent{} })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sequencer, err := NewSequencer(16, SingleProducer, NewBlockingWaitStrategy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	consumerSequence := NewSequence(unknownSequenceValue)
	if err := sequencer.AddGatingSequences(consumerSequence); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	barrier := sequencer.NewBarrier()
	publisher := NewPublisher(ring, sequencer)

	const totalEvents = 200
	processed := make(chan int64, totalEvents)

	go func() {
		nextToProcess := int64(0)
		for nextToProcess < totalEvents {
			available, err := barrier.WaitFor(nextToProcess)
			if err != nil {
				return
			}
			for ; nextToProcess <= available; nextToProcess++ {
				processed <- ring.Get(nextToProcess).Value
				consumerSequence.Set(nextToProcess)
			}
		}
	}()

	for i := int64(0); i < totalEvents; i++ {
		if err := publisher.PublishEvent(func(slot *testEvent, sequence int64) {
			slot.Value = sequence
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for i := int64(0); i < totalEvents; i++ {
		select {
		case got := <-processed:
			if got != i {
				t.Errorf("expected event %d in order, got %d", i, got)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

// TestDependentConsumerStage exercises a two-stage DAG: a downstream
// consumer barrier depends on both the producer cursor and an upstream
// consumer's progress sequence, so it never processes an event the
// upstream stage hasn't finished with yet.
func TestDependentConsumerStage(t *testing.T) {
	ring, err := NewRing(16, func() testEvent { return testEvent{} })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sequencer, err := NewSequencer(16, SingleProducer, NewBusySpinWaitStrategy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upstreamSequence := NewSequence(unknownSequenceValue)
	downstreamSequence := NewSequence(unknownSequenceValue)
	if err := sequencer.AddGatingSequences(downstreamSequence); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upstreamBarrier := sequencer.NewBarrier()
	downstreamBarrier := sequencer.NewBarrier(upstreamSequence)
	publisher := NewPublisher(ring, sequencer)

	if err := publisher.PublishEvent(func(slot *testEvent, sequence int64) {
		slot.Value = sequence
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	downstreamDone := make(chan int64, 1)
	go func() {
		available, err := downstreamBarrier.WaitFor(0)
		if err != nil {
			return
		}
		downstreamDone <- available
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-downstreamDone:
		t.Fatal("expected downstream to still be blocked behind unfinished upstream stage")
	default:
	}

	// Upstream finishes the event; downstream should now be free to run.
	upstreamSequence.Set(0)
	downstreamSequence.Set(0)

	if _, err := upstreamBarrier.WaitFor(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case available := <-downstreamDone:
		if available != 0 {
			t.Errorf("expected available 0, got %d", available)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for downstream to unblock")
	}
}

// TestAlertUnblocksBusySpinningConsumer confirms a busy-spinning consumer
// parked on a future sequence returns promptly once the barrier is
// alerted, rather than spinning until the process exits.
func TestAlertUnblocksBusySpinningConsumer(t *testing.T) {
	cursor := NewSequence(unknownSequenceValue)
	barrier := newSequenceBarrier(NewBusySpinWaitStrategy(), cursor, nil)

	result := make(chan error, 1)
	go func() {
		_, err := barrier.WaitFor(100)
		result <- err
	}()

	time.Sleep(10 * time.Millisecond)
	barrier.Alert()

	select {
	case err := <-result:
		if !errors.Is(err, ErrAlert) {
			t.Errorf("expected ErrAlert, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert to unblock consumer")
	}
}
