package disruptor

import (
	"runtime"
	"sync"
	"time"
)

// AlertChecker exposes the ability to test whether a cooperative
// cancellation request is pending. SequenceBarrier implements this
// interface; wait strategies and claim strategies accept one so the same
// alert can be observed from both the consumer wait path and the producer
// claim path.
type AlertChecker interface {
	CheckAlert() error
}

// noopAlertChecker never reports an alert; it is the default for a
// Sequencer that has not been wired to a SequenceBarrier.
type noopAlertChecker struct{}

func (noopAlertChecker) CheckAlert() error { return nil }

// WaitStrategy is the pluggable policy for how a consumer waits for the
// cursor to reach a requested sequence. The set of implementations below
// is closed and dispatched through this interface; a caller-supplied type
// satisfying WaitStrategy is a supported extension point.
type WaitStrategy interface {
	// WaitFor blocks until cursor.Get() >= sequence or alert reports a
	// pending cancellation, returning the observed cursor value. On alert
	// it returns the last observed cursor together with the alert error.
	WaitFor(sequence int64, cursor *Sequence, alert AlertChecker) (int64, error)

	// SignalAllWhenBlocking wakes any goroutine parked in WaitFor. Called
	// after every publish and by SequenceBarrier.Alert. Strategies that
	// never park may implement this as a no-op.
	SignalAllWhenBlocking()
}

// BlockingWaitStrategy parks waiting goroutines on a condition variable
// and wakes them on publish or alert. It is the only strategy that
// requires the internal lock; the lock is never held across ring access,
// only around the condition wait/signal.
type BlockingWaitStrategy struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewBlockingWaitStrategy returns a ready-to-use blocking wait strategy.
func NewBlockingWaitStrategy() *BlockingWaitStrategy {
	w := &BlockingWaitStrategy{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// WaitFor blocks on the condition variable until the cursor reaches
// sequence or the barrier is alerted.
func (w *BlockingWaitStrategy) WaitFor(sequence int64, cursor *Sequence, alert AlertChecker) (int64, error) {
	if c := cursor.Get(); c >= sequence {
		return c, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if c := cursor.Get(); c >= sequence {
			return c, nil
		}
		if err := alert.CheckAlert(); err != nil {
			return cursor.Get(), err
		}
		w.cond.Wait()
	}
}

// SignalAllWhenBlocking wakes every goroutine parked in WaitFor.
func (w *BlockingWaitStrategy) SignalAllWhenBlocking() {
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

// BusySpinWaitStrategy re-reads the cursor in a tight loop with no
// yielding at all. Lowest latency, highest CPU cost; appropriate only when
// a core can be dedicated to the waiting consumer.
type BusySpinWaitStrategy struct{}

// NewBusySpinWaitStrategy returns a busy-spin wait strategy.
func NewBusySpinWaitStrategy() *BusySpinWaitStrategy {
	return &BusySpinWaitStrategy{}
}

// WaitFor spins until the cursor reaches sequence or the barrier is
// alerted.
func (BusySpinWaitStrategy) WaitFor(sequence int64, cursor *Sequence, alert AlertChecker) (int64, error) {
	for {
		if c := cursor.Get(); c >= sequence {
			return c, nil
		}
		if err := alert.CheckAlert(); err != nil {
			return cursor.Get(), err
		}
	}
}

// SignalAllWhenBlocking is a no-op: BusySpinWaitStrategy never parks.
func (BusySpinWaitStrategy) SignalAllWhenBlocking() {}

// YieldingWaitStrategy spins a fixed number of times, then falls back to
// runtime.Gosched between checks — a middle ground between BusySpin's CPU
// cost and Sleeping's latency.
type YieldingWaitStrategy struct{}

// NewYieldingWaitStrategy returns a yielding wait strategy.
func NewYieldingWaitStrategy() *YieldingWaitStrategy {
	return &YieldingWaitStrategy{}
}

// WaitFor spins, then yields, until the cursor reaches sequence or the
// barrier is alerted.
func (YieldingWaitStrategy) WaitFor(sequence int64, cursor *Sequence, alert AlertChecker) (int64, error) {
	counter := spinThreshold
	for {
		if c := cursor.Get(); c >= sequence {
			return c, nil
		}
		if err := alert.CheckAlert(); err != nil {
			return cursor.Get(), err
		}
		if counter == 0 {
			runtime.Gosched()
		} else {
			counter--
		}
	}
}

// SignalAllWhenBlocking is a no-op: YieldingWaitStrategy never parks.
func (YieldingWaitStrategy) SignalAllWhenBlocking() {}

// SleepingWaitStrategy spins, then yields, then parks for a short,
// doubling duration — the lowest CPU cost of the four strategies, at the
// price of the highest worst-case latency.
type SleepingWaitStrategy struct{}

// NewSleepingWaitStrategy returns a sleeping wait strategy.
func NewSleepingWaitStrategy() *SleepingWaitStrategy {
	return &SleepingWaitStrategy{}
}

// WaitFor spins, yields, then sleeps with doubling backoff until the
// cursor reaches sequence or the barrier is alerted.
func (SleepingWaitStrategy) WaitFor(sequence int64, cursor *Sequence, alert AlertChecker) (int64, error) {
	attempt := 0
	for {
		if c := cursor.Get(); c >= sequence {
			return c, nil
		}
		if err := alert.CheckAlert(); err != nil {
			return cursor.Get(), err
		}
		attempt = backoffPause(attempt)
	}
}

// SignalAllWhenBlocking is a no-op: SleepingWaitStrategy never parks on a
// condition variable, only time.Sleep, which always wakes on its own.
func (SleepingWaitStrategy) SignalAllWhenBlocking() {}

// WaitForTimeout runs strategy's WaitFor but gives up after timeout,
// returning ErrTimeout with the last observed cursor if the deadline
// passes before sequence becomes available. Callers must re-check the
// returned sequence against their own requirement.
func WaitForTimeout(strategy WaitStrategy, sequence int64, cursor *Sequence, alert AlertChecker, timeout time.Duration) (int64, error) {
	done := make(chan struct{})
	var result int64
	var resultErr error
	go func() {
		result, resultErr = strategy.WaitFor(sequence, cursor, alert)
		close(done)
	}()

	select {
	case <-done:
		return result, resultErr
	case <-time.After(timeout):
		return cursor.Get(), ErrTimeout
	}
}
