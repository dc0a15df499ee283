package disruptor

// SequenceBarrier is how a consumer waits for new sequences to become
// available before processing them. It tracks the producer cursor plus an
// optional set of upstream dependency sequences: WaitFor never returns a
// sequence that the slower of (cursor, dependencies) hasn't reached, which
// is how a downstream consumer stage stays behind the stages it depends
// on without its own locking.
type SequenceBarrier struct {
	wait         WaitStrategy
	cursor       *Sequence
	dependencies []*Sequence
	alerted      Sequence
}

const (
	barrierNotAlerted int64 = 0
	barrierAlerted    int64 = 1
)

// newSequenceBarrier constructs a barrier over cursor, gated additionally
// by dependencies. An empty dependencies slice means the barrier is gated
// on the producer cursor alone.
func newSequenceBarrier(wait WaitStrategy, cursor *Sequence, dependencies []*Sequence) *SequenceBarrier {
	b := &SequenceBarrier{
		wait:         wait,
		cursor:       cursor,
		dependencies: dependencies,
	}
	b.alerted.Set(barrierNotAlerted)
	return b
}

// WaitFor blocks until sequence is available to process, i.e. until the
// producer cursor has reached at least sequence and every dependency
// sequence has too. It returns the highest sequence currently known to be
// available, which may be greater than the one requested. If the barrier
// is alerted while waiting, WaitFor returns ErrAlert together with the
// last observed cursor value.
func (b *SequenceBarrier) WaitFor(sequence int64) (int64, error) {
	available, err := b.wait.WaitFor(sequence, b.cursor, b)
	if err != nil {
		return available, err
	}

	if len(b.dependencies) == 0 {
		return available, nil
	}

	attempt := 0
	for {
		if dep := minSequence(b.dependencies); dep >= sequence {
			if dep < available {
				available = dep
			}
			return available, nil
		}
		if err := b.CheckAlert(); err != nil {
			return available, err
		}
		attempt = backoffPause(attempt)
	}
}

// Cursor returns the current producer cursor value as seen by this
// barrier, without waiting.
func (b *SequenceBarrier) Cursor() int64 {
	return b.cursor.Get()
}

// Alert raises a sticky cancellation request, unblocking any goroutine
// currently parked in WaitFor with ErrAlert. The alert stays raised until
// ClearAlert is called.
func (b *SequenceBarrier) Alert() {
	b.alerted.Set(barrierAlerted)
	b.wait.SignalAllWhenBlocking()
}

// ClearAlert lowers the alert flag raised by Alert.
func (b *SequenceBarrier) ClearAlert() {
	b.alerted.Set(barrierNotAlerted)
}

// IsAlerted reports whether Alert has been called without a matching
// ClearAlert.
func (b *SequenceBarrier) IsAlerted() bool {
	return b.alerted.Get() == barrierAlerted
}

// CheckAlert implements AlertChecker: it returns ErrAlert if the barrier is
// currently alerted, nil otherwise.
func (b *SequenceBarrier) CheckAlert() error {
	if b.IsAlerted() {
		return ErrAlert
	}
	return nil
}
