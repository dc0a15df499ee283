package disruptor

import (
	"runtime"
	"time"
)

// Staged backoff thresholds shared by the claim path (ClaimStrategy) and
// the Sleeping/Yielding wait strategies: a tight spin first, since most
// waits under realistic load resolve within a few iterations, then a
// scheduler yield, then a short doubling sleep so a genuinely stalled
// gating consumer doesn't burn a core spinning forever.
const (
	spinThreshold  = 100
	yieldThreshold = 100
	maxSleepShift  = 10 // caps the doubling sleep at 1<<10 microseconds (~1ms)
)

// backoffPause performs one staged backoff step for the given attempt
// counter and returns the incremented counter. Callers loop, re-checking
// their condition between calls.
func backoffPause(attempt int) int {
	switch {
	case attempt < spinThreshold:
		// Tight spin: the caller's own condition re-check is the pause.
	case attempt < spinThreshold+yieldThreshold:
		runtime.Gosched()
	default:
		shift := attempt - spinThreshold - yieldThreshold
		if shift > maxSleepShift {
			shift = maxSleepShift
		}
		time.Sleep(time.Duration(1<<uint(shift)) * time.Microsecond)
	}
	return attempt + 1
}
