package disruptor

import (
	"sync"
	"testing"
)

func TestSequence_InitialValue(t *testing.T) {
	s := NewSequence(unknownSequenceValue)
	if got := s.Get(); got != unknownSequenceValue {
		t.Errorf("expected initial value %d, got %d", unknownSequenceValue, got)
	}
}

func TestSequence_SetGet(t *testing.T) {
	s := NewSequence(0)
	s.Set(42)
	if got := s.Get(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestSequence_CompareAndSwap(t *testing.T) {
	s := NewSequence(10)
	if s.CompareAndSwap(11, 20) {
		t.Errorf("CAS with stale old value should have failed")
	}
	if !s.CompareAndSwap(10, 20) {
		t.Errorf("CAS with correct old value should have succeeded")
	}
	if got := s.Get(); got != 20 {
		t.Errorf("expected 20 after CAS, got %d", got)
	}
}

func TestSequence_IncrementAndGet(t *testing.T) {
	s := NewSequence(unknownSequenceValue)
	for i := int64(0); i < 5; i++ {
		if got := s.IncrementAndGet(); got != i {
			t.Errorf("expected %d, got %d", i, got)
		}
	}
}

func TestSequence_AddAndGet(t *testing.T) {
	s := NewSequence(0)
	if got := s.AddAndGet(10); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
	if got := s.AddAndGet(5); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
}

func TestSequence_ConcurrentIncrement(t *testing.T) {
	s := NewSequence(unknownSequenceValue)
	const goroutines = 50
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				s.IncrementAndGet()
			}
		}()
	}
	wg.Wait()

	want := unknownSequenceValue + int64(goroutines*perGoroutine)
	if got := s.Get(); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestMinSequence_Empty(t *testing.T) {
	if got := minSequence(nil); got != int64(1<<63-1) {
		t.Errorf("expected math.MaxInt64 for empty set, got %d", got)
	}
}

func TestMinSequence(t *testing.T) {
	a := NewSequence(30)
	b := NewSequence(10)
	c := NewSequence(20)
	if got := minSequence([]*Sequence{a, b, c}); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}
