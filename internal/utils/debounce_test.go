package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceRunsLastCall(t *testing.T) {
	var d Debouncer
	var calls, last atomic.Int32
	done := make(chan struct{}, 3)
	for i := 1; i <= 3; i++ {
		i := i
		d.Debounce(50*time.Millisecond, func() {
			calls.Add(1)
			last.Store(int32(i))
			done <- struct{}{}
		})
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls: got %d, want 1", got)
	}
	if got := last.Load(); got != 3 {
		t.Fatalf("ran call %d, want 3", got)
	}
}

func TestDebounceStop(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	d.Stop()
	d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls after Stop: got %d, want 0", got)
	}
}
