package hal

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSoftIRQFiresAndStops(t *testing.T) {
	s := NewSoftIRQ()
	var n atomic.Int32
	if err := s.Start(1000, func() { n.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Running() {
		t.Fatal("Running() = false after Start")
	}
	if err := s.Start(1000, func() {}); err != ErrTimerRunning {
		t.Fatalf("second Start err = %v, want ErrTimerRunning", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("isr fired %d times in 2s, want >= 5", n.Load())
		}
		time.Sleep(time.Millisecond)
	}

	s.Stop()
	if s.Running() {
		t.Fatal("Running() = true after Stop")
	}
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if n.Load() != after {
		t.Fatalf("isr fired after Stop: %d -> %d", after, n.Load())
	}
}

func TestSoftIRQDisableBlocksISR(t *testing.T) {
	s := NewSoftIRQ()
	var n atomic.Int32
	if err := s.Start(2000, func() { n.Add(1) }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	st := s.Disable()
	before := n.Load()
	time.Sleep(20 * time.Millisecond)
	during := n.Load()
	s.Restore(st)

	// At most one isr may have been in flight when Disable was called.
	if during-before > 1 {
		t.Fatalf("isr ran %d times while masked", during-before)
	}
}

func TestSoftIRQRejectsBadConfig(t *testing.T) {
	s := NewSoftIRQ()
	if err := s.Start(0, func() {}); err == nil {
		t.Fatal("Start(0) err = nil, want error")
	}
	if err := s.Start(100, nil); err == nil {
		t.Fatal("Start(nil isr) err = nil, want error")
	}
	if s.Running() {
		t.Fatal("Running() = true after failed Start")
	}
}
