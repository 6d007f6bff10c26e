package hal

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// SoftIRQ emulates a periodic timer interrupt with a goroutine.
//
// It implements both Timer and Interrupts: the isr runs with an internal
// mutex held, and Disable takes the same mutex, so the isr can never
// observe a half-finished masked section.
type SoftIRQ struct {
	mu      sync.Mutex
	running atomic.Bool
	fired   atomic.Uint64
	stop    chan struct{}
	done    chan struct{}
}

// NewSoftIRQ returns a stopped timer.
func NewSoftIRQ() *SoftIRQ {
	return &SoftIRQ{}
}

func (s *SoftIRQ) Disable() InterruptState {
	s.mu.Lock()
	return 0
}

func (s *SoftIRQ) Restore(InterruptState) {
	s.mu.Unlock()
}

// Start begins calling isr hz times per second.
func (s *SoftIRQ) Start(hz int, isr func()) error {
	if hz <= 0 {
		return fmt.Errorf("hal: timer: invalid frequency %d", hz)
	}
	if isr == nil {
		return errNilISR
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrTimerRunning
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	period := time.Second / time.Duration(hz)

	go func(stop, done chan struct{}) {
		defer close(done)
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				s.mu.Lock()
				isr()
				s.mu.Unlock()
				s.fired.Add(1)
			}
		}
	}(s.stop, s.done)
	return nil
}

func (s *SoftIRQ) Running() bool { return s.running.Load() }

// Fired returns the number of completed isr invocations.
func (s *SoftIRQ) Fired() uint64 { return s.fired.Load() }

// Stop halts the timer and waits for an in-flight isr to return.
func (s *SoftIRQ) Stop() {
	if !s.running.Load() {
		return
	}
	close(s.stop)
	<-s.done
	s.running.Store(false)
}
