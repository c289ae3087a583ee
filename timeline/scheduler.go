package timeline

import (
	"sync"
	"time"
)

// FrameHandle represents a requested frame. Cancel may be called any number
// of times; after the first call the frame's callback will not run.
type FrameHandle interface {
	Cancel()
}

// FrameScheduler requests one-shot frame callbacks, similar to a browser's
// requestAnimationFrame.
type FrameScheduler interface {
	RequestFrame(callback func()) FrameHandle
}

// DefaultFrameInterval is the wall-clock distance between two frames of a
// TickerScheduler.
const DefaultFrameInterval = 16670 * time.Microsecond

// --- Wall clock ------------------------------------------------------------

// TickerScheduler fires frames on the wall clock, one interval after they
// have been requested. Callbacks run on their own goroutine.
type TickerScheduler struct {
	interval time.Duration
}

// NewTickerScheduler creates a wall-clock frame scheduler. A non-positive
// interval selects DefaultFrameInterval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerScheduler{interval: interval}
}

// Interval returns the distance between frames.
func (s *TickerScheduler) Interval() time.Duration {
	return s.interval
}

// RequestFrame is part of interface FrameScheduler.
func (s *TickerScheduler) RequestFrame(callback func()) FrameHandle {
	return timerHandle{timer: time.AfterFunc(s.interval, callback)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() {
	h.timer.Stop()
}

var _ FrameScheduler = &TickerScheduler{}

// --- Manual stepping -------------------------------------------------------

// ManualScheduler collects requested frames until a client calls Step.
// It is used for headless operation and for deterministic tests.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualFrame
	fired   int
}

type manualFrame struct {
	scheduler *ManualScheduler
	callback  func()
	cancelled bool
}

// NewManualScheduler creates a scheduler without any pending frames.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestFrame is part of interface FrameScheduler.
func (s *ManualScheduler) RequestFrame(callback func()) FrameHandle {
	f := &manualFrame{scheduler: s, callback: callback}
	s.mu.Lock()
	s.pending = append(s.pending, f)
	s.mu.Unlock()
	return f
}

func (f *manualFrame) Cancel() {
	f.scheduler.mu.Lock()
	f.cancelled = true
	f.scheduler.mu.Unlock()
}

// Pending returns the number of frames which would fire on the next call
// to Step.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.pending {
		if !f.cancelled {
			n++
		}
	}
	return n
}

// Fired returns the total number of callbacks run so far.
func (s *ManualScheduler) Fired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Step fires every frame pending at the time of the call and returns the
// number of callbacks run. Frames requested by these callbacks are kept for
// the next step.
func (s *ManualScheduler) Step() int {
	s.mu.Lock()
	frames := s.pending
	s.pending = nil
	s.mu.Unlock()
	n := 0
	for _, f := range frames {
		s.mu.Lock()
		cancelled := f.cancelled
		if !cancelled {
			s.fired++
		}
		s.mu.Unlock()
		if cancelled {
			continue
		}
		f.callback()
		n++
	}
	return n
}

// Run calls Step n times.
func (s *ManualScheduler) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

var _ FrameScheduler = &ManualScheduler{}
