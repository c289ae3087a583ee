package timeline

import "sync"

// Clock drives a per-frame callback while it is running. It keeps exactly
// one frame pending at a time and re-arms after every fired frame.
//
// A frame carries the generation of the clock at the time it was requested.
// Stopping, restarting or re-arming the clock bumps the generation, so a frame
// which is already on its way when the clock is stopped will never call the
// tick function.
//
// The tick function is called without the clock's lock held. Clients which
// guard their own state with a mutex may therefore call Stop or Rearm while
// holding that mutex, and take it inside tick.
type Clock struct {
	mu         sync.Mutex
	scheduler  FrameScheduler
	pending    FrameHandle
	generation uint64
	running    bool
	tick       func()
}

// NewClock creates a stopped clock. A nil scheduler selects a wall-clock
// TickerScheduler with DefaultFrameInterval.
func NewClock(scheduler FrameScheduler) *Clock {
	if scheduler == nil {
		scheduler = NewTickerScheduler(DefaultFrameInterval)
	}
	return &Clock{scheduler: scheduler}
}

// Start registers tick to be called once per frame. It returns false and
// does nothing if the clock is already running.
func (c *Clock) Start(tick func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	c.tick = tick
	c.armLocked()
	tracer().Debugf("clock started, generation %d", c.generation)
	return true
}

// Stop cancels the pending frame. Stopping a stopped clock is a no-op.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.tick = nil
	c.cancelLocked()
	c.generation++
	tracer().Debugf("clock stopped")
}

// Rearm replaces the pending frame by a fresh one. It does nothing for a
// stopped clock.
func (c *Clock) Rearm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.cancelLocked()
	c.armLocked()
}

// Running reports whether a frame callback is registered.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Clock) armLocked() {
	c.generation++
	gen := c.generation
	c.pending = c.scheduler.RequestFrame(func() {
		c.fire(gen)
	})
}

func (c *Clock) cancelLocked() {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

func (c *Clock) fire(gen uint64) {
	c.mu.Lock()
	if !c.running || gen != c.generation {
		c.mu.Unlock()
		return
	}
	tick := c.tick
	c.pending = nil
	c.mu.Unlock()

	tick()

	c.mu.Lock()
	if c.running && gen == c.generation {
		c.armLocked()
	}
	c.mu.Unlock()
}
