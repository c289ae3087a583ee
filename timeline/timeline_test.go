package timeline

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestPercentBounds(t *testing.T) {
	for _, d := range []float64{1, 16.67, 1000, 2000, 5000, 123456.789} {
		if p := Percent(0, d); p != 0 {
			t.Errorf("expected percent(0) to be 0 for duration %v, is %v", d, p)
		}
		if p := Percent(d, d); math.Abs(p-100) > 1e-9 {
			t.Errorf("expected percent(duration) to be 100 for duration %v, is %v", d, p)
		}
	}
	if p := Percent(500, 0); p != 0 {
		t.Errorf("expected percent with zero duration to be 0, is %v", p)
	}
}

func TestPercentRoundTrip(t *testing.T) {
	assert.InDelta(t, 50.0, Percent(1000, 2000), 1e-9)
	assert.InDelta(t, 1000.0, TimeAt(50, 2000), 1e-9)
	assert.InDelta(t, 1234.5, TimeAt(Percent(1234.5, 5000), 5000), 1e-9)
}

func TestClampAndNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 1000))
	assert.Equal(t, 1000.0, Clamp(1500, 1000))
	assert.Equal(t, 420.0, Clamp(420, 1000))
	assert.Equal(t, 0.0, Normalize(1000, 1000))
	assert.Equal(t, 0.0, Normalize(-1, 1000))
	assert.Equal(t, 999.0, Normalize(999, 1000))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 1000))
	assert.Equal(t, 0.0, Normalize(math.NaN(), 1000))
	assert.Equal(t, 0.0, Clamp(500, math.NaN()))
}

func TestAdvanceWraps(t *testing.T) {
	d := 2000.0
	next := Advance(d-10, DefaultStep, d)
	if next != 0 {
		t.Errorf("expected cursor to wrap to 0, is %v", next)
	}
	next = Advance(100, DefaultStep, d)
	assert.InDelta(t, 116.67, next, 1e-9)
	assert.Equal(t, 0.0, Advance(d-5, 5, d), "reaching the end exactly wraps")
	assert.Equal(t, 0.0, Advance(math.NaN(), 5, d))
}

func TestManualSchedulerCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.timeline")
	defer teardown()
	//
	s := NewManualScheduler()
	calls := 0
	h := s.RequestFrame(func() { calls++ })
	s.RequestFrame(func() { calls++ })
	h.Cancel()
	h.Cancel() // double cancel is harmless
	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending frame, have %d", s.Pending())
	}
	if n := s.Step(); n != 1 || calls != 1 {
		t.Errorf("expected exactly one callback to run, ran %d (calls=%d)", n, calls)
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending frames after step, have %d", s.Pending())
	}
}

func TestClockTicksOncePerFrame(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.timeline")
	defer teardown()
	//
	s := NewManualScheduler()
	c := NewClock(s)
	ticks := 0
	assert.True(t, c.Start(func() { ticks++ }))
	assert.False(t, c.Start(func() { ticks += 100 }), "second start must be refused")
	s.Run(5)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, s.Pending(), "a running clock keeps one frame pending")
}

func TestClockStopCancelsPendingFrame(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.timeline")
	defer teardown()
	//
	s := NewManualScheduler()
	c := NewClock(s)
	ticks := 0
	c.Start(func() { ticks++ })
	s.Step()
	c.Stop()
	c.Stop()
	s.Run(3)
	if ticks != 1 {
		t.Errorf("expected clock to tick once before stop, ticked %d times", ticks)
	}
	if c.Running() {
		t.Error("expected clock to be stopped")
	}
	if s.Pending() != 0 {
		t.Errorf("expected no dangling frames, have %d", s.Pending())
	}
}

func TestClockRestartHasNoDoubleFrames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.timeline")
	defer teardown()
	//
	s := NewManualScheduler()
	c := NewClock(s)
	ticks := 0
	tick := func() { ticks++ }
	c.Start(tick)
	c.Stop()
	c.Start(tick)
	c.Rearm()
	assert.Equal(t, 1, s.Pending())
	s.Run(4)
	assert.Equal(t, 4, ticks)
}

func TestClockStopInsideTick(t *testing.T) {
	s := NewManualScheduler()
	c := NewClock(s)
	ticks := 0
	c.Start(func() {
		ticks++
		c.Stop()
	})
	s.Run(3)
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 0, s.Pending())
}

func TestTickerSchedulerStops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.timeline")
	defer teardown()
	//
	c := NewClock(NewTickerScheduler(time.Millisecond))
	var ticks int32
	c.Start(func() { atomic.AddInt32(&ticks, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) >= 3 },
		time.Second, time.Millisecond)
	c.Stop()
	stopped := atomic.LoadInt32(&ticks)
	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&ticks); n > stopped+1 {
		t.Errorf("expected clock to stay quiet after stop, ticked %d more times", n-stopped)
	}
}
