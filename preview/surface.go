package preview

import (
	"sync"

	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/timeline"
)

// Playback is the part of the store state a preview depends on.
type Playback struct {
	CurrentTime float64 // ms
	Duration    float64 // ms
	Playing     bool
}

// PlaybackOf extracts the playback values of a store state.
func PlaybackOf(st animation.State) Playback {
	return Playback{CurrentTime: st.CurrentTime, Duration: st.Duration, Playing: st.Playing}
}

// Percent returns the cursor position in percent of the duration.
func (pb Playback) Percent() float64 {
	return timeline.Percent(pb.CurrentTime, pb.Duration)
}

// Frame is a rendered preview.
type Frame struct {
	DocumentID  string  `json:"document"`
	HTML        string  `json:"html"` // complete document, including injected CSS
	CSS         string  `json:"css"`  // the synthesized CSS alone
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Percent     float64 `json:"percent"`
	Scale       float64 `json:"scale"`
}

// Surface is where frames are displayed.
type Surface interface {
	Mounted() bool
	Render(Frame) error
}

// CursorSurface is implemented by surfaces which display the playback
// cursor separately from frames. Clock ticks move the cursor without
// rendering a new frame.
type CursorSurface interface {
	Surface
	SetCursor(ms, percent float64)
}

// --- In-memory surface -----------------------------------------------------

// MemorySurface records frames and cursor positions. It is used for headless
// operation and for testing. A new MemorySurface is mounted.
type MemorySurface struct {
	mu      sync.Mutex
	mounted bool
	frames  []Frame
	cursor  float64
	cursors int
}

// NewMemorySurface creates a mounted in-memory surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{mounted: true}
}

// SetMounted attaches or detaches the surface.
func (s *MemorySurface) SetMounted(mounted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = mounted
}

// Mounted is part of interface Surface.
func (s *MemorySurface) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Render is part of interface Surface.
func (s *MemorySurface) Render(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return nil
}

// SetCursor is part of interface CursorSurface.
func (s *MemorySurface) SetCursor(ms, percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = ms
	s.cursors++
}

// Frames returns all frames rendered so far.
func (s *MemorySurface) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames := make([]Frame, len(s.frames))
	copy(frames, s.frames)
	return frames
}

// Last returns the most recent frame.
func (s *MemorySurface) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Cursor returns the last cursor position and the number of cursor updates.
func (s *MemorySurface) Cursor() (float64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.cursors
}

var _ CursorSurface = &MemorySurface{}
