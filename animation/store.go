package animation

import (
	"math"
	"sync"

	"github.com/npillmayer/keyframer/style"
	"github.com/npillmayer/keyframer/timeline"
)

// DefaultDuration is the initial length of a timeline in milliseconds.
const DefaultDuration = 5000.0

// Store owns the animations of a document, the selection and the playback
// state. All methods are safe for concurrent use; each is applied
// atomically, including ticks of the playback clock.
type Store struct {
	mu               sync.Mutex
	props            props
	duration         float64
	cursor           float64
	playing          bool
	selectedElement  string
	selectedTime     float64
	keyframeSelected bool
	animations       []Animation // creation order
	restricted       bool
	elements         map[string]struct{}
	clock            *timeline.Clock
	events           []chan Event
	closed           bool
}

type props struct {
	duration  float64
	step      float64
	scheduler timeline.FrameScheduler
}

// Option is a type to help initializing stores at creation time.
type Option func(props) props

// Duration sets the initial timeline duration in milliseconds. Values which
// are not positive and finite are ignored.
func Duration(ms float64) Option {
	return func(p props) props {
		if ms > 0 && !math.IsInf(ms, 1) {
			p.duration = ms
		}
		return p
	}
}

// FrameStep sets the cursor advance per frame in milliseconds. Values which
// are not positive and finite are ignored.
func FrameStep(ms float64) Option {
	return func(p props) props {
		if ms > 0 && !math.IsInf(ms, 1) {
			p.step = ms
		}
		return p
	}
}

// Scheduler sets the frame scheduler driving the playback clock. Default is
// a wall-clock timeline.TickerScheduler.
func Scheduler(s timeline.FrameScheduler) Option {
	return func(p props) props {
		p.scheduler = s
		return p
	}
}

// NewStore creates an empty store. Use it like this:
//
//     store := animation.NewStore(animation.Duration(2000))
//     store.AddKeyframe("box", 1200)
//
func NewStore(opts ...Option) *Store {
	p := props{duration: DefaultDuration, step: timeline.DefaultStep}
	for _, option := range opts {
		p = option(p)
	}
	return &Store{
		props:    p,
		duration: p.duration,
		clock:    timeline.NewClock(p.scheduler),
	}
}

// --- Reading ---------------------------------------------------------------

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := State{
		Duration:        s.duration,
		CurrentTime:     s.cursor,
		Playing:         s.playing,
		SelectedElement: s.selectedElement,
		Animations:      make([]Animation, len(s.animations)),
	}
	copy(st.Animations, s.animations) // keyframe slices are never written
	if kf, ok := s.selectedKeyframeLocked(); ok {
		st.SelectedKeyframe = &kf
	}
	return st
}

// Dump renders the current animation set as a tree.
func (s *Store) Dump() string {
	return s.Snapshot().Dump()
}

// Subscribe registers a new observer channel. Events are dropped for
// observers which do not keep up with the buffer.
func (s *Store) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.events = append(s.events, ch)
	return ch
}

// Close stops the playback clock and closes all observer channels.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.playing = false
	s.clock.Stop()
	events := s.events
	s.events = nil
	s.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	tracer().Debugf("store closed")
}

// --- Timeline --------------------------------------------------------------

// SetDuration replaces the duration of the timeline. Keyframe times are not
// rescaled; keyframes beyond the new end are simply not reached by the
// clock. Durations which are not positive and finite are ignored.
func (s *Store) SetDuration(ms float64) {
	if !(ms > 0) || math.IsInf(ms, 1) {
		tracer().Debugf("ignoring invalid duration %v", ms)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ms == s.duration {
		return
	}
	s.duration = ms
	s.cursor = timeline.Normalize(s.cursor, s.duration)
	s.clock.Rearm()
	s.emitLocked(EventDuration)
}

// SetCurrentTime moves the playback cursor.
func (s *Store) SetCurrentTime(ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = timeline.Normalize(timeline.Clamp(ms, s.duration), s.duration)
	s.emitLocked(EventCursor)
}

// SeekPercent moves the playback cursor to a position relative to the
// duration, as a scrubber does.
func (s *Store) SeekPercent(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := timeline.TimeAt(timeline.Clamp(percent, 100), s.duration)
	s.cursor = timeline.Normalize(t, s.duration)
	s.emitLocked(EventCursor)
}

// SetPlaying starts or pauses playback. Pausing keeps the cursor position.
func (s *Store) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playing == s.playing || (playing && s.closed) {
		return
	}
	s.playing = playing
	if playing {
		s.clock.Start(s.tick)
	} else {
		s.clock.Stop()
	}
	s.emitLocked(EventPlayback)
}

// Stop stops playback and rewinds the cursor to 0.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.clock.Stop()
	s.cursor = 0
	s.emitLocked(EventPlayback)
}

// tick is called by the playback clock once per frame.
func (s *Store) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.cursor = timeline.Advance(s.cursor, s.props.step, s.duration)
	s.emitLocked(EventTick)
}

// --- Selection -------------------------------------------------------------

// SelectElement selects an element identifier. Reselecting the current
// element keeps the keyframe selection; selecting another element clears it.
func (s *Store) SelectElement(element string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.allowedLocked(element) || element == s.selectedElement {
		return
	}
	s.selectedElement = element
	s.keyframeSelected = false
	s.emitLocked(EventSelection)
}

// ClearElement clears the element and keyframe selection.
func (s *Store) ClearElement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedElement == "" && !s.keyframeSelected {
		return
	}
	s.selectedElement = ""
	s.keyframeSelected = false
	s.emitLocked(EventSelection)
}

// SelectKeyframe selects a keyframe of the selected element, identified by
// its time. A nil keyframe, or one not present on the selected element,
// clears the keyframe selection.
func (s *Store) SelectKeyframe(kf *Keyframe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was, wasTime := s.keyframeSelected, s.selectedTime
	s.keyframeSelected = false
	if kf != nil {
		if a, ok := s.animationLocked(s.selectedElement); ok && a.index(kf.Time) >= 0 {
			s.keyframeSelected = true
			s.selectedTime = kf.Time
		}
	}
	if was != s.keyframeSelected || (s.keyframeSelected && wasTime != s.selectedTime) {
		s.emitLocked(EventSelection)
	}
}

// --- Keyframes -------------------------------------------------------------

// AddKeyframe inserts a keyframe without properties at time t, clamped to the
// timeline. A keyframe already present at that time is replaced. The new
// keyframe becomes the selection and the cursor moves to it.
//
// AddKeyframe returns false if the element is not addressable.
func (s *Store) AddKeyframe(element string, t float64) (Keyframe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.allowedLocked(element) {
		return Keyframe{}, false
	}
	kf := Keyframe{Time: timeline.Clamp(t, s.duration)}
	i := s.indexLocked(element)
	if i < 0 {
		s.animations = append(s.animations, Animation{
			Element:   element,
			Keyframes: []Keyframe{kf},
		})
	} else {
		a := s.animations[i]
		s.animations[i] = Animation{Element: element, Keyframes: withKeyframe(a.Keyframes, kf)}
	}
	tracer().Debugf("added keyframe %v to %s", kf, element)
	s.selectLocked(element, kf.Time)
	s.emitLocked(EventKeyframes)
	return kf, true
}

// UpdateKeyframe replaces the keyframe of element whose time equals
// kf.Time. The match key is the time before the edit: callers changing the
// time of a keyframe have to use MoveKeyframe, otherwise the lookup fails
// and UpdateKeyframe silently does nothing. The replaced keyframe becomes
// the selection and the cursor moves to it.
func (s *Store) UpdateKeyframe(element string, kf Keyframe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(element)
	if i < 0 {
		return
	}
	a := s.animations[i]
	k := a.index(kf.Time)
	if k < 0 {
		tracer().Debugf("no keyframe at %gms on %s, update skipped", kf.Time, element)
		return
	}
	s.animations[i] = Animation{Element: element, Keyframes: replaceKeyframe(a.Keyframes, k, kf)}
	s.selectLocked(element, kf.Time)
	s.emitLocked(EventKeyframes)
}

// UpdateAnimationProperties merges values into the keyframe of element at
// time t. Other keyframes are left untouched.
func (s *Store) UpdateAnimationProperties(element string, t float64, values style.PropertyMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(element)
	if i < 0 {
		return
	}
	a := s.animations[i]
	k := a.index(t)
	if k < 0 {
		return
	}
	old := a.Keyframes[k]
	merged := Keyframe{Time: old.Time, Properties: old.Properties.Merge(values)}
	if merged.Properties.Equal(old.Properties) {
		return
	}
	s.animations[i] = Animation{Element: element, Keyframes: replaceKeyframe(a.Keyframes, k, merged)}
	s.emitLocked(EventKeyframes)
}

// RemoveAnimationProperties removes properties from the keyframe of element
// at time t. Other keyframes are left untouched.
func (s *Store) RemoveAnimationProperties(element string, t float64, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(element)
	if i < 0 {
		return
	}
	a := s.animations[i]
	k := a.index(t)
	if k < 0 {
		return
	}
	old := a.Keyframes[k]
	props := old.Properties
	for _, key := range keys {
		props = props.Without(key)
	}
	if props.Len() == old.Properties.Len() {
		return
	}
	kf := Keyframe{Time: old.Time, Properties: props}
	s.animations[i] = Animation{Element: element, Keyframes: replaceKeyframe(a.Keyframes, k, kf)}
	s.emitLocked(EventKeyframes)
}

// MoveKeyframe re-times the keyframe of element at time from to time to
// (clamped). A keyframe already present at the target time is replaced.
// The moved keyframe becomes the selection and the cursor follows it.
func (s *Store) MoveKeyframe(element string, from, to float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(element)
	if i < 0 {
		return
	}
	a := s.animations[i]
	k := a.index(from)
	if k < 0 {
		return
	}
	moved := Keyframe{Time: timeline.Clamp(to, s.duration), Properties: a.Keyframes[k].Properties}
	kfs := withKeyframe(withoutKeyframe(a.Keyframes, k), moved)
	s.animations[i] = Animation{Element: element, Keyframes: kfs}
	s.selectLocked(element, moved.Time)
	s.emitLocked(EventKeyframes)
}

// RemoveKeyframe deletes the keyframe of element at time t. Removing the
// last keyframe removes the animation. If the removed keyframe was selected,
// the keyframe selection is cleared.
func (s *Store) RemoveKeyframe(element string, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(element)
	if i < 0 {
		return
	}
	a := s.animations[i]
	k := a.index(t)
	if k < 0 {
		return
	}
	if a.Len() == 1 {
		cow := make([]Animation, 0, len(s.animations)-1)
		cow = append(cow, s.animations[:i]...)
		s.animations = append(cow, s.animations[i+1:]...)
	} else {
		s.animations[i] = Animation{Element: element, Keyframes: withoutKeyframe(a.Keyframes, k)}
	}
	if s.keyframeSelected && s.selectedElement == element && s.selectedTime == t {
		s.keyframeSelected = false
	}
	s.emitLocked(EventKeyframes)
}

// --- Document lifecycle ----------------------------------------------------

// Reset discards all animations, the selection and the playback state, and
// restricts the store to the given element identifiers. Operations naming
// any other element are no-ops from now on; with an empty list they all are.
func (s *Store) Reset(elements []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Stop()
	s.playing = false
	s.duration = s.props.duration
	s.cursor = 0
	s.selectedElement = ""
	s.keyframeSelected = false
	s.animations = nil
	s.restricted = true
	s.elements = make(map[string]struct{}, len(elements))
	for _, e := range elements {
		s.elements[e] = struct{}{}
	}
	tracer().Infof("store reset for %d element identifiers", len(elements))
	s.emitLocked(EventReset)
}

// Elements returns the addressable element identifiers and true, or false
// if the store is not restricted to a document.
func (s *Store) Elements() (map[string]struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.restricted {
		return nil, false
	}
	elements := make(map[string]struct{}, len(s.elements))
	for e := range s.elements {
		elements[e] = struct{}{}
	}
	return elements, true
}

// --- Internals -------------------------------------------------------------

func (s *Store) allowedLocked(element string) bool {
	if element == "" {
		return false
	}
	if !s.restricted {
		return true
	}
	_, ok := s.elements[element]
	return ok
}

func (s *Store) indexLocked(element string) int {
	for i, a := range s.animations {
		if a.Element == element {
			return i
		}
	}
	return -1
}

func (s *Store) animationLocked(element string) (Animation, bool) {
	if i := s.indexLocked(element); i >= 0 {
		return s.animations[i], true
	}
	return Animation{}, false
}

func (s *Store) selectLocked(element string, t float64) {
	s.selectedElement = element
	s.selectedTime = t
	s.keyframeSelected = true
	s.cursor = timeline.Normalize(t, s.duration)
}

func (s *Store) selectedKeyframeLocked() (Keyframe, bool) {
	if !s.keyframeSelected {
		return Keyframe{}, false
	}
	a, ok := s.animationLocked(s.selectedElement)
	if !ok {
		return Keyframe{}, false
	}
	return a.Find(s.selectedTime)
}

func (s *Store) emitLocked(t EventType) {
	if len(s.events) == 0 {
		return
	}
	event := Event{Type: t, State: s.snapshotLocked()}
	for _, ch := range s.events {
		select {
		case ch <- event:
		default:
		}
	}
}
