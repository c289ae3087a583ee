package animation

import (
	"fmt"
	"sort"

	"github.com/npillmayer/keyframer/style"
)

// Keyframe is a point in time (milliseconds from the start of the timeline)
// with an associated set of CSS property values.
type Keyframe struct {
	Time       float64
	Properties style.PropertyMap
}

func (kf Keyframe) String() string {
	return fmt.Sprintf("⟨%gms %s⟩", kf.Time, kf.Properties)
}

// Animation is the ordered set of keyframes attached to one element
// identifier. Keyframes are sorted ascending by time and no two keyframes
// share a time.
type Animation struct {
	Element   string
	Keyframes []Keyframe
}

// Len returns the number of keyframes.
func (a Animation) Len() int {
	return len(a.Keyframes)
}

// Find locates the keyframe at time t.
func (a Animation) Find(t float64) (Keyframe, bool) {
	if i := a.index(t); i >= 0 {
		return a.Keyframes[i], true
	}
	return Keyframe{}, false
}

// Times returns the times of all keyframes, ascending.
func (a Animation) Times() []float64 {
	times := make([]float64, len(a.Keyframes))
	for i, kf := range a.Keyframes {
		times[i] = kf.Time
	}
	return times
}

// index returns the position of the keyframe with time t, or -1.
// Matching is exact: the time is the identity of a keyframe.
func (a Animation) index(t float64) int {
	for i, kf := range a.Keyframes {
		if kf.Time == t {
			return i
		}
	}
	return -1
}

// --- Copy-on-write helpers -------------------------------------------------
//
// None of these modify their input slice.

// withKeyframe returns a copy of kfs containing kf, replacing a keyframe at
// the same time, sorted by time.
func withKeyframe(kfs []Keyframe, kf Keyframe) []Keyframe {
	cow := make([]Keyframe, 0, len(kfs)+1)
	for _, k := range kfs {
		if k.Time != kf.Time {
			cow = append(cow, k)
		}
	}
	cow = append(cow, kf)
	sortKeyframes(cow)
	return cow
}

// withoutKeyframe returns a copy of kfs without the keyframe at position i.
func withoutKeyframe(kfs []Keyframe, i int) []Keyframe {
	cow := make([]Keyframe, 0, len(kfs)-1)
	cow = append(cow, kfs[:i]...)
	return append(cow, kfs[i+1:]...)
}

// replaceKeyframe returns a copy of kfs with position i replaced by kf,
// sorted by time.
func replaceKeyframe(kfs []Keyframe, i int, kf Keyframe) []Keyframe {
	cow := make([]Keyframe, len(kfs))
	copy(cow, kfs)
	cow[i] = kf
	sortKeyframes(cow)
	return cow
}

func sortKeyframes(kfs []Keyframe) {
	sort.SliceStable(kfs, func(i, j int) bool {
		return kfs[i].Time < kfs[j].Time
	})
}
