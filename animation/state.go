package animation

import (
	"fmt"

	"github.com/npillmayer/keyframer/style"
	"github.com/npillmayer/keyframer/timeline"
	tp "github.com/xlab/treeprint"
)

// State is an immutable snapshot of a store.
type State struct {
	Duration         float64     // length of the timeline in ms, > 0
	CurrentTime      float64     // playback cursor in ms, within [0, Duration)
	Playing          bool        // is the playback clock running?
	SelectedElement  string      // selected element identifier, "" if none
	SelectedKeyframe *Keyframe   // selected keyframe of SelectedElement, nil if none
	Animations       []Animation // in creation order
}

// Animation returns the animation for an element identifier, if present.
func (st State) Animation(element string) (Animation, bool) {
	for _, a := range st.Animations {
		if a.Element == element {
			return a, true
		}
	}
	return Animation{}, false
}

// Percent returns the position of the cursor on the timeline in percent.
func (st State) Percent() float64 {
	return timeline.Percent(st.CurrentTime, st.Duration)
}

// HasSelection reports whether both an element and one of its keyframes are
// selected, which is the precondition for editing properties.
func (st State) HasSelection() bool {
	return st.SelectedElement != "" && st.SelectedKeyframe != nil
}

// Dump renders the animation set as a tree; used for debugging.
func (st State) Dump() string {
	header := fmt.Sprintf("animations(n=%d, duration=%gms, t=%gms, playing=%v)\n",
		len(st.Animations), st.Duration, st.CurrentTime, st.Playing)
	printer := tp.New()
	for _, a := range st.Animations {
		branch := printer.AddBranch(a.Element)
		for _, kf := range a.Keyframes {
			label := fmt.Sprintf("%.2f%%  %gms", timeline.Percent(kf.Time, st.Duration), kf.Time)
			if kf.Properties.Len() == 0 {
				branch.AddNode(label)
				continue
			}
			kfBranch := branch.AddBranch(label)
			kf.Properties.Each(func(key string, value style.Property) {
				kfBranch.AddNode(key + ": " + value.String())
			})
		}
	}
	return header + printer.String()
}

// --- Events ----------------------------------------------------------------

// EventType defines the type of a store event.
type EventType string

const (
	EventKeyframes EventType = "keyframes" // keyframes or properties changed
	EventSelection EventType = "selection" // selected element or keyframe changed
	EventPlayback  EventType = "playback"  // playing/paused/stopped
	EventTick      EventType = "tick"      // the clock advanced the cursor
	EventCursor    EventType = "cursor"    // the cursor was moved by a client
	EventDuration  EventType = "duration"  // the timeline duration changed
	EventReset     EventType = "reset"     // state discarded for a new document
)

// Event represents a store update for observers. State is the snapshot
// right after the update.
type Event struct {
	Type  EventType
	State State
}
