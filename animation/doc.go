/*
Package animation implements the keyframe store of the editor: the set of
per-element animations, the current selection and the playback state.

Overview

An Animation is the ordered sequence of keyframes of one element
identifier. A Store owns all animations of a document together with the
timeline state (duration, cursor, playing/paused) and the selection
(current element, current keyframe). The store is changed exclusively
through its methods; each of them is applied atomically with respect to
other methods and to ticks of the playback clock.

Readers call Store.Snapshot and receive a State value. States are immutable:
keyframe slices and property maps reachable from a state are never modified
afterwards. Modifications create new incarnations of the parts of the
structure they touch (copy-on-write), so most of the memory is shared
between consecutive states.

Invalid input never panics and never produces an error. Times are clamped
to the timeline, operations on unknown elements or stale keyframes are
silent no-ops. Clients wanting to know whether something happened may
compare snapshots or watch the event stream (Store.Subscribe).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package animation

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer.store'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.store")
}
