/*
Package timeline maps between milliseconds and percentages of an animation's
duration and drives a simulated playback clock.

Overview

All times are float64 milliseconds. A timeline of duration d covers the
half-open interval [0, d) for the playback cursor; keyframes may sit anywhere
in [0, d], so a keyframe at d is placed at 100%.

The playback clock is frame driven. It does not measure wall-clock time but
advances the cursor by a fixed nominal step per frame (DefaultStep, roughly
one 60 Hz refresh). Frames are requested from a FrameScheduler, which is
modelled after a browser's requestAnimationFrame: every request fires at most
once and may be cancelled. The clock keeps at most one frame pending.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package timeline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer.timeline'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.timeline")
}
