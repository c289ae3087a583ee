/*
Package preview binds synthesized CSS and the playback state to a rendering
surface.

A Binder renders frames. Each frame starts from the original markup of the
document, which is parsed afresh and never modified. The binder injects a
<style> element holding the uploaded stylesheets followed by the
synthesized CSS, and sets the inline play-state and a negative
animation-delay on every element bound to an animation, so a paused preview
shows the document at the cursor position. The resulting HTML is meant to be
shown in an isolated browsing context, e.g. as the srcdoc of an iframe.

Surfaces may be detached (not mounted). Frames for a detached surface are
skipped, not queued; the next state change binds again. The binder has no
access to the keyframe store; it consumes CSS text and playback values only.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package preview

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer.preview'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.preview")
}
