/*
Package keyframer is an editor core for keyframe-based CSS animations.

A user uploads an HTML document with stylesheets, selects elements, places
keyframes on a shared timeline, edits per-keyframe style properties and
previews the result; the editor emits equivalent @keyframes/animation CSS.

The Editor wires the parts of this module together:

    document.Load ──▶ animation.Store ──▶ synth.Synthesize ──▶ preview.Binder ──▶ preview.Surface
                            ▲
                     timeline.Clock

Uploaded files are loaded into a document, which determines the element
identifiers the store may address. Every change of the store emits an
event; Editor.Run re-synthesizes the CSS and binds it to the preview
surface. Clock ticks only move the cursor of the surface, the running
CSS animations advance on their own.

Clients change the store either directly (Editor.Store) or by handing
Command values to Editor.Apply, which is what the live preview server does
for commands arriving from a browser.

Status

The editor is headless. The only front end is the live preview server in
cmd/keyframer.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package keyframer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer")
}
