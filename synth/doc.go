/*
Package synth derives CSS text from an animation set.

Synthesize is a pure function of the animations and the timeline duration.
For every animation it emits an @keyframes rule with one percentage block
per keyframe, followed by a rule binding the element identifier to the
animation:

    @keyframes animation_box {
      0.00% {
        opacity: 0;
      }
      50.00% {
        opacity: 1;
      }
    }

    .box {
      animation: animation_box 2s linear infinite;
    }

Easing is always linear and iteration is infinite. Identical input results
in byte-identical output; properties are written in the insertion order of
their property maps.

Rule names are derived from element identifiers by replacing every
character outside [A-Za-z0-9] with an underscore. Different identifiers may
therefore map to the same name ("hero-title" and "hero_title"). Such
collisions are not resolved; clients may detect them with Collisions.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package synth

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer.synth'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.synth")
}
