/*
Package cssom abstracts away a concrete CSS stylesheet implementation.

Overview

The editor handles two kinds of CSS: stylesheets uploaded together with a
document, and the CSS text synthesized from the animation set. Both are
read through the interfaces of this package, StyleSheet, Rule and
KeyframesRule. A concrete implementation based on
https://github.com/aymerick/douceur may be found in sub-package
douceuradapter.

The preview only needs a small part of the CSS object model: style rules
with their selectors and declarations, and @keyframes rules with their
percentage steps. Rules nested in conditional group rules (@media,
@supports) are treated as top-level style rules; the preview does not
evaluate media queries.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'keyframer.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.cssom")
}
