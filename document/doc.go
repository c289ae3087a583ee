/*
Package document holds an uploaded HTML/CSS document.

A document is loaded from a set of uploaded files: one HTML file and any
number of CSS files. The markup is kept as text and is never modified;
clients wanting a node tree call Document.Parse and receive a fresh copy
each time.

The animation store addresses elements by identifier strings. For every
element inside <body> the identifier is the first available of its id, its
(first) class name and its lower-case tag name. The order of preference may
be configured; identifiers are deduplicated in document order.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package document

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer.document'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.document")
}
