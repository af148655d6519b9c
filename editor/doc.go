/*
Package editor connects user gestures of a formula editor to the tree
operations of package formula.

A Session holds the formula currently being edited. Every gesture (dropping a
palette item or a part of the formula onto an operator or onto the canvas,
deleting a node, editing a constant) results in exactly one tree operation.
After every successful operation the session reports the new snapshot together
with its validity to a change callback, which is where hosts re-render the
preview and enable or disable saving.

Sessions serialize gestures; they may be shared between goroutines.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package editor

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formula.editor'.
func tracer() tracing.Trace {
	return tracing.Select("formula.editor")
}
