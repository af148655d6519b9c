/*
Package formula implements an editing engine for arithmetic formula trees.

A formula is a tree of operator nodes (add, subtract, multiply, divide),
variable references and numeric constants. Users assemble formulas
interactively, e.g. by dragging items from a palette into operators, and the
host application calls exactly one operation of this package per gesture.

Snapshots

Trees are immutable. Every “modification” of a tree (replacement, insertion,
deletion or relocation of a subtree) creates a new snapshot, leaving the
original unchanged. Under the hood only the spine from the root down to the
modified node is copied (copy-on-write); all other subtrees are shared between
the old and the new snapshot. Keeping old snapshots around is all it takes to
implement undo in a host application.

An empty instance is usable as an empty tree, i.e. this is legal:

    tree := formula.Tree{}.SetRoot(formula.NewVariable(formula.V1))

Parent links are never stored. The parent of a node is always found by search.

Errors

Operations referencing node ids return a new tree together with an error.
If the error is non-nil, the tree returned is the unchanged input tree.
Clients may test for ErrNotFound, ErrNotOperator, ErrInvalidMove and
ErrDuplicateID with errors.Is.

An incomplete formula (e.g., an operator without operands) is not an error.
Clients check IsValid before treating a formula as complete.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package formula

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formula'.
func tracer() tracing.Trace {
	return tracing.Select("formula")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("formula: "+msg, msgargs...)
		panic(msg)
	}
}
