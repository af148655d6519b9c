package formula

import "errors"

// Lookup errors
var (
	// ErrNotFound indicates that a referenced node id is not present in a tree.
	ErrNotFound = errors.New("node not found")

	// ErrNotOperator indicates that an operation expected an operator node but
	// found a leaf.
	ErrNotOperator = errors.New("node is not an operator")

	// ErrNotConstant indicates that an operation expected a constant node.
	ErrNotConstant = errors.New("node is not a constant")
)

// Structural errors
var (
	// ErrInvalidMove indicates that a move would corrupt the tree, e.g. by moving
	// a subtree into one of its own descendants, or that a move is not expressible
	// as a relocation (moving the root, moving without a source parent).
	ErrInvalidMove = errors.New("invalid move")

	// ErrDuplicateID indicates that a node id would occur more than once in a tree.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrNilNode indicates that a nil node was passed where a subtree is required.
	ErrNilNode = errors.New("nil node")

	// ErrInvalidConstant indicates that text could not be parsed as a numeric constant.
	ErrInvalidConstant = errors.New("invalid constant")
)
