package formula

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/

import (
	"fmt"
	"strconv"
)

/*
A formula tree is made of three kinds of nodes: operators, variables and
constants. Node is a closed sum type: no types outside this package may
implement it, and all behaviour is defined per operation with exhaustive type
switches (see validate.go, package render and package codec) rather than by
methods scattered over the node types.

Nodes are values. Operators own their children; a subtree belongs to exactly
one position in one tree. Children slices are never modified after
construction, which makes it safe to share them between snapshots.
*/

// Node is the base type formula trees are built of. It is either an Operator,
// a Variable or a Constant.
type Node interface {
	ID() string // opaque id, unique within a tree
	String() string
	isNode()
}

// OperatorKind is one of the four arithmetic operations.
type OperatorKind string

// Operator kinds, named as they are persisted.
const (
	Add      OperatorKind = "add"
	Subtract OperatorKind = "subtract"
	Multiply OperatorKind = "multiply"
	Divide   OperatorKind = "divide"
)

// OperatorKinds lists all operator kinds in palette order.
var OperatorKinds = []OperatorKind{Add, Subtract, Multiply, Divide}

// Valid returns true if k is one of the four known operator kinds.
func (k OperatorKind) Valid() bool {
	switch k {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// Slot references one of a fixed set of externally named measurement variables.
type Slot string

// Variable slots.
const (
	V1 Slot = "v1"
	V2 Slot = "v2"
	V3 Slot = "v3"
	V4 Slot = "v4"
)

// Slots lists all variable slots in palette order.
var Slots = []Slot{V1, V2, V3, V4}

// Valid returns true if s is one of the known variable slots.
func (s Slot) Valid() bool {
	switch s {
	case V1, V2, V3, V4:
		return true
	}
	return false
}

// --- Operator --------------------------------------------------------------

// Operator is a node representing an arithmetic operation over its children.
// Arity is unbounded; the order of children is significant for display and
// for non-commutative kinds.
type Operator struct {
	id       string
	kind     OperatorKind
	children []Node
}

// OperatorWithID creates an operator node with a given id. Clients creating
// new nodes should use NewOperator; OperatorWithID is meant for restoring
// persisted trees.
func OperatorWithID(id string, kind OperatorKind, children ...Node) Operator {
	ch := make([]Node, len(children))
	copy(ch, children)
	return Operator{id: id, kind: kind, children: ch}
}

func (op Operator) isNode() {}

// ID returns the id of the operator node.
func (op Operator) ID() string {
	return op.id
}

// Kind returns the arithmetic operation of the operator.
func (op Operator) Kind() OperatorKind {
	return op.kind
}

// ChildCount returns the number of children (operands).
func (op Operator) ChildCount() int {
	return len(op.children)
}

// Child returns the child at position i.
func (op Operator) Child(i int) (Node, bool) {
	if i < 0 || i >= len(op.children) {
		return nil, false
	}
	return op.children[i], true
}

// Children returns a copy of the slice of children.
func (op Operator) Children() []Node {
	ch := make([]Node, len(op.children))
	copy(ch, op.children)
	return ch
}

// IndexOfChild returns the position of the direct child with id childID,
// or -1 if there is none.
func (op Operator) IndexOfChild(childID string) int {
	for i, ch := range op.children {
		if ch.ID() == childID {
			return i
		}
	}
	return -1
}

func (op Operator) String() string {
	return fmt.Sprintf("(%s #ch=%d %s)", op.kind, len(op.children), shortID(op.id))
}

// WithChild returns a copy of op with item appended as the last child.
// Duplicate ids are not checked; clients must avoid introducing them
// (Tree.InsertInto does check).
func (op Operator) WithChild(item Node) Operator {
	assertThat(item != nil, "attempt to insert nil child into operator %s", op.id)
	cow := op.cloneWithCapacity(len(op.children) + 1) // copy-on-write
	cow.children = append(cow.children, op.children...)
	cow.children = append(cow.children, item)
	return cow
}

// WithoutChild returns a copy of op with the direct child identified by
// childID removed. If there is no such child, op is returned unchanged.
func (op Operator) WithoutChild(childID string) Operator {
	at := op.IndexOfChild(childID)
	if at < 0 {
		return op // no need for modification
	}
	return op.withoutChildAt(at)
}

func (op Operator) withoutChildAt(at int) Operator {
	assertThat(at >= 0 && at < len(op.children), "child index out of range: %d", at)
	cow := op.cloneWithCapacity(len(op.children) - 1)
	cow.children = append(cow.children, op.children[:at]...)
	cow.children = append(cow.children, op.children[at+1:]...)
	return cow
}

func (op Operator) withChildAt(at int, ch Node) Operator {
	assertThat(at >= 0 && at < len(op.children), "child index out of range: %d", at)
	cow := op.cloneWithCapacity(len(op.children))
	cow.children = append(cow.children, op.children...)
	cow.children[at] = ch
	return cow
}

// cloneWithCapacity returns a copy of op without children, prepared to hold
// n children.
func (op Operator) cloneWithCapacity(n int) Operator {
	return Operator{id: op.id, kind: op.kind, children: make([]Node, 0, n)}
}

// --- Leafs -----------------------------------------------------------------

// Variable is a leaf node referencing a measurement variable by slot.
type Variable struct {
	id   string
	slot Slot
}

// VariableWithID creates a variable node with a given id, for restoring
// persisted trees.
func VariableWithID(id string, slot Slot) Variable {
	return Variable{id: id, slot: slot}
}

func (v Variable) isNode() {}

// ID returns the id of the variable node.
func (v Variable) ID() string {
	return v.id
}

// Slot returns the variable slot the node refers to.
func (v Variable) Slot() Slot {
	return v.slot
}

func (v Variable) String() string {
	return fmt.Sprintf("(var %s %s)", v.slot, shortID(v.id))
}

// Constant is a leaf node holding a literal number.
type Constant struct {
	id    string
	value float64
}

// ConstantWithID creates a constant node with a given id, for restoring
// persisted trees and for editing the value of an existing constant.
func ConstantWithID(id string, value float64) Constant {
	return Constant{id: id, value: value}
}

func (c Constant) isNode() {}

// ID returns the id of the constant node.
func (c Constant) ID() string {
	return c.id
}

// Value returns the number held by the constant.
func (c Constant) Value() float64 {
	return c.value
}

func (c Constant) String() string {
	return fmt.Sprintf("(const %s %s)", strconv.FormatFloat(c.value, 'g', -1, 64), shortID(c.id))
}

// --- Helpers ---------------------------------------------------------------

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}
