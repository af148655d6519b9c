package formula

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Remarks:
--------

- 'cow' stands for copy-on-write and is used throughout the code for variables
  holding clones of nodes.

- Locating a node yields a slot path: the chain of ancestor operators from the
  root down to the node, each together with the index of the child leading
  towards the node. Modifications rebuild exactly this spine, from the bottom
  up, by folding the path from the right. Everything off the spine is shared
  with the original tree.

- A new modified incarnation of a tree always is reflected by a new root.

*/

// --- Slot ------------------------------------------------------------------

// slot holds a step of a path.
type slot struct {
	op    Operator
	index int
}

func (s slot) String() string {
	return strconv.Itoa(s.index) + "@" + s.op.String()
}

// cloneSeam links a (new) child into a copy of the parent slot's operator.
func cloneSeam(parent slot, child Node) Node {
	tracer().Debugf("seam: parent = %s, child = %s", parent, child)
	return parent.op.withChildAt(parent.index, child)
}

// --- Path ------------------------------------------------------------------

type slotPath []slot

func (path slotPath) String() string {
	var sb = strings.Builder{}
	sb.WriteRune('[')
	for _, s := range path {
		sb.WriteString(fmt.Sprintf("⟨%s⟩", s))
	}
	sb.WriteRune(']')
	return sb.String()
}

func (path slotPath) last() slot {
	assertThat(len(path) > 0, "attempt to get last slot of empty path")
	return path[len(path)-1]
}

func (path slotPath) dropLast() slotPath {
	if len(path) == 0 {
		return path
	}
	return path[:len(path)-1]
}

// foldR applies function f on pairs (parent,child) of path. Application starts
// from the right, i.e. with the bottom-most slot of the path. zero is the child
// in the rightmost call of f. If path is empty, zero will be returned, otherwise
// the value returned from the final call to f (the new root).
func (path slotPath) foldR(f func(slot, Node) Node, zero Node) Node {
	r := zero
	for i := len(path) - 1; i >= 0; i-- {
		r = f(path[i], r)
	}
	return r
}

// contains returns true if an operator with id is on the path.
func (path slotPath) contains(id string) bool {
	for _, s := range path {
		if s.op.id == id {
			return true
		}
	}
	return false
}

// locate finds the first node with a given id, depth-first with children
// visited in order. It returns the slot path leading to the node.
func locate(node Node, id string, pathBuf slotPath) (slotPath, Node, bool) {
	if node == nil {
		return pathBuf, nil, false
	}
	if node.ID() == id {
		return pathBuf, node, true
	}
	op, ok := node.(Operator)
	if !ok {
		return pathBuf, nil, false
	}
	for i, ch := range op.children {
		path, n, found := locate(ch, id, append(pathBuf, slot{op: op, index: i}))
		if found {
			return path, n, true
		}
	}
	return pathBuf, nil, false
}
