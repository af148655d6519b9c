package formula

// RootTarget is the distinguished target id for Tree.Move, meaning “replace
// the whole tree by the moved node” instead of “append to operator X”.
// It is never used as a node id.
const RootTarget = "root"

// Tree is an immutable snapshot of a formula. It is either empty or holds
// exactly one root node. An empty instance is usable as an empty tree.
type Tree struct {
	root Node
}

// Of returns a tree with root node. Of(nil) is the empty tree.
func Of(root Node) Tree {
	return Tree{root: root}
}

// SetRoot replaces the entire snapshot. It is used when dropping a new node
// onto an empty canvas and when a move targets the root.
func SetRoot(root Node) Tree {
	tracer().Debugf("set root to %v", root)
	return Tree{root: root}
}

// SetRoot is a convenience variant of package-level SetRoot.
func (tree Tree) SetRoot(root Node) Tree {
	return SetRoot(root)
}

// Clear returns the empty tree; used for removing the whole formula.
func Clear() Tree {
	return Tree{}
}

// Root returns the root node of the tree, or nil for an empty tree.
func (tree Tree) Root() Node {
	return tree.root
}

// Empty returns true if tree has no root.
func (tree Tree) Empty() bool {
	return tree.root == nil
}

func (tree Tree) String() string {
	if tree.root == nil {
		return "(Tree empty)"
	}
	return "(Tree " + tree.root.String() + ")"
}

// --- Locating nodes --------------------------------------------------------

// Find locates the node with a given id, searching depth-first with children
// visited in order. If a tree contains duplicate ids (which it should never
// do), it is unspecified which of the nodes is returned.
func (tree Tree) Find(id string) (Node, bool) {
	_, node, found := locate(tree.root, id, nil)
	return node, found
}

// Contains returns true if a node with the given id is part of tree.
func (tree Tree) Contains(id string) bool {
	_, found := tree.Find(id)
	return found
}

// Parent returns the operator listing id as a direct child. It returns
// found=false if id is the root of the tree or is not present.
//
// Search is depth-first, with an operator's own children checked before
// descending; the first match wins.
func (tree Tree) Parent(id string) (Operator, bool) {
	if op, ok := tree.root.(Operator); ok {
		return findParent(op, id)
	}
	return Operator{}, false
}

func findParent(op Operator, id string) (Operator, bool) {
	if op.IndexOfChild(id) >= 0 {
		return op, true
	}
	for _, ch := range op.children {
		if chop, ok := ch.(Operator); ok {
			if p, found := findParent(chop, id); found {
				return p, true
			}
		}
	}
	return Operator{}, false
}

// IDs returns the ids of all nodes of tree, depth-first with children in order.
func (tree Tree) IDs() []string {
	var ids []string
	walk(tree.root, func(n Node) {
		ids = append(ids, n.ID())
	})
	return ids
}

// Size returns the number of nodes in tree.
func (tree Tree) Size() int {
	var n int
	walk(tree.root, func(Node) { n++ })
	return n
}

// walk calls f for node and all of its descendants, depth-first.
func walk(node Node, f func(Node)) {
	if node == nil {
		return
	}
	f(node)
	if op, ok := node.(Operator); ok {
		for _, ch := range op.children {
			walk(ch, f)
		}
	}
}

// overlap returns the first id of subtree which is already present in tree.
func overlap(tree Tree, subtree Node) (string, bool) {
	if tree.root == nil {
		return "", false
	}
	ids := make(map[string]struct{}, 16)
	walk(tree.root, func(n Node) {
		ids[n.ID()] = struct{}{}
	})
	var dup string
	walk(subtree, func(n Node) {
		if _, ok := ids[n.ID()]; ok && dup == "" {
			dup = n.ID()
		}
	})
	return dup, dup != ""
}
