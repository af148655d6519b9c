package formula

// IsValid returns true if tree is a complete formula: it is not empty, and
// every operator in it has at least one operand. A bare variable or constant
// is a complete formula.
func (tree Tree) IsValid() bool {
	return IsValid(tree.root)
}

// IsValid checks a (sub-)tree rooted at node. A nil node is invalid.
// An operator without children is invalid regardless of its position in a
// tree, thus a single empty operator anywhere renders the whole tree invalid.
func IsValid(node Node) bool {
	switch n := node.(type) {
	case nil:
		return false
	case Variable, Constant:
		return true
	case Operator:
		if len(n.children) == 0 {
			return false
		}
		for _, ch := range n.children {
			if !IsValid(ch) {
				return false
			}
		}
		return true
	}
	assertThat(false, "unknown node type %T", node)
	return false
}

// Incomplete returns the ids of all operators without operands, depth-first.
// Hosts use it to highlight the spots where a formula needs more input.
func (tree Tree) Incomplete() []string {
	var ids []string
	walk(tree.root, func(n Node) {
		if op, ok := n.(Operator); ok && len(op.children) == 0 {
			ids = append(ids, op.id)
		}
	})
	return ids
}
