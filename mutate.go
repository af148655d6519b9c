package formula

import (
	"fmt"
)

// Replace returns a copy of tree with the subtree identified by targetID
// replaced by replacement. Only the path from the root to the target is
// copied; all other subtrees are shared with tree.
//
// If targetID is not present, tree is returned unchanged together with
// ErrNotFound.
func (tree Tree) Replace(targetID string, replacement Node) (Tree, error) {
	if replacement == nil {
		return tree, fmt.Errorf("%w: replacement for %s, use Delete", ErrNilNode, targetID)
	}
	path, _, found := locate(tree.root, targetID, nil)
	if !found {
		return tree, fmt.Errorf("%w: cannot replace %s", ErrNotFound, targetID)
	}
	tracer().Debugf("replace: slot path = %s", path)
	newRoot := path.foldR(cloneSeam, replacement)
	return Tree{root: newRoot}, nil
}

// InsertInto returns a copy of tree with item appended as the last child of
// the operator identified by operatorID.
//
// Errors are ErrNotFound if operatorID is not present, ErrNotOperator if it
// denotes a leaf, and ErrDuplicateID if item (or one of its descendants)
// carries an id already present in tree. In case of an error, tree is returned
// unchanged.
func (tree Tree) InsertInto(operatorID string, item Node) (Tree, error) {
	if item == nil {
		return tree, fmt.Errorf("%w: cannot insert into %s", ErrNilNode, operatorID)
	}
	if dup, ok := overlap(tree, item); ok {
		return tree, fmt.Errorf("%w: %s", ErrDuplicateID, dup)
	}
	return tree.insertInto(operatorID, item)
}

func (tree Tree) insertInto(operatorID string, item Node) (Tree, error) {
	path, node, found := locate(tree.root, operatorID, nil)
	if !found {
		return tree, fmt.Errorf("%w: cannot insert into %s", ErrNotFound, operatorID)
	}
	op, ok := node.(Operator)
	if !ok {
		return tree, fmt.Errorf("%w: cannot insert into %s", ErrNotOperator, node)
	}
	cow := op.WithChild(item)
	tracer().Debugf("insert: created copy of (operator + child) = %s", cow)
	return Tree{root: path.foldR(cloneSeam, cow)}, nil
}

// Delete returns a copy of tree with the subtree rooted at id removed. The
// parent operator loses one child; the order of its other children is
// preserved. Deleting the root yields the empty tree.
//
// If id is not present, tree is returned unchanged together with ErrNotFound.
func (tree Tree) Delete(id string) (Tree, error) {
	if tree.root != nil && tree.root.ID() == id {
		tracer().Debugf("delete: removing root %s", tree.root)
		return Tree{}, nil
	}
	path, _, found := locate(tree.root, id, nil)
	if !found {
		return tree, fmt.Errorf("%w: cannot delete %s", ErrNotFound, id)
	}
	tracer().Debugf("delete: slot path = %s", path)
	parent := path.last()
	cow := parent.op.withoutChildAt(parent.index)
	newRoot := path.dropLast().foldR(cloneSeam, cow)
	return Tree{root: newRoot}, nil
}

// Move relocates the subtree identified by nodeID from operator sourceParentID
// to become the last child of operator targetID. payload is the content of the
// moved subtree as seen by the client and must carry nodeID as its id.
// If targetID is RootTarget, the moved subtree becomes the whole tree.
//
// Move returns tree unchanged together with an error if
//
//   - sourceParentID is empty, or nodeID is the root (ErrInvalidMove)
//   - payload does not carry nodeID (ErrInvalidMove)
//   - sourceParentID is not present, or nodeID is not one of its direct
//     children (ErrNotFound)
//   - sourceParentID or targetID denote a leaf (ErrNotOperator)
//   - targetID is nodeID or one of its descendants (ErrInvalidMove)
//   - targetID is not present (ErrNotFound)
//
// The root of a tree cannot be moved by Move; use SetRoot instead.
func (tree Tree) Move(nodeID, sourceParentID, targetID string, payload Node) (Tree, error) {
	if payload == nil {
		return tree, fmt.Errorf("%w: payload for move of %s", ErrNilNode, nodeID)
	}
	if sourceParentID == "" {
		return tree, fmt.Errorf("%w: %s has no source parent", ErrInvalidMove, nodeID)
	}
	if tree.root != nil && tree.root.ID() == nodeID {
		return tree, fmt.Errorf("%w: %s is the root", ErrInvalidMove, nodeID)
	}
	if payload.ID() != nodeID {
		return tree, fmt.Errorf("%w: payload %s does not match node %s", ErrInvalidMove,
			payload.ID(), nodeID)
	}
	// (a) locate source parent
	srcPath, src, found := locate(tree.root, sourceParentID, nil)
	if !found {
		return tree, fmt.Errorf("%w: source parent %s", ErrNotFound, sourceParentID)
	}
	srcOp, ok := src.(Operator)
	if !ok {
		return tree, fmt.Errorf("%w: source parent %s", ErrNotOperator, src)
	}
	at := srcOp.IndexOfChild(nodeID)
	if at < 0 {
		return tree, fmt.Errorf("%w: %s is not a child of %s", ErrNotFound, nodeID, sourceParentID)
	}
	if targetID != RootTarget {
		if err := checkMoveTarget(tree, srcOp.children[at], payload, targetID); err != nil {
			return tree, err
		}
	}
	// (b) remove node from source parent, (c) splice updated parent into tree
	cow := srcOp.withoutChildAt(at)
	spliced := Tree{root: srcPath.foldR(cloneSeam, cow)}
	tracer().Debugf("move: removed %s from %s", nodeID, sourceParentID)
	// (d) moving to the root discards the rest of the tree
	if targetID == RootTarget {
		tracer().Debugf("move: %s becomes new root", nodeID)
		return Tree{root: payload}, nil
	}
	// (e) append payload to target operator
	moved, err := spliced.InsertInto(targetID, payload)
	if err != nil {
		return tree, err
	}
	tracer().Debugf("move: appended %s to %s", nodeID, targetID)
	return moved, nil
}

// checkMoveTarget rejects targets which would create a cycle, i.e. the moved
// node itself or any node within the moved subtree.
func checkMoveTarget(tree Tree, moving Node, payload Node, targetID string) error {
	if targetID == moving.ID() {
		return fmt.Errorf("%w: cannot move %s into itself", ErrInvalidMove, moving.ID())
	}
	if _, _, inside := locate(payload, targetID, nil); inside {
		return fmt.Errorf("%w: target %s is part of the moved subtree", ErrInvalidMove, targetID)
	}
	tpath, target, found := locate(tree.root, targetID, nil)
	if !found {
		return fmt.Errorf("%w: target %s", ErrNotFound, targetID)
	}
	if _, ok := target.(Operator); !ok {
		return fmt.Errorf("%w: target %s", ErrNotOperator, target)
	}
	if tpath.contains(moving.ID()) {
		return fmt.Errorf("%w: target %s is a descendant of %s", ErrInvalidMove, targetID, moving.ID())
	}
	return nil
}

// SetConstant returns a copy of tree where the constant identified by id holds
// value. The node keeps its id.
func (tree Tree) SetConstant(id string, value float64) (Tree, error) {
	node, found := tree.Find(id)
	if !found {
		return tree, fmt.Errorf("%w: constant %s", ErrNotFound, id)
	}
	if _, ok := node.(Constant); !ok {
		return tree, fmt.Errorf("%w: %s", ErrNotConstant, node)
	}
	return tree.Replace(id, ConstantWithID(id, value))
}
