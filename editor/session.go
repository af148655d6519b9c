package editor

import (
	"fmt"
	"sync"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/formula/render"
)

// ChangeFunc is called with the new snapshot and its validity after every
// change of a session's formula.
type ChangeFunc func(tree formula.Tree, valid bool)

// DragItem is a node being dragged in the editor.
type DragItem struct {
	Node           formula.Node // payload, carrying the node's id
	IsNew          bool         // dragged from the palette
	SourceParentID string       // operator the node is dragged out of, if any
}

// ID returns the id of the dragged node.
func (item DragItem) ID() string {
	if item.Node == nil {
		return ""
	}
	return item.Node.ID()
}

// Session is the editing state of one formula.
type Session struct {
	mu       sync.Mutex // guards tree
	tree     formula.Tree
	onChange ChangeFunc
}

// NewSession creates a session editing initial, which may be the empty tree.
// onChange may be nil.
func NewSession(initial formula.Tree, onChange ChangeFunc) *Session {
	if onChange == nil {
		onChange = func(formula.Tree, bool) {}
	}
	return &Session{tree: initial, onChange: onChange}
}

// Tree returns the current snapshot.
func (s *Session) Tree() formula.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Valid returns true if the current formula is complete.
func (s *Session) Valid() bool {
	return s.Tree().IsValid()
}

// Preview renders the current formula.
func (s *Session) Preview(labels render.Labels) string {
	return render.Preview(s.Tree(), labels)
}

// Update replaces the whole formula.
func (s *Session) Update(tree formula.Tree) {
	s.apply("update", func(formula.Tree) (formula.Tree, error) {
		return tree, nil
	})
}

// Remove clears the formula.
func (s *Session) Remove() {
	s.apply("remove", func(formula.Tree) (formula.Tree, error) {
		return formula.Clear(), nil
	})
}

// Delete deletes the node with id nodeID together with its subtree.
// Deleting the root clears the formula.
func (s *Session) Delete(nodeID string) error {
	return s.apply("delete", func(tree formula.Tree) (formula.Tree, error) {
		return tree.Delete(nodeID)
	})
}

// SetConstant changes the value of a constant node.
func (s *Session) SetConstant(nodeID string, value float64) error {
	return s.apply("set constant", func(tree formula.Tree) (formula.Tree, error) {
		return tree.SetConstant(nodeID, value)
	})
}

// SetConstantText changes the value of a constant node to a number entered
// as text. Text which is not a finite number is rejected with
// formula.ErrInvalidConstant.
func (s *Session) SetConstantText(nodeID string, text string) error {
	v, err := formula.ParseConstant(text)
	if err != nil {
		tracer().Errorf("constant %s: %v", nodeID, err)
		return err
	}
	return s.SetConstant(nodeID, v)
}

// DropOnOperator handles item being dropped onto the operator with id
// operatorID. Items from the palette are appended to the operator; items
// dragged out of another operator are moved. Dropping an operator onto
// itself is ignored.
func (s *Session) DropOnOperator(item DragItem, operatorID string) error {
	if item.Node == nil {
		return formula.ErrNilNode
	}
	if item.ID() == operatorID {
		tracer().Debugf("ignoring drop of %s onto itself", operatorID)
		return nil
	}
	return s.apply("drop", func(tree formula.Tree) (formula.Tree, error) {
		if !item.IsNew && item.SourceParentID != "" {
			return tree.Move(item.ID(), item.SourceParentID, operatorID, item.Node)
		}
		return tree.InsertInto(operatorID, item.Node)
	})
}

// DropOnRoot handles item being dropped onto the editor canvas. A palette
// item replaces the formula; a part of the formula becomes the whole formula,
// discarding the rest. Dropping the root onto the canvas is ignored.
func (s *Session) DropOnRoot(item DragItem) error {
	if item.Node == nil {
		return formula.ErrNilNode
	}
	s.mu.Lock()
	isRoot := !s.tree.Empty() && s.tree.Root().ID() == item.ID()
	s.mu.Unlock()
	if !item.IsNew && isRoot {
		tracer().Debugf("ignoring drop of root onto canvas")
		return nil
	}
	return s.apply("drop on root", func(tree formula.Tree) (formula.Tree, error) {
		if item.IsNew {
			return formula.SetRoot(item.Node), nil
		}
		return tree.Move(item.ID(), item.SourceParentID, formula.RootTarget, item.Node)
	})
}

// apply performs exactly one tree operation on the current snapshot. If the
// operation fails, the snapshot is left untouched and no change is reported.
func (s *Session) apply(gesture string, op func(formula.Tree) (formula.Tree, error)) error {
	s.mu.Lock()
	tree, err := op(s.tree)
	if err != nil {
		s.mu.Unlock()
		tracer().Errorf("%s: %v", gesture, err)
		return fmt.Errorf("editor %s: %w", gesture, err)
	}
	s.tree = tree
	s.mu.Unlock()
	valid := tree.IsValid()
	tracer().Debugf("%s: formula now has %d nodes, valid=%v", gesture, tree.Size(), valid)
	s.onChange(tree, valid)
	return nil
}
