package formula_test

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/formula/catalog"
	"github.com/npillmayer/formula/codec"
	"github.com/npillmayer/formula/render"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func randomNode(rnd *rand.Rand, depth int) formula.Node {
	if depth == 0 || rnd.Intn(3) == 0 {
		if rnd.Intn(2) == 0 {
			return formula.NewVariable(formula.Slots[rnd.Intn(len(formula.Slots))])
		}
		return formula.NewConstant(float64(rnd.Intn(100)))
	}
	children := make([]formula.Node, rnd.Intn(4))
	for i := range children {
		children[i] = randomNode(rnd, depth-1)
	}
	return formula.NewOperator(formula.OperatorKinds[rnd.Intn(4)], children...)
}

func subtreeIDs(tree formula.Tree, id string) map[string]bool {
	node, _ := tree.Find(id)
	ids := make(map[string]bool)
	for _, x := range formula.Of(node).IDs() {
		ids[x] = true
	}
	return ids
}

func TestDeleteRemovesExactlySubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula")
	defer teardown()
	tracing.Select("formula").SetTraceLevel(tracing.LevelError)
	//
	rnd := rand.New(rand.NewSource(4711))
	for i := 0; i < 50; i++ {
		tree := formula.Of(randomNode(rnd, 4))
		for _, id := range tree.IDs() {
			gone := subtreeIDs(tree, id)
			result, err := tree.Delete(id)
			if err != nil {
				t.Fatalf("expected delete of %s to succeed, is %v", id, err)
			}
			if id == tree.Root().ID() {
				if !result.Empty() || result.IsValid() {
					t.Fatalf("expected deletion of root to yield empty, invalid tree")
				}
				continue
			}
			if result.Size() != tree.Size()-len(gone) {
				t.Errorf("expected %d nodes after delete, have %d", tree.Size()-len(gone), result.Size())
			}
			for _, x := range tree.IDs() {
				if result.Contains(x) == gone[x] {
					t.Errorf("expected node %s to be present=%v after deleting %s", x, !gone[x], id)
				}
			}
		}
	}
}

func TestMoveThenParentIsTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula")
	defer teardown()
	tracing.Select("formula").SetTraceLevel(tracing.LevelError)
	//
	rnd := rand.New(rand.NewSource(815))
	moves := 0
	for i := 0; i < 100; i++ {
		tree := formula.Of(randomNode(rnd, 4))
		ids := tree.IDs()
		nodeID, targetID := ids[rnd.Intn(len(ids))], ids[rnd.Intn(len(ids))]
		src, ok := tree.Parent(nodeID)
		if !ok {
			continue
		}
		payload, _ := tree.Find(nodeID)
		result, err := tree.Move(nodeID, src.ID(), targetID, payload)
		if err != nil {
			if result.Size() != tree.Size() {
				t.Fatalf("expected failed move to leave tree unchanged")
			}
			continue
		}
		moves++
		p, ok := result.Parent(nodeID)
		if !ok || p.ID() != targetID {
			t.Errorf("expected %s to be child of %s after move, isn't", nodeID, targetID)
		}
		if result.Size() != tree.Size() {
			t.Errorf("expected move to preserve all %d nodes, have %d", tree.Size(), result.Size())
		}
		if last, _ := p.Child(p.ChildCount() - 1); last.ID() != nodeID {
			t.Errorf("expected moved node to be last child of target")
		}
	}
	if moves == 0 {
		t.Error("expected some moves to succeed")
	}
}

func TestSingleChildOperatorScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula")
	defer teardown()
	//
	v1, v2 := formula.NewVariable(formula.V1), formula.NewVariable(formula.V2)
	add := formula.NewOperator(formula.Add, v1, v2)
	sub := formula.NewOperator(formula.Subtract, add, formula.NewConstant(3))
	tree := formula.Of(sub)
	tree, err := tree.Move(v2.ID(), add.ID(), sub.ID(), v2)
	if err != nil {
		t.Fatal(err)
	}
	if out := render.Preview(tree, catalog.Default()); out != "( ( Temperature ) − 3 − Pressure )" {
		t.Errorf("unexpected preview after move: %q", out)
	}
	if !tree.IsValid() {
		t.Error("expected single-child operator to be valid")
	}
	text, err := codec.Encode(tree)
	if err != nil {
		t.Fatal(err)
	}
	back, err := codec.Decode(text)
	if err != nil {
		t.Fatal(err)
	}
	if render.Preview(back, nil) != "( ( v1 ) − 3 − v2 )" {
		t.Errorf("expected decoded tree to render like the original, is %q", render.Preview(back, nil))
	}
}
