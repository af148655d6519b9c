package codec

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.codec")
	defer teardown()
	//
	tree := formula.Of(formula.OperatorWithID("a", formula.Add,
		formula.VariableWithID("b", formula.V1),
		formula.ConstantWithID("c", 5),
		formula.OperatorWithID("d", formula.Divide)))
	text, err := EncodeString(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","type":"add","args":[
		{"id":"b","type":"variable","variable":"v1"},
		{"id":"c","type":"constant","value":5},
		{"id":"d","type":"divide","args":[]}]}`, text)
}

func TestEmptyTree(t *testing.T) {
	text, err := EncodeString(formula.Tree{})
	require.NoError(t, err)
	assert.Equal(t, "null", text)
	tree, err := DecodeString(" null ")
	require.NoError(t, err)
	assert.True(t, tree.Empty())
}

func TestDecodeStoredFormula(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.codec")
	defer teardown()
	//
	stored := `{"id":"5f0c","type":"subtract","args":[
		{"id":"9a1e","type":"multiply","args":[
			{"id":"11aa","type":"variable","variable":"v2"},
			{"id":"const_k3j2h1g0f","type":"constant","value":0.5}]},
		{"id":"77bb","type":"variable","variable":"v4"}]}`
	tree, err := DecodeString(stored)
	require.NoError(t, err)
	assert.Equal(t, 5, tree.Size())
	assert.True(t, tree.IsValid())
	p, found := tree.Parent("const_k3j2h1g0f")
	require.True(t, found)
	assert.Equal(t, formula.Multiply, p.Kind())
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.codec")
	defer teardown()
	//
	g := generator{rnd: rand.New(rand.NewSource(17))}
	for i := 0; i < 200; i++ {
		tree := formula.Of(g.generate(4))
		text, err := Encode(tree)
		require.NoError(t, err)
		back, err := Decode(text)
		require.NoError(t, err, "cannot decode %s", text)
		if !assert.Equal(t, tree, back, "round trip failed for %s", text) {
			break
		}
	}
}

func TestRoundTripExactNumbers(t *testing.T) {
	tenth, fifth := 0.1, 0.2 // summed at run time, giving 0.30000000000000004
	for _, v := range []float64{
		0, math.Copysign(0, -1), tenth + fifth, math.MaxFloat64,
		math.SmallestNonzeroFloat64, -1e-300, 1e21, 123456789.123456789,
	} {
		tree := formula.Of(formula.ConstantWithID("c", v))
		text, err := Encode(tree)
		require.NoError(t, err)
		back, err := Decode(text)
		require.NoError(t, err)
		c := back.Root().(formula.Constant)
		if math.Float64bits(c.Value()) != math.Float64bits(v) {
			t.Errorf("expected %v to survive round trip, is %v (%s)", v, c.Value(), text)
		}
	}
	if tenth+fifth == 0.3 {
		t.Error("expected inexact sum to differ from 0.3")
	}
}

func TestEncodeRejectsInvalidIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.codec")
	defer teardown()
	//
	for i, id := range []string{"a\xffb", "", formula.RootTarget} {
		tree := formula.Of(formula.OperatorWithID("op", formula.Add,
			formula.ConstantWithID(id, 1)))
		if _, err := Encode(tree); !errors.Is(err, ErrInvalidID) {
			t.Errorf("%d: expected ErrInvalidID for id %q, is %v", i, id, err)
		}
	}
	_, err := Encode(formula.Of(formula.VariableWithID("ü-1", formula.V2)))
	assert.NoError(t, err)
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	tree := formula.Of(formula.NewOperator(formula.Add, formula.NewConstant(math.NaN())))
	_, err := Encode(tree)
	assert.ErrorIs(t, err, formula.ErrInvalidConstant)
	_, err = Encode(formula.Of(formula.NewConstant(math.Inf(1))))
	assert.ErrorIs(t, err, formula.ErrInvalidConstant)
}

func TestDecodeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.codec")
	defer teardown()
	//
	cases := []struct {
		text string
		path string
	}{
		{``, "$"},
		{`{`, "$"},
		{`[]`, "$"},
		{`{"type":"add","args":[]}`, "$"},
		{`{"id":"root","type":"add","args":[]}`, "$"},
		{`{"id":"a","type":"power","args":[]}`, "$"},
		{`{"id":"a","type":"variable","variable":"v7"}`, "$"},
		{`{"id":"a","type":"constant"}`, "$"},
		{`{"id":"a","type":"constant","value":"5"}`, "$"},
		{`{"id":"a","type":"add","args":{}}`, "$"},
		{`{"id":"a","type":"add","args":[null]}`, "$.args[0]"},
		{`{"id":"a","type":"add","args":[{"id":"b","type":"add","args":[{"id":"c","type":"x"}]}]}`, "$.args[0].args[0]"},
		{`{"ID":"a","TYPE":"variable","Variable":"v1"}`, "$"},
		{`{"id":"a","type":"add","args":[{"id":"b","type":"constant","Value":1}]}`, "$.args[0]"},
	}
	for i, c := range cases {
		_, err := DecodeString(c.text)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%d: expected ParseError for %q, is %v", i, c.text, err)
			continue
		}
		if perr.Path != c.path {
			t.Errorf("%d: expected error path %s, is %s", i, c.path, perr.Path)
		}
		if errors.Is(err, formula.ErrNotFound) {
			t.Errorf("%d: expected ParseError to be distinct from NotFound", i)
		}
	}
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	_, err := DecodeString(`{"id":"a","type":"add","args":[
		{"id":"b","type":"constant","value":1},
		{"id":"b","type":"constant","value":2}]}`)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, formula.ErrDuplicateID)
	assert.Equal(t, "$.args[1]", perr.Path)
}

func TestDecodeMissingArgs(t *testing.T) {
	tree, err := DecodeString(`{"id":"a","type":"multiply"}`)
	require.NoError(t, err)
	assert.False(t, tree.IsValid())
	op := tree.Root().(formula.Operator)
	assert.Equal(t, 0, op.ChildCount())
}

// --- Random trees ----------------------------------------------------------

type generator struct {
	rnd *rand.Rand
}

func (g generator) generate(maxDepth int) formula.Node {
	if maxDepth == 0 || g.rnd.Intn(maxDepth+1) == 0 {
		if g.rnd.Intn(2) == 0 {
			return formula.NewVariable(formula.Slots[g.rnd.Intn(len(formula.Slots))])
		}
		return formula.NewConstant(g.rnd.NormFloat64() * 1000)
	}
	kind := formula.OperatorKinds[g.rnd.Intn(len(formula.OperatorKinds))]
	n := g.rnd.Intn(4)
	children := make([]formula.Node, n)
	for i := range children {
		children[i] = g.generate(maxDepth - 1)
	}
	return formula.NewOperator(kind, children...)
}
