/*
Package render produces textual representations of formula trees.

Preview renders a formula the way users see it in a formula editor and in
lists of stored formulas: fully parenthesized, with infix operator symbols and
variable labels taken from a catalog. The output is deterministic; no
precedence-based elision of parentheses takes place.

    ( Temperature + 5 )
    ( ( Temperature × Pressure ) − 3 )

Outline renders the structure of a tree, one node per line, and is meant for
debugging and for command line tools.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/schuko/tracing"
	tp "github.com/xlab/treeprint"
)

// tracer traces with key 'formula.render'.
func tracer() tracing.Trace {
	return tracing.Select("formula.render")
}

// Labels provides display labels for variable slots. catalog.Catalog
// implements it.
type Labels interface {
	Label(formula.Slot) (string, bool)
}

// EmptyOperator is the marker rendered for operators without operands.
const EmptyOperator = "(empty)"

// Symbol returns the infix symbol of an operator kind.
func Symbol(kind formula.OperatorKind) string {
	switch kind {
	case formula.Add:
		return "+"
	case formula.Subtract:
		return "−"
	case formula.Multiply:
		return "×"
	case formula.Divide:
		return "÷"
	}
	return string(kind)
}

// Preview renders tree as a fully parenthesized infix expression.
// An empty tree renders as the empty string. Variables render as their label,
// if labels has one for the variable's slot, and as the raw slot otherwise;
// labels may be nil.
func Preview(tree formula.Tree, labels Labels) string {
	if tree.Empty() {
		return ""
	}
	var sb strings.Builder
	preview(&sb, tree.Root(), labels)
	return sb.String()
}

func preview(sb *strings.Builder, node formula.Node, labels Labels) {
	switch n := node.(type) {
	case formula.Variable:
		sb.WriteString(Label(n.Slot(), labels))
	case formula.Constant:
		sb.WriteString(Number(n.Value()))
	case formula.Operator:
		if n.ChildCount() == 0 {
			sb.WriteString(EmptyOperator)
			return
		}
		sep := " " + Symbol(n.Kind()) + " "
		sb.WriteString("( ")
		for i, ch := range n.Children() {
			if i > 0 {
				sb.WriteString(sep)
			}
			preview(sb, ch, labels)
		}
		sb.WriteString(" )")
	default:
		tracer().Errorf("cannot render node of type %T", node)
		panic(fmt.Sprintf("render: unknown node type %T", node))
	}
}

// Label returns the display label of a variable slot, falling back to the
// raw slot identifier for unmapped slots.
func Label(slot formula.Slot, labels Labels) string {
	if labels != nil {
		if l, ok := labels.Label(slot); ok {
			return l
		}
	}
	return string(slot)
}

// Number renders a float in its canonical decimal form: the shortest
// representation which reads back to the same float, in plain decimal
// notation for magnitudes in [1e-6, 1e21) and in exponent notation otherwise.
// Negative zero renders as "0".
func Number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64) // e.g. 1.5e-07
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// --- Outline ---------------------------------------------------------------

// Outline renders the structure of tree, one node per line, headed by the
// preview of tree. Node ids are printed as meta-values.
func Outline(tree formula.Tree, labels Labels) string {
	if tree.Empty() {
		return "(empty formula)\n"
	}
	header := Preview(tree, labels) + "\n"
	printer := tp.New()
	outline(printer, tree.Root(), labels)
	return header + printer.String()
}

func outline(printer tp.Tree, node formula.Node, labels Labels) {
	switch n := node.(type) {
	case formula.Variable:
		printer.AddMetaNode(n.ID(), fmt.Sprintf("%s [%s]", Label(n.Slot(), labels), n.Slot()))
	case formula.Constant:
		printer.AddMetaNode(n.ID(), Number(n.Value()))
	case formula.Operator:
		v := fmt.Sprintf("%s %s", n.Kind(), Symbol(n.Kind()))
		if n.ChildCount() == 0 {
			v += " " + EmptyOperator
		}
		branch := printer.AddMetaBranch(n.ID(), v)
		for _, ch := range n.Children() {
			outline(branch, ch, labels)
		}
	default:
		panic(fmt.Sprintf("render: unknown node type %T", node))
	}
}
