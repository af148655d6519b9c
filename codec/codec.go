/*
Package codec serializes formula trees to JSON and back.

The format is the one persisted as the “conditioning” of a KPI record.
Every node is a JSON object carrying its id and a type tag:

    {"id":"…","type":"add","args":[ … ]}          operators: add, subtract, multiply, divide
    {"id":"…","type":"variable","variable":"v1"}  variables
    {"id":"…","type":"constant","value":5}        constants

The empty tree is encoded as JSON null. Decoding an encoded tree yields a tree
equal to the original, including ids, child order and exact numeric values.

Decode rejects input which would not result in a well-formed tree: malformed
JSON, unknown type tags or variable slots, missing or reserved ids, and
duplicate ids. Keys are matched exactly; "ID" is not "id". All decoding errors
are of type *ParseError.

Encode refuses trees which would not survive a round trip: ids have to be
non-empty, valid UTF-8 and must not be formula.RootTarget, and constants have
to be finite.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/npillmayer/formula"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formula.codec'.
func tracer() tracing.Trace {
	return tracing.Select("formula.codec")
}

// Type tags for leaf nodes. Operators are tagged with their kind.
const (
	TypeVariable = "variable"
	TypeConstant = "constant"
)

// ErrInvalidID is returned by Encode for node ids which cannot be stored.
var ErrInvalidID = errors.New("invalid node id")

// ParseError is returned for encoded text which cannot be decoded into a
// well-formed formula tree.
type ParseError struct {
	Path string // JSON path of the offending node, e.g. "$.args[1]"
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula codec: cannot decode node at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// --- Encoding --------------------------------------------------------------

type operatorJSON struct {
	ID   string        `json:"id"`
	Type string        `json:"type"`
	Args []interface{} `json:"args"`
}

type variableJSON struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Variable string `json:"variable"`
}

type constantJSON struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Encode serializes tree to JSON. Constants have to be finite numbers.
func Encode(tree formula.Tree) ([]byte, error) {
	if tree.Empty() {
		return []byte("null"), nil
	}
	w, err := toWire(tree.Root())
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// EncodeString is like Encode, returning a string.
func EncodeString(tree formula.Tree) (string, error) {
	b, err := Encode(tree)
	return string(b), err
}

func toWire(node formula.Node) (interface{}, error) {
	if err := checkID(node.ID()); err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case formula.Variable:
		return variableJSON{ID: n.ID(), Type: TypeVariable, Variable: string(n.Slot())}, nil
	case formula.Constant:
		if math.IsNaN(n.Value()) || math.IsInf(n.Value(), 0) {
			return nil, fmt.Errorf("formula codec: cannot encode non-finite constant %s: %w",
				n.ID(), formula.ErrInvalidConstant)
		}
		return constantJSON{ID: n.ID(), Type: TypeConstant, Value: n.Value()}, nil
	case formula.Operator:
		args := make([]interface{}, 0, n.ChildCount())
		for _, ch := range n.Children() {
			w, err := toWire(ch)
			if err != nil {
				return nil, err
			}
			args = append(args, w)
		}
		return operatorJSON{ID: n.ID(), Type: string(n.Kind()), Args: args}, nil
	}
	panic(fmt.Sprintf("formula codec: unknown node type %T", node))
}

func checkID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("formula codec: cannot encode node: %w: empty", ErrInvalidID)
	case id == formula.RootTarget:
		return fmt.Errorf("formula codec: cannot encode node: %w: %q is reserved", ErrInvalidID, id)
	case !utf8.ValidString(id):
		return fmt.Errorf("formula codec: cannot encode node: %w: %q is not valid UTF-8", ErrInvalidID, id)
	}
	return nil
}

// --- Decoding --------------------------------------------------------------

// wireKeys are the keys of encoded nodes.
var wireKeys = []string{"id", "type", "args", "variable", "value"}

type nodeJSON struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Args     []json.RawMessage `json:"args"`
	Variable string            `json:"variable"`
	Value    *float64          `json:"value"`
}

// Decode parses JSON text into a formula tree. JSON null decodes to the empty
// tree. Errors are of type *ParseError; duplicate ids are reported as a
// ParseError wrapping formula.ErrDuplicateID.
func Decode(data []byte) (formula.Tree, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return formula.Tree{}, &ParseError{Path: "$", Err: fmt.Errorf("empty input")}
	}
	if bytes.Equal(data, []byte("null")) {
		return formula.Tree{}, nil
	}
	d := decoder{seen: make(map[string]string)}
	root, err := d.node(data, "$")
	if err != nil {
		tracer().Errorf("decode: %v", err)
		return formula.Tree{}, err
	}
	tracer().Debugf("decoded formula with %d nodes", len(d.seen))
	return formula.Of(root), nil
}

// DecodeString is like Decode, taking a string.
func DecodeString(text string) (formula.Tree, error) {
	return Decode([]byte(text))
}

type decoder struct {
	seen map[string]string // id -> path of first occurrence
}

func (d decoder) node(data []byte, path string) (formula.Node, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("node is null")}
	}
	var n nodeJSON
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := checkKeys(data); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if n.ID == "" {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("missing node id")}
	}
	if n.ID == formula.RootTarget {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("node id %q is reserved", n.ID)}
	}
	if first, dup := d.seen[n.ID]; dup {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: %s (first seen at %s)",
			formula.ErrDuplicateID, n.ID, first)}
	}
	d.seen[n.ID] = path
	switch n.Type {
	case TypeVariable:
		slot := formula.Slot(n.Variable)
		if !slot.Valid() {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("unknown variable slot %q", n.Variable)}
		}
		return formula.VariableWithID(n.ID, slot), nil
	case TypeConstant:
		if n.Value == nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("constant without value")}
		}
		return formula.ConstantWithID(n.ID, *n.Value), nil
	}
	kind := formula.OperatorKind(n.Type)
	if !kind.Valid() {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unknown node type %q", n.Type)}
	}
	children := make([]formula.Node, 0, len(n.Args))
	for i, arg := range n.Args {
		ch, err := d.node(arg, fmt.Sprintf("%s.args[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, ch)
	}
	return formula.OperatorWithID(n.ID, kind, children...), nil
}

// checkKeys rejects keys which differ from a wire key in case only. The JSON
// decoder would silently match them.
func checkKeys(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key := range fields {
		for _, w := range wireKeys {
			if key != w && strings.EqualFold(key, w) {
				return fmt.Errorf("unknown key %q, expected %q", key, w)
			}
		}
	}
	return nil
}
