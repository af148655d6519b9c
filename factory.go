package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// All node kinds draw their ids from the same generator (random UUIDs).
// RootTarget is never produced.
func newID() string {
	return uuid.NewString()
}

// NewOperator creates an operator node with a fresh id and the given children
// (none by default).
func NewOperator(kind OperatorKind, children ...Node) Operator {
	return OperatorWithID(newID(), kind, children...)
}

// NewVariable creates a variable node with a fresh id.
func NewVariable(slot Slot) Variable {
	return VariableWithID(newID(), slot)
}

// NewConstant creates a constant node with a fresh id. Palette drops use
// NewConstant(0).
func NewConstant(value float64) Constant {
	return ConstantWithID(newID(), value)
}

// ParseConstant parses user input for a constant value. Surrounding white
// space is ignored; NaN and infinities are rejected.
func ParseConstant(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidConstant, text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidConstant, text)
	}
	return f, nil
}

// NewConstantFromText creates a constant node with a fresh id from user input.
func NewConstantFromText(text string) (Constant, error) {
	f, err := ParseConstant(text)
	if err != nil {
		return Constant{}, err
	}
	return NewConstant(f), nil
}
