package kpi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/npillmayer/formula"
	"github.com/npillmayer/formula/codec"
)

// Aggregation selects how the values of a formula are aggregated over time.
type Aggregation string

// Aggregation types, named as they are persisted.
const (
	Median      Aggregation = "median"
	Average     Aggregation = "average"
	Integration Aggregation = "integration"
	Sum         Aggregation = "sum"
)

// Aggregations lists all aggregation types.
var Aggregations = []Aggregation{Median, Average, Integration, Sum}

// MaxNameLength is the maximum number of characters of a record name.
const MaxNameLength = 50

var (
	// ErrIncompleteFormula is returned when attempting to store a formula
	// which is empty or contains operators without operands.
	ErrIncompleteFormula = errors.New("formula is incomplete")
	// ErrInvalidRecord is returned for records failing field validation.
	ErrInvalidRecord = errors.New("invalid KPI record")
)

// Record is a named, stored formula.
type Record struct {
	ID              string      `json:"id"`
	Name            string      `json:"name" validate:"required,max=50"`
	Conditioning    string      `json:"conditioning" validate:"required,conditioning"`
	AggregationType Aggregation `json:"aggregationType" validate:"required,oneof=median average integration sum"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New()
	_ = recordValidate.RegisterValidation("conditioning", validateConditioning)
}

// validateConditioning accepts encoded formulas which decode to a complete tree.
func validateConditioning(fl validator.FieldLevel) bool {
	tree, err := codec.DecodeString(fl.Field().String())
	return err == nil && tree.IsValid()
}

// New creates a record for a formula tree, with a fresh id and timestamps.
// tree has to be a complete formula; otherwise ErrIncompleteFormula is
// returned.
func New(name string, agg Aggregation, tree formula.Tree) (Record, error) {
	conditioning, err := encodeComplete(tree)
	if err != nil {
		return Record{}, err
	}
	now := time.Now().UTC()
	r := Record{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(name),
		Conditioning:    conditioning,
		AggregationType: agg,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	tracer().Debugf("new KPI record %s %q", r.ID, r.Name)
	return r, nil
}

// Validate checks the fields of r: the name is required and limited to
// MaxNameLength characters, the conditioning has to decode to a complete
// formula, and the aggregation type has to be one of Aggregations.
// Validation errors wrap ErrInvalidRecord as well as validator.ValidationErrors.
func (r Record) Validate() error {
	if err := recordValidate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// Formula decodes the conditioning of r.
func (r Record) Formula() (formula.Tree, error) {
	return codec.DecodeString(r.Conditioning)
}

// WithFormula returns a copy of r storing tree as its conditioning, with the
// update time set to now. Like New, it refuses incomplete formulas.
func (r Record) WithFormula(tree formula.Tree) (Record, error) {
	conditioning, err := encodeComplete(tree)
	if err != nil {
		return r, err
	}
	r.Conditioning = conditioning
	r.UpdatedAt = time.Now().UTC()
	return r, nil
}

func encodeComplete(tree formula.Tree) (string, error) {
	if !tree.IsValid() {
		if tree.Empty() {
			return "", fmt.Errorf("%w: formula is empty", ErrIncompleteFormula)
		}
		return "", fmt.Errorf("%w: operators without operands: %v",
			ErrIncompleteFormula, tree.Incomplete())
	}
	return codec.EncodeString(tree)
}

// --- Serialization ---------------------------------------------------------

// Marshal serializes r to JSON, as exchanged with the record store.
func (r Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal parses a JSON record and validates it.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		tracer().Errorf("cannot parse KPI record: %v", err)
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := r.Validate(); err != nil {
		tracer().Errorf("KPI record %s: %v", r.ID, err)
		return Record{}, err
	}
	return r, nil
}
