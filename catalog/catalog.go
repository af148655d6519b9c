/*
Package catalog holds the fixed set of measurement variables a formula may
refer to, together with their human readable labels.

The catalog is external configuration: the formula engine consumes it (for
rendering previews), it never computes it. Applications either use Default()
or load a catalog from YAML:

    variables:
      - slot: v1
        label: Temperature
      - slot: v2
        label: Pressure

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'formula.catalog'.
func tracer() tracing.Trace {
	return tracing.Select("formula.catalog")
}

// ErrInvalidCatalog is returned for catalog configurations which cannot be used.
var ErrInvalidCatalog = errors.New("invalid variable catalog")

// Entry binds a variable slot to a label.
type Entry struct {
	Slot  formula.Slot `yaml:"slot"`
	Label string       `yaml:"label"`
}

// Catalog maps variable slots to labels. The zero value is an empty catalog,
// in which every slot is unmapped.
type Catalog struct {
	entries []Entry
	labels  map[formula.Slot]string
}

// Default returns the standard catalog of four measurement variables.
func Default() Catalog {
	c, err := New(
		Entry{formula.V1, "Temperature"},
		Entry{formula.V2, "Pressure"},
		Entry{formula.V3, "Humidity"},
		Entry{formula.V4, "Speed"},
	)
	if err != nil {
		panic(err) // default entries are known to be valid
	}
	return c
}

// New creates a catalog from a list of entries. Slots have to be known to
// package formula, labels must not be empty, and every slot may occur at
// most once. Slots may be left out; they will render unmapped.
func New(entries ...Entry) (Catalog, error) {
	c := Catalog{
		entries: make([]Entry, 0, len(entries)),
		labels:  make(map[formula.Slot]string, len(entries)),
	}
	for _, e := range entries {
		if !e.Slot.Valid() {
			return Catalog{}, fmt.Errorf("%w: unknown slot %q", ErrInvalidCatalog, e.Slot)
		}
		if e.Label == "" {
			return Catalog{}, fmt.Errorf("%w: empty label for slot %s", ErrInvalidCatalog, e.Slot)
		}
		if _, dup := c.labels[e.Slot]; dup {
			return Catalog{}, fmt.Errorf("%w: slot %s configured twice", ErrInvalidCatalog, e.Slot)
		}
		c.labels[e.Slot] = e.Label
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Label returns the label configured for slot.
func (c Catalog) Label(slot formula.Slot) (string, bool) {
	l, ok := c.labels[slot]
	return l, ok
}

// Entries returns the configured entries in configuration order.
func (c Catalog) Entries() []Entry {
	e := make([]Entry, len(c.entries))
	copy(e, c.entries)
	return e
}

// Len returns the number of configured variables.
func (c Catalog) Len() int {
	return len(c.entries)
}

// --- Loading ---------------------------------------------------------------

type config struct {
	Variables []Entry `yaml:"variables"`
}

// Load reads a catalog configuration in YAML format.
func Load(r io.Reader) (Catalog, error) {
	var conf config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, fmt.Errorf("%w: empty configuration", ErrInvalidCatalog)
		}
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c, err := New(conf.Variables...)
	if err != nil {
		return c, err
	}
	tracer().Debugf("loaded variable catalog with %d entries", c.Len())
	return c, nil
}

// LoadFile reads a catalog configuration from a YAML file.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		tracer().Errorf("cannot open variable catalog: %v", err)
		return Catalog{}, err
	}
	defer f.Close()
	return Load(f)
}
