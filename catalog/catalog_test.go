package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 4, c.Len())
	l, ok := c.Label(formula.V3)
	assert.True(t, ok)
	assert.Equal(t, "Humidity", l)
	_, ok = Catalog{}.Label(formula.V1)
	assert.False(t, ok, "expected empty catalog to leave slots unmapped")
}

func TestNewRejectsBadEntries(t *testing.T) {
	cases := []Entry{
		{formula.Slot("v9"), "Nine"},
		{formula.V1, ""},
	}
	for i, e := range cases {
		_, err := New(e)
		if !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("%d: expected ErrInvalidCatalog for %v, is %v", i, e, err)
		}
	}
	_, err := New(Entry{formula.V1, "A"}, Entry{formula.V1, "B"})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoadYAML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.catalog")
	defer teardown()
	//
	conf := `
variables:
  - slot: v1
    label: Inlet Temperature
  - slot: v2
    label: Line Pressure
`
	c, err := Load(strings.NewReader(conf))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	l, _ := c.Label(formula.V1)
	assert.Equal(t, "Inlet Temperature", l)
	_, ok := c.Label(formula.V4)
	assert.False(t, ok)
	assert.Equal(t, formula.V2, c.Entries()[1].Slot)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.catalog")
	defer teardown()
	//
	for i, conf := range []string{
		"",
		"variables: 7",
		"variables:\n  - slot: v1\n    colour: red\n",
		"variables:\n  - slot: x1\n    label: X\n",
	} {
		_, err := Load(strings.NewReader(conf))
		if !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("%d: expected ErrInvalidCatalog, is %v", i, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formula.catalog")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variables:\n  - slot: v4\n    label: Speed\n"), 0o600))
	c, err := LoadFile(path)
	require.NoError(t, err)
	l, _ := c.Label(formula.V4)
	assert.Equal(t, "Speed", l)
	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
