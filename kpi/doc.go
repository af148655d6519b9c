/*
Package kpi holds the stored representation of a formula: a KPI record.

A KPI record names a formula, stores the formula's encoded tree as its
“conditioning” and selects how measured values are aggregated. Records are
what a host application persists; this package does not store them.

    rec, err := kpi.New("Heat index", kpi.Average, tree)
    ...
    tree, err = rec.Formula()

Only complete formulas (see formula.Tree.IsValid) may be stored.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package kpi

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formula.kpi'.
func tracer() tracing.Trace {
	return tracing.Select("formula.kpi")
}
