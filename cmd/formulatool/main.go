/*
Formulatool inspects stored formulas from the command line.

Input files contain either the encoded formula tree, as stored as the
conditioning of a KPI record, or (with flag --record) a complete KPI record.
A file name of "-" reads from standard input.

	formulatool preview heat.json
	formulatool check --record kpis/*.json
	formulatool outline --catalog plant.yaml heat.json
	formulatool record --name "Heat index" --aggregation average heat.json

Variable labels are taken from a YAML catalog (flag --catalog); without one,
the built-in catalog is used.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
