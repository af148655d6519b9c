package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/formula"
	"github.com/npillmayer/formula/catalog"
	"github.com/npillmayer/formula/codec"
	"github.com/npillmayer/formula/kpi"
	"github.com/npillmayer/formula/render"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

type options struct {
	catalogPath string
	record      bool
	verbose     bool
	name        string
	aggregation string
}

// input is a formula read from a file.
type input struct {
	path string
	name string // record name, if read from a record
	tree formula.Tree
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "formulatool",
		Short:        "Inspect stored formulas",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
				tracing.Select("formula").SetTraceLevel(tracing.LevelDebug)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "YAML file with variable labels")
	rootCmd.PersistentFlags().BoolVar(&opts.record, "record", false, "input files contain KPI records")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "trace to stderr")

	previewCmd := &cobra.Command{
		Use:   "preview [file...]",
		Short: "Print formulas as infix expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args, opts)
		},
	}
	checkCmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Check formulas for completeness",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}
	outlineCmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Print the tree structure of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutline(cmd, args, opts)
		},
	}
	recordCmd := &cobra.Command{
		Use:   "record [file]",
		Short: "Wrap a formula into a new KPI record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, args, opts)
		},
	}
	recordCmd.Flags().StringVar(&opts.name, "name", "", "name of the KPI")
	recordCmd.Flags().StringVar(&opts.aggregation, "aggregation", string(kpi.Average),
		"aggregation type (median, average, integration, sum)")
	rootCmd.AddCommand(previewCmd, checkCmd, outlineCmd, recordCmd)
	return rootCmd
}

func runPreview(cmd *cobra.Command, args []string, opts *options) error {
	labels, err := loadCatalog(opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, path := range args {
		in, err := readInput(cmd, path, opts)
		if err != nil {
			return err
		}
		if in.name != "" {
			fmt.Fprintf(out, "%s: %s\n", in.name, render.Preview(in.tree, labels))
			continue
		}
		fmt.Fprintln(out, render.Preview(in.tree, labels))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string, opts *options) error {
	out := cmd.OutOrStdout()
	incomplete := 0
	for _, path := range args {
		in, err := readInput(cmd, path, opts)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			incomplete++
			continue
		}
		switch {
		case in.tree.IsValid():
			fmt.Fprintf(out, "%s: ok\n", path)
		case in.tree.Empty():
			fmt.Fprintf(out, "%s: empty\n", path)
			incomplete++
		default:
			fmt.Fprintf(out, "%s: incomplete, operators without operands: %s\n",
				path, strings.Join(in.tree.Incomplete(), ", "))
			incomplete++
		}
	}
	if incomplete > 0 {
		return fmt.Errorf("%d of %d formulas cannot be stored", incomplete, len(args))
	}
	return nil
}

func runOutline(cmd *cobra.Command, args []string, opts *options) error {
	labels, err := loadCatalog(opts)
	if err != nil {
		return err
	}
	in, err := readInput(cmd, args[0], opts)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), render.Outline(in.tree, labels))
	return nil
}

func runRecord(cmd *cobra.Command, args []string, opts *options) error {
	in, err := readInput(cmd, args[0], opts)
	if err != nil {
		return err
	}
	name := opts.name
	if name == "" {
		name = in.name
	}
	rec, err := kpi.New(name, kpi.Aggregation(opts.aggregation), in.tree)
	if err != nil {
		return err
	}
	data, err := rec.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// --- Input -----------------------------------------------------------------

func loadCatalog(opts *options) (catalog.Catalog, error) {
	if opts.catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(opts.catalogPath)
}

func readInput(cmd *cobra.Command, path string, opts *options) (input, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return input{}, err
	}
	if opts.record {
		rec, err := kpi.Unmarshal(data)
		if err != nil {
			return input{}, fmt.Errorf("%s: %w", path, err)
		}
		tree, err := rec.Formula()
		if err != nil {
			return input{}, fmt.Errorf("%s: %w", path, err)
		}
		return input{path: path, name: rec.Name, tree: tree}, nil
	}
	tree, err := codec.Decode(data)
	if err != nil {
		return input{}, fmt.Errorf("%s: %w", path, err)
	}
	return input{path: path, tree: tree}, nil
}
