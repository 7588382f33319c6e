package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apidiff/internal/driver"
)

var unitReport reportFlags

var unitCmd = &cobra.Command{
	Use:   "unit <old> <new>",
	Short: "Compare two single translation units",
	Long: `Compare two parsed translation units (node-tree JSON, or headers when a
parser command is configured) without walking directories.`,
	Args: cobra.ExactArgs(2),
	RunE: runUnit,
}

func init() {
	unitReport.register(unitCmd)
}

func runUnit(cmd *cobra.Command, args []string) (err error) {
	oldPath, newPath := args[0], args[1]
	for _, p := range args {
		info, statErr := os.Stat(p)
		if statErr != nil {
			return statErr
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory; use apidiff diff", p)
		}
	}

	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	maxWarnings, err := cmd.Root().PersistentFlags().GetUint("max-warnings")
	if err != nil {
		return err
	}
	tracer, stopTracing, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer stopTracing()
	defer func() {
		if err != nil {
			dumpTraceRing(cmd, tracer)
		}
	}()

	cfg, err := loadConfig(cmd, newPath)
	if err != nil {
		return err
	}
	opts, differBag, _, err := diffOptions(cfg, maxWarnings)
	if err != nil {
		return err
	}
	opts.Jobs = 1

	res, err := driver.Diff(cmd.Context(), oldPath, newPath, opts)
	if err != nil {
		return err
	}
	res.Bag.Merge(differBag)
	res.Bag.Sort()

	return writeReport(cmd, &unitReport, reportInput{
		events:  res.Events,
		diags:   res.Bag.Items(),
		files:   res.Files,
		skipped: res.Skipped,
	}, useColor)
}
