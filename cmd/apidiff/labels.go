package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"apidiff/internal/diag"
	"apidiff/internal/diagfmt"
	"apidiff/internal/labelcheck"
)

var (
	labelsSelect string
	labelsMutex  []string
	labelsFormat string
	labelsJobs   int
)

var labelsCmd = &cobra.Command{
	Use:   "labels <api-tree.json>...",
	Short: "Check label consistency in a JS API tree",
	Long: `Check that platform labels (crossplatform, form, atomicservice) agree
between declarations and their members, parameters, return values and
referenced types. The input is the API tree dumped by the SDK parser.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLabels,
}

func init() {
	labelsCmd.Flags().StringVarP(&labelsSelect, "label", "l", "default", "labels to check (comma separated, or default for all)")
	labelsCmd.Flags().StringSliceVar(&labelsMutex, "mutex", nil, "mutually exclusive label pairs, e.g. form:atomicservice")
	labelsCmd.Flags().StringVarP(&labelsFormat, "format", "f", "json", "output format (json|pretty)")
	labelsCmd.Flags().IntVarP(&labelsJobs, "jobs", "j", 0, "parallel trees (0 = GOMAXPROCS)")
}

func parseMutex(pairs []string) ([][2]labelcheck.Label, error) {
	var out [][2]labelcheck.Label
	for _, p := range pairs {
		a, b, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --mutex %q (expected a:b)", p)
		}
		left, err := labelcheck.ParseLabels(a)
		if err != nil {
			return nil, err
		}
		right, err := labelcheck.ParseLabels(b)
		if err != nil {
			return nil, err
		}
		if len(left) != 1 || len(right) != 1 || left[0] == right[0] {
			return nil, fmt.Errorf("invalid --mutex %q: need two different labels", p)
		}
		out = append(out, [2]labelcheck.Label{left[0], right[0]})
	}
	return out, nil
}

func runLabels(cmd *cobra.Command, args []string) error {
	labels, err := labelcheck.ParseLabels(labelsSelect)
	if err != nil {
		return err
	}
	mutex, err := parseMutex(labelsMutex)
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	var roots []*labelcheck.API
	for _, path := range args {
		trees, err := labelcheck.Load(path)
		if err != nil {
			diag.ReportError(reporter, diag.LabelMalformedAPI, diag.Position{File: path}, err.Error()).Emit()
			continue
		}
		roots = append(roots, trees...)
	}

	findings, err := labelcheck.Check(ctx, roots, labelcheck.Options{Labels: labels, Mutex: mutex, Jobs: labelsJobs})
	if err != nil {
		return err
	}
	slogctx.Info(ctx, "label check finished", slog.Int("trees", len(roots)), slog.Int("findings", len(findings)))

	out := cmd.OutOrStdout()
	switch strings.ToLower(labelsFormat) {
	case "json":
		if findings == nil {
			findings = []labelcheck.Finding{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(findings); err != nil {
			return err
		}
		if err := diagfmt.PrettyDiagnostics(cmd.ErrOrStderr(), bag.Items(), diagfmt.Opts{Color: useColor}); err != nil {
			return err
		}
	case "pretty":
		labelcheck.Report(reporter, findings)
		if err := diagfmt.PrettyDiagnostics(out, bag.Items(), diagfmt.Opts{Color: useColor}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q (must be json or pretty)", labelsFormat)
	}
	if bag.HasErrors() {
		return &exitError{code: 1, err: fmt.Errorf("%d input file(s) could not be read", countErrors(bag))}
	}
	return nil
}

func countErrors(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}
