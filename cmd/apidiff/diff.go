package main

import (
	"fmt"
	"log/slog"

	"fortio.org/safecast"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"apidiff/internal/diag"
	"apidiff/internal/doctag"
	"apidiff/internal/driver"
	"apidiff/internal/observ"
	"apidiff/internal/project"
)

var (
	diffReport reportFlags
	diffJobs   int
	diffUI     string
	diffExts   []string
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-root> <new-root>",
	Short: "Compare two SDK header trees",
	Long: `Compare two SDK header trees (or two single files). Files are paired by
relative path; a file present on one side only reports every declaration as
added or removed.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffReport.register(diffCmd)
	diffCmd.Flags().IntVarP(&diffJobs, "jobs", "j", 0, "parallel file pairs (0 = config or GOMAXPROCS)")
	diffCmd.Flags().StringVar(&diffUI, "ui", "auto", "progress view (auto|on|off)")
	diffCmd.Flags().StringSliceVar(&diffExts, "ext", nil, "file extensions to compare (default from config)")
}

func runDiff(cmd *cobra.Command, args []string) (err error) {
	oldRoot, newRoot := args[0], args[1]

	mode, err := readUIMode(diffUI)
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	maxWarnings, err := cmd.Root().PersistentFlags().GetUint("max-warnings")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
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

	cfg, err := loadConfig(cmd, newRoot)
	if err != nil {
		return err
	}
	opts, differBag, memo, err := diffOptions(cfg, maxWarnings)
	if err != nil {
		return err
	}
	if len(diffExts) > 0 {
		opts.Extensions = diffExts
	}
	if diffJobs > 0 {
		opts.Jobs = diffJobs
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	ctx := cmd.Context()
	var res *driver.Result
	if shouldUseTUI(mode) {
		res, err = runDiffWithUI(ctx, fmt.Sprintf("apidiff %s → %s", oldRoot, newRoot), oldRoot, newRoot, opts)
	} else {
		res, err = driver.Diff(ctx, oldRoot, newRoot, opts)
	}
	if err != nil {
		return err
	}
	res.Bag.Merge(differBag)
	res.Bag.Sort()
	hits, misses := memo.Stats()
	slogctx.Debug(ctx, "tokenizer cache", slog.Int("hits", hits), slog.Int("misses", misses))

	slogctx.Info(ctx, "diff finished",
		slog.Int("files", res.Files),
		slog.Int("identical", res.Skipped),
		slog.Int("events", len(res.Events)),
		slog.Int("warnings", res.Bag.Len()))
	if timer != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), timer.Summary())
	}

	return writeReport(cmd, &diffReport, reportInput{
		events:  res.Events,
		diags:   res.Bag.Items(),
		files:   res.Files,
		skipped: res.Skipped,
		baseDir: newRoot,
	}, useColor)
}

// diffOptions builds the driver options from cfg. The returned bag collects
// the differ's own warnings.
func diffOptions(cfg project.Config, maxWarnings uint) (driver.Options, *diag.Bag, *doctag.Memo, error) {
	p, err := buildParser(cfg)
	if err != nil {
		return driver.Options{}, nil, nil, err
	}
	limit, err := safecast.Conv[int](maxWarnings)
	if err != nil {
		return driver.Options{}, nil, nil, err
	}
	differ, memo, bag, err := newDiffer(cfg, limit)
	if err != nil {
		return driver.Options{}, nil, nil, err
	}
	return driver.Options{
		Parser:      p,
		Differ:      differ,
		Extensions:  cfg.FileExtensions(),
		Jobs:        cfg.Diff.Jobs,
		Kits:        cfg.KitTable(),
		MaxWarnings: maxWarnings,
	}, bag, memo, nil
}
