// Package driver is the diff orchestrator. It pairs the files of two SDK
// trees, parses each side, pairs top-level declarations by key and runs the
// differ over every pair. File pairs are processed in parallel; the event
// order of the result is always the sequential walk order.
package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"fortio.org/safecast"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"apidiff/internal/apinode"
	"apidiff/internal/diag"
	"apidiff/internal/diff"
	"apidiff/internal/observ"
	"apidiff/internal/parser"
	"apidiff/internal/pipeline"
	"apidiff/internal/project"
	"apidiff/internal/trace"
)

// Options configure a run. Parser and Differ are required.
type Options struct {
	Parser     parser.Parser
	Differ     *diff.Differ
	Extensions []string
	Jobs       int
	Kits       *project.KitTable

	// MaxWarnings caps the diagnostics kept; 0 keeps all.
	MaxWarnings uint

	Progress pipeline.ProgressSink
	Timer    *observ.Timer
}

// Result is the outcome of one run.
type Result struct {
	Events  []diff.Event
	Bag     *diag.Bag
	Files   int // file pairs visited
	Skipped int // pairs with identical bytes
	Timings pipeline.Timings
}

// pairResult is written by exactly one worker; slots are indexed by pair.
type pairResult struct {
	events  []diff.Event
	skipped bool
	parse   time.Duration
	compare time.Duration
}

// Diff compares two directory trees, or two single files when both roots are
// files.
func Diff(ctx context.Context, oldRoot, newRoot string, opts Options) (*Result, error) {
	if opts.Parser == nil || opts.Differ == nil {
		return nil, errors.New("driver: parser and differ are required")
	}
	ctx, span := trace.Start(ctx, trace.ScopeRun, "diff")
	defer span.End("")

	maxWarnings, err := safecast.Conv[int](opts.MaxWarnings)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxWarnings)
	reporter := diag.BagReporter{Bag: bag}

	walkStart := time.Now()
	pairs, problems, err := ListPairs(oldRoot, newRoot, opts.Extensions)
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		diag.ReportWarning(reporter, diag.IOWalkError, diag.Position{File: p.Rel}, p.Err.Error()).Emit()
	}
	walkDur := time.Since(walkStart)
	if opts.Timer != nil {
		opts.Timer.Add(string(pipeline.StageWalk), walkDur)
	}
	slogctx.Debug(ctx, "paired files", slog.Int("pairs", len(pairs)), slog.Duration("elapsed", walkDur))

	for _, p := range pairs {
		pipeline.Emit(opts.Progress, pipeline.Event{File: p.display(), Stage: pipeline.StageWalk, Status: pipeline.StatusQueued})
	}

	results := make([]pairResult, len(pairs))
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(pairs))))

	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := comparePair(gctx, p, opts, reporter)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Bag: bag, Files: len(pairs)}
	out.Timings.Add(pipeline.StageWalk, walkDur)
	for _, r := range results {
		out.Events = append(out.Events, r.events...)
		if r.skipped {
			out.Skipped++
		}
		out.Timings.Add(pipeline.StageParse, r.parse)
		out.Timings.Add(pipeline.StageCompare, r.compare)
	}
	if opts.Timer != nil {
		opts.Timer.Add(string(pipeline.StageParse), out.Timings.Duration(pipeline.StageParse))
		opts.Timer.Add(string(pipeline.StageCompare), out.Timings.Duration(pipeline.StageCompare))
		appendTimings(bag, opts.Timer)
	}
	span.WithExtra("events", fmt.Sprint(len(out.Events)))
	return out, nil
}

// ListPairs lists the file pairs of two roots in depth-first, name-sorted
// order. Two file roots form a single pair.
func ListPairs(oldRoot, newRoot string, exts []string) ([]FilePair, []WalkProblem, error) {
	oldInfo, err := os.Stat(oldRoot)
	if err != nil {
		return nil, nil, err
	}
	newInfo, err := os.Stat(newRoot)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case !oldInfo.IsDir() && !newInfo.IsDir():
		return []FilePair{{Rel: newInfo.Name(), Old: oldRoot, New: newRoot}}, nil, nil
	case oldInfo.IsDir() != newInfo.IsDir():
		return nil, nil, fmt.Errorf("%s and %s: %w", oldRoot, newRoot, errKindMismatch)
	}
	w := newWalker(exts)
	if err := w.dir(oldRoot, newRoot, ""); err != nil {
		return nil, nil, err
	}
	return w.pairs, w.problems, nil
}

type timingPayload struct {
	Kind    string               `json:"kind"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func appendTimings(bag *diag.Bag, timer *observ.Timer) {
	report := timer.Report()
	data, err := json.Marshal(timingPayload{Kind: "diff", TotalMS: report.TotalMS, Phases: report.Phases})
	if err != nil {
		return
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, diag.Position{}, fmt.Sprintf("timings (diff): total %.2f ms", report.TotalMS))
	bag.Add(d.WithNote(diag.Position{}, string(data)))
}

func isIOError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}

func parseSide(ctx context.Context, opts Options, path string) ([]*apinode.Node, error) {
	roots, err := opts.Parser.Parse(ctx, path)
	if err != nil {
		return nil, err
	}
	if opts.Kits != nil {
		for _, root := range roots {
			apinode.Enrich(root, opts.Kits.Lookup)
		}
	}
	return apinode.TopLevel(roots), nil
}
