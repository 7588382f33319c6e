package labelcheck

import (
	"context"
	"log/slog"
	"runtime"

	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"apidiff/internal/diag"
	"apidiff/internal/trace"
)

// Options configure Check. Empty Labels means every label.
type Options struct {
	Labels []Label
	// Mutex lists label pairs that must not both be set on one API.
	Mutex [][2]Label
	Jobs  int
}

// Check runs every rule over the trees. Roots are checked in parallel; the
// findings keep root order, then depth-first node order, then label order.
func Check(ctx context.Context, roots []*API, opts Options) ([]Finding, error) {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "labels")
	defer span.End("")

	labels := opts.Labels
	if len(labels) == 0 {
		labels = AllLabels
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	slots := make([][]Finding, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := checker{labels: labels, mutex: opts.Mutex}
			c.walk(root)
			slots[i] = c.out
			if len(c.out) > 0 {
				slogctx.Debug(gctx, "label findings", slog.String("file", root.FilePath), slog.Int("count", len(c.out)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Finding
	for _, s := range slots {
		out = append(out, s...)
	}
	return out, nil
}

type checker struct {
	labels []Label
	mutex  [][2]Label
	out    []Finding
}

func (c *checker) walk(a *API) {
	if a == nil {
		return
	}
	for _, pair := range c.mutex {
		c.out = append(c.out, checkMutex(a, pair)...)
	}
	for _, l := range c.labels {
		switch a.Type {
		case "Method":
			c.out = append(c.out, checkMethod(a, l)...)
		case "Class", "Interface", "Namespace", "Struct":
			c.out = append(c.out, checkContainer(a, l)...)
			c.out = append(c.out, checkPaired(a, l)...)
		case "Enum":
			c.out = append(c.out, checkEnum(a, l)...)
		}
	}
	for _, child := range a.Children {
		c.walk(child)
	}
}

// Report turns findings into warnings.
func Report(r diag.Reporter, findings []Finding) {
	for _, f := range findings {
		pos := diag.Position{File: f.FilePath, Line: f.Line, Column: f.Column, Decl: f.DefinedText}
		diag.ReportWarning(r, diag.LabelInconsistent, pos, string(f.ErrorType)+": "+f.ErrorMessage).Emit()
	}
}
