package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"apidiff/internal/apinode"
	"apidiff/internal/diag"
	"apidiff/internal/diff"
	"apidiff/internal/doctag"
	"apidiff/internal/pairing"
	"apidiff/internal/pipeline"
	"apidiff/internal/project"
	"apidiff/internal/trace"
)

// comparePair handles one file pair. Problems with the pair itself become
// warnings in the bag; only cancellation is returned as an error.
func comparePair(ctx context.Context, p FilePair, opts Options, r diag.Reporter) (pairResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, p.display())
	defer span.End("")
	ctx = slogctx.With(ctx, slog.String("file", p.display()))

	var res pairResult
	progress := func(stage pipeline.Stage, status pipeline.Status, err error, elapsed time.Duration) {
		pipeline.Emit(opts.Progress, pipeline.Event{
			File: p.display(), Stage: stage, Status: status, Err: err,
			Elapsed: elapsed, Events: len(res.events),
		})
	}

	if p.Old != "" && p.New != "" {
		same, err := project.SameContent(p.Old, p.New)
		if err != nil {
			reportIO(r, p.New, err)
			progress(pipeline.StageParse, pipeline.StatusError, err, 0)
			return res, nil
		}
		if same {
			res.skipped = true
			progress(pipeline.StageCompare, pipeline.StatusSkipped, nil, 0)
			return res, nil
		}
	}

	progress(pipeline.StageParse, pipeline.StatusWorking, nil, 0)
	start := time.Now()
	var oldDecls, newDecls []*apinode.Node
	for _, side := range []struct {
		path  string
		decls *[]*apinode.Node
	}{{p.Old, &oldDecls}, {p.New, &newDecls}} {
		if side.path == "" {
			continue
		}
		decls, err := parseSide(ctx, opts, side.path)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			reportIO(r, side.path, err)
			progress(pipeline.StageParse, pipeline.StatusError, err, time.Since(start))
			return res, nil
		}
		*side.decls = decls
	}
	res.parse = time.Since(start)

	progress(pipeline.StageCompare, pipeline.StatusWorking, nil, res.parse)
	start = time.Now()
	for _, pair := range pairing.Merge(oldDecls, newDecls).Pairs() {
		events, err := compareDecl(ctx, opts.Differ, pair)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			reportMalformed(r, p, pair, err)
			continue
		}
		res.events = append(res.events, events...)
	}
	res.compare = time.Since(start)
	span.WithExtra("events", fmt.Sprint(len(res.events)))
	progress(pipeline.StageCompare, pipeline.StatusDone, nil, res.parse+res.compare)
	return res, nil
}

func compareDecl(ctx context.Context, d *diff.Differ, pair pairing.Pair) ([]diff.Event, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDecl, string(pair.Key))
	defer span.End("")
	return d.Declaration(ctx, pair.Old, pair.New)
}

func reportIO(r diag.Reporter, path string, err error) {
	code := diag.IOParseError
	if isIOError(err) {
		code = diag.IOLoadFileError
	}
	diag.ReportWarning(r, code, diag.Position{File: path}, err.Error()).Emit()
}

func reportMalformed(r diag.Reporter, p FilePair, pair pairing.Pair, err error) {
	code := diag.DiffMalformedNode
	switch {
	case errors.Is(err, doctag.ErrTimeout):
		code = diag.DiffTokenizerTimeout
	case errors.Is(err, doctag.ErrTokenize):
		code = diag.DiffTokenizerFailed
	}
	primary := declPosition(pair.New)
	if pair.New == nil {
		primary = declPosition(pair.Old)
	}
	if primary.File == "" {
		primary.File = p.display()
	}
	b := diag.ReportWarning(r, code, primary, err.Error())
	if pair.Both() && pair.Old.Location.Path != "" && pair.Old.Location.Path != primary.File {
		b = b.WithNote(declPosition(pair.Old), "old declaration")
	}
	b.Emit()
}

func declPosition(n *apinode.Node) diag.Position {
	if n == nil {
		return diag.Position{}
	}
	return diag.Position{File: n.Location.Path, Line: n.Location.Line, Column: n.Location.Column, Decl: n.Name}
}
