// Package trace records spans of a diff run for diagnosing slow or stuck runs.
//
// Enable it from the command line:
//
//	apidiff diff --trace=- --trace-level=file old/ new/
//
// Tracers:
//
//   - Nop: disabled tracing
//   - StreamTracer: writes every event to a file or stderr
//   - RingTracer: keeps the last N events and dumps them on failure
//   - MultiTracer: fans out to several tracers
//
// Levels map to scopes: LevelRun emits only run-wide spans, LevelFile adds one
// span per compared file pair and LevelDecl one per declaration pair.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "compare", parent)
//	defer span.End("")
package trace
