package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid --log-level %q (expected debug|info|warn|error)", s)
	}
}

// setupLogging installs a tint handler behind slogctx, so attributes added
// with slogctx.With travel with the context.
func setupLogging(ctx context.Context, w io.Writer, level string, color bool) (context.Context, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return ctx, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	})
	logger := slog.New(slogctx.NewHandler(handler, nil))
	slog.SetDefault(logger)
	return slogctx.NewCtx(ctx, logger), nil
}
