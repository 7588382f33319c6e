package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"apidiff/internal/diag"
	"apidiff/internal/diff"
	"apidiff/internal/doctag"
	"apidiff/internal/parser"
	"apidiff/internal/project"
)

// loadConfig reads --config, or the nearest apidiff.toml above startDir, or
// falls back to the defaults.
func loadConfig(cmd *cobra.Command, startDir string) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	if path == "" && startDir != "" {
		if info, statErr := os.Stat(startDir); statErr == nil && !info.IsDir() {
			startDir = filepath.Dir(startDir)
		}
		found, ok, findErr := project.FindConfig(startDir)
		if findErr != nil {
			return project.Config{}, findErr
		}
		if ok {
			path = found
		}
	}
	if path == "" {
		return project.Default(), nil
	}
	cfg, err := project.LoadConfig(path)
	if err != nil {
		return project.Config{}, err
	}
	slogctx.Debug(cmd.Context(), "loaded config", slog.String("path", path))
	return cfg, nil
}

// buildParser: node-tree dumps are always read directly; everything else goes
// to the configured header parser.
func buildParser(cfg project.Config) (parser.Parser, error) {
	p := parser.ByExtension{Parsers: map[string]parser.Parser{".json": parser.JSONParser{}}}
	if len(cfg.Parser.Command) > 0 {
		execParser, err := parser.NewExecParser(cfg.Parser.Command, cfg.Parser.Timeout.Duration)
		if err != nil {
			return nil, err
		}
		p.Fallback = execParser
	}
	return p, nil
}

// buildTokenizer returns the memoizing tokenizer the differ shares across
// workers.
func buildTokenizer(cfg project.Config) (*doctag.Memo, error) {
	var next doctag.Tokenizer = doctag.Builtin{}
	if len(cfg.Tokenizer.Command) > 0 {
		t, err := doctag.NewExecTokenizer(cfg.Tokenizer.Command, cfg.Tokenizer.Timeout.Duration)
		if err != nil {
			return nil, err
		}
		next = t
	}
	var disk *doctag.DiskCache
	if cfg.Tokenizer.Cache {
		d, err := doctag.OpenDiskCache(cfg.Tokenizer.CacheDir, "apidiff")
		if err != nil {
			return nil, fmt.Errorf("tokenizer cache: %w", err)
		}
		disk = d
	}
	return doctag.NewMemo(next, disk), nil
}

// newDiffer wires a differ whose warnings land in a fresh bag. Repeats of
// the same warning for the same declaration are reported once.
func newDiffer(cfg project.Config, maxWarnings int) (*diff.Differ, *doctag.Memo, *diag.Bag, error) {
	memo, err := buildTokenizer(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	bag := diag.NewBag(maxWarnings)
	return diff.New(memo, diag.NewDedupReporter(diag.BagReporter{Bag: bag})), memo, bag, nil
}
