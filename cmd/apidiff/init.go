package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"apidiff/internal/project"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter apidiff.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, "apidiff.toml")
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := writeStarterConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing apidiff.toml")
}

const starterHeader = `# apidiff configuration.
# [parser].command receives the header path as its last argument and must
# print the node tree as JSON. Without it only .json dumps are compared.
# [[kit]] entries map header path prefixes to kit and subsystem names.

`

func starterConfig() project.Config {
	cfg := project.Default()
	cfg.Tokenizer.Cache = true
	cfg.Kits = []project.KitEntry{{
		Path:      "multimedia/player_framework",
		Kit:       "MediaKit",
		Subsystem: "multimedia",
	}}
	return cfg
}

func writeStarterConfig(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.WriteString(starterHeader); err != nil {
		return err
	}
	return toml.NewEncoder(f).Encode(starterConfig())
}
