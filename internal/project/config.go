package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

// Config is the decoded apidiff.toml.
type Config struct {
	Diff      DiffConfig      `toml:"diff"`
	Parser    ParserConfig    `toml:"parser"`
	Tokenizer TokenizerConfig `toml:"tokenizer"`
	Kits      []KitEntry      `toml:"kit,omitempty"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// DiffConfig controls the directory walk.
type DiffConfig struct {
	Extensions []string `toml:"extensions,omitempty"`
	Jobs       int      `toml:"jobs"`
}

// ParserConfig selects the header parser. An empty command means the walked
// files are already node-tree JSON dumps.
type ParserConfig struct {
	Command []string `toml:"command,omitempty"`
	Timeout Duration `toml:"timeout"`
}

// TokenizerConfig selects the doc-comment tokenizer. An empty command means
// the built-in one.
type TokenizerConfig struct {
	Command  []string `toml:"command,omitempty"`
	Timeout  Duration `toml:"timeout"`
	Cache    bool     `toml:"cache"`
	CacheDir string   `toml:"cache_dir,omitempty"`
}

// KitEntry maps a header path prefix to its kit and subsystem.
type KitEntry struct {
	Path      string `toml:"path"`
	Kit       string `toml:"kit"`
	Subsystem string `toml:"subsystem"`
}

// Duration decodes TOML strings like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Parser:    ParserConfig{Timeout: Duration{time.Minute}},
		Tokenizer: TokenizerConfig{Timeout: Duration{10 * time.Second}},
	}
}

// FileExtensions returns the file extensions the walk keeps.
// Without explicit extensions this is .h for an external parser and .json otherwise.
func (c *Config) FileExtensions() []string {
	if len(c.Diff.Extensions) > 0 {
		return c.Diff.Extensions
	}
	if len(c.Parser.Command) > 0 {
		return []string{".h"}
	}
	return []string{".json"}
}

// LoadConfig reads and validates an apidiff.toml. Missing keys keep defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	var errs *multierror.Error
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		errs = multierror.Append(errs, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", ")))
	}
	if meta.IsDefined("parser", "command") && len(cfg.Parser.Command) == 0 {
		errs = multierror.Append(errs, errors.New("[parser].command must not be empty"))
	}
	if meta.IsDefined("tokenizer", "command") && len(cfg.Tokenizer.Command) == 0 {
		errs = multierror.Append(errs, errors.New("[tokenizer].command must not be empty"))
	}
	if err := cfg.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Tokenizer.CacheDir != "" && !filepath.IsAbs(cfg.Tokenizer.CacheDir) {
		cfg.Tokenizer.CacheDir = filepath.Join(filepath.Dir(path), cfg.Tokenizer.CacheDir)
	}
	return cfg, nil
}

// Validate checks value ranges. All problems are reported together.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Diff.Jobs < 0 {
		errs = multierror.Append(errs, fmt.Errorf("[diff].jobs must be >= 0, got %d", c.Diff.Jobs))
	}
	for _, ext := range c.Diff.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = multierror.Append(errs, fmt.Errorf("[diff].extensions: %q must start with '.'", ext))
		}
	}
	if c.Parser.Timeout.Duration < 0 {
		errs = multierror.Append(errs, errors.New("[parser].timeout must not be negative"))
	}
	if c.Tokenizer.Timeout.Duration < 0 {
		errs = multierror.Append(errs, errors.New("[tokenizer].timeout must not be negative"))
	}
	seen := make(map[string]bool, len(c.Kits))
	for i, k := range c.Kits {
		if strings.TrimSpace(k.Path) == "" {
			errs = multierror.Append(errs, fmt.Errorf("[[kit]] #%d: missing path", i+1))
			continue
		}
		if seen[k.Path] {
			errs = multierror.Append(errs, fmt.Errorf("[[kit]] #%d: duplicate path %q", i+1, k.Path))
		}
		seen[k.Path] = true
	}
	return errs.ErrorOrNil()
}

// KitTable returns the lookup built from the [[kit]] entries.
func (c *Config) KitTable() *KitTable {
	return NewKitTable(c.Kits)
}

// KitTable resolves kit and subsystem by longest path prefix.
type KitTable struct {
	entries []KitEntry
}

// NewKitTable builds a table. Paths are compared with forward slashes.
func NewKitTable(entries []KitEntry) *KitTable {
	sorted := make([]KitEntry, len(entries))
	copy(sorted, entries)
	for i := range sorted {
		sorted[i].Path = filepath.ToSlash(sorted[i].Path)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Path) > len(sorted[j].Path)
	})
	return &KitTable{entries: sorted}
}

// Lookup finds the longest entry path that prefixes path or appears in it as
// a run of whole directory segments. Parsers often report absolute paths.
func (t *KitTable) Lookup(path string) (kit, subsystem string, ok bool) {
	if t == nil || len(t.entries) == 0 {
		return "", "", false
	}
	path = filepath.ToSlash(path)
	for _, e := range t.entries {
		prefix := strings.TrimSuffix(e.Path, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") || strings.Contains(path, "/"+prefix+"/") {
			return e.Kit, e.Subsystem, true
		}
	}
	return "", "", false
}
