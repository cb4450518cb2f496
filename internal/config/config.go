// Package config loads settings for the arith command from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/arith"
)

// Config holds the settings for parsing, evaluating, and reporting.
type Config struct {
	// Precision is the number of mantissa bits used in calculations.
	Precision uint `toml:"precision" yaml:"precision"`
	// MaxDepth limits the nesting of parentheses, unary minus, and powers.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
	// NegateBelowPow makes -x^y mean -(x^y) instead of (-x)^y.
	NegateBelowPow bool `toml:"negate_below_pow" yaml:"negate_below_pow"`
	// Workers is the number of expressions processed at once in batch mode.
	// Zero means one per CPU.
	Workers int `toml:"workers" yaml:"workers"`
	// Format is the batch report format: text, json, or yaml.
	Format string `toml:"format" yaml:"format"`
	// Verb is the fmt verb used to print results, e.g. %g or %.10f.
	Verb string `toml:"verb" yaml:"verb"`
	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Formats lists the report formats.
var Formats = []string{"text", "json", "yaml"}

// Default returns the settings used when no file or flag changes them.
func Default() *Config {
	return &Config{
		Precision: arith.DefaultPrec,
		MaxDepth:  arith.DefaultMaxDepth,
		Format:    "text",
		Verb:      "%g",
		LogLevel:  "info",
	}
}

// Load reads a config file over the defaults. The format is chosen by the
// file extension: .yaml and .yml files are YAML, anything else is TOML.
// Unknown keys are an error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		// A document with no content decodes as io.EOF; keep the defaults.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	default:
		md, err := toml.Decode(string(b), cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
		if keys := md.Undecoded(); len(keys) != 0 {
			return nil, fmt.Errorf("parsing TOML config %s: unknown keys %v", path, keys)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Precision == 0 {
		errs = multierror.Append(errs, errors.New("precision must be positive"))
	}
	if c.MaxDepth < 1 {
		errs = multierror.Append(errs, fmt.Errorf("max_depth must be at least 1, not %d", c.MaxDepth))
	}
	if c.Workers < 0 {
		errs = multierror.Append(errs, fmt.Errorf("workers must not be negative, not %d", c.Workers))
	}
	if !validFormat(c.Format) {
		errs = multierror.Append(errs, fmt.Errorf("format must be one of %s, not %q", strings.Join(Formats, ", "), c.Format))
	}
	if !validVerb(c.Verb) {
		errs = multierror.Append(errs, fmt.Errorf("verb must format exactly one number, not %q", c.Verb))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// validVerb reports whether verb formats a *big.Float without fmt reporting a
// bad verb, a missing operand, or an extra one.
func validVerb(verb string) bool {
	s := fmt.Sprintf(verb, big.NewFloat(1))
	return !strings.Contains(s, "%!")
}

// ParseOptions returns the parser options the config selects.
func (c *Config) ParseOptions() []arith.ParseOption {
	opts := []arith.ParseOption{arith.MaxDepth(c.MaxDepth)}
	if c.NegateBelowPow {
		opts = append(opts, arith.NegateBelowPow())
	}
	return opts
}

// Context returns an evaluation context with the configured precision.
func (c *Config) Context() *arith.Context {
	return arith.NewContext(arith.Prec(c.Precision))
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level must be debug, info, warn, or error, not %q", s)
	}
	return l, nil
}
