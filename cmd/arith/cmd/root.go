// Package cmd implements the arith command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/arith/internal/config"
)

// settings is the configuration shared by every subcommand after flags and
// the config file are merged.
type settings struct {
	cfg *config.Config
	log *slog.Logger
}

// NewRootCmd creates the arith command tree.
func NewRootCmd() *cobra.Command {
	var (
		s       settings
		cfgFile string
		flags   config.Config
	)
	root := &cobra.Command{
		Use:   "arith",
		Short: "Evaluate arithmetic expressions",
		Long: `arith tokenizes, parses, and evaluates arithmetic expressions over
non-negative integers with + - * / ^, unary minus, and parentheses.

Division is exact, so 7/2 is 3.5. ^ binds tighter than * and / and groups
to the right, so 2^3^2 is 512. Unary minus applies to the number or
bracket right after it, so -5^2 is (-5)^2 = 25 unless --negate-below-pow
is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if cfgFile != "" {
				var err error
				cfg, err = config.Load(cfgFile)
				if err != nil {
					return err
				}
			}
			// Flags given explicitly override the file.
			pf := cmd.Flags()
			if pf.Changed("prec") {
				cfg.Precision = flags.Precision
			}
			if pf.Changed("max-depth") {
				cfg.MaxDepth = flags.MaxDepth
			}
			if pf.Changed("negate-below-pow") {
				cfg.NegateBelowPow = flags.NegateBelowPow
			}
			if pf.Changed("log-level") {
				cfg.LogLevel = flags.LogLevel
			}
			if pf.Changed("fmt") {
				cfg.Verb = flags.Verb
			}
			if pf.Changed("workers") {
				cfg.Workers = flags.Workers
			}
			if pf.Changed("format") {
				cfg.Format = flags.Format
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
			lvl, _ := config.ParseLevel(cfg.LogLevel)
			s.cfg = cfg
			s.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
			s.log.Debug("settings", "precision", cfg.Precision, "max_depth", cfg.MaxDepth, "negate_below_pow", cfg.NegateBelowPow)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file, TOML or YAML by extension")
	pf.UintVarP(&flags.Precision, "prec", "p", config.Default().Precision, "precision of calculations in bits")
	pf.IntVar(&flags.MaxDepth, "max-depth", config.Default().MaxDepth, "maximum nesting of brackets, unary minus, and powers")
	pf.BoolVar(&flags.NegateBelowPow, "negate-below-pow", false, "parse -x^y as -(x^y) instead of (-x)^y")
	pf.StringVar(&flags.LogLevel, "log-level", config.Default().LogLevel, "log level: debug, info, warn, or error")
	pf.StringVar(&flags.Verb, "fmt", config.Default().Verb, "result formatting string")

	root.AddCommand(newEvalCmd(&s))
	root.AddCommand(newBatchCmd(&s, &flags))
	return root
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
