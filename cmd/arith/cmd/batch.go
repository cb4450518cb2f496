package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/arith/batch"
	"github.com/zephyrtronium/arith/internal/config"
)

func newBatchCmd(s *settings, flags *config.Config) *cobra.Command {
	var inname, outname string
	c := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate a file of expressions and write a report",
		Long: `Evaluate each non-blank line of the input file as an expression and
write a report with the tokens, parse tree, and result or error of each.

A failing expression is reported and does not stop the batch.`,
		Example: `  arith batch
  arith batch -i exprs.txt -o - --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var in io.Reader = cmd.InOrStdin()
			if inname != "-" {
				f, err := os.Open(inname)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			outs, err := batch.Run(cmd.Context(), in, batch.Options{
				Parse:   s.cfg.ParseOptions(),
				Context: s.cfg.Context(),
				Workers: s.cfg.Workers,
				Logger:  s.log,
			})
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outname != "-" {
				f, cerr := os.Create(outname)
				if cerr != nil {
					return cerr
				}
				defer func() {
					err = errors.Join(err, f.Close())
				}()
				out = f
			}
			if err := batch.Write(out, s.cfg.Format, outs, s.cfg.Verb); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			s.log.Info("wrote report", "file", outname, "format", s.cfg.Format)
			return nil
		},
	}
	c.Flags().StringVarP(&inname, "in", "i", "expressions.txt", "input file, - for standard input")
	c.Flags().StringVarP(&outname, "out", "o", "result.txt", "report file, - for standard output")
	c.Flags().StringVar(&flags.Format, "format", config.Default().Format, "report format: "+strings.Join(config.Formats, ", "))
	c.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "expressions evaluated at once, 0 for one per CPU")
	return c
}
