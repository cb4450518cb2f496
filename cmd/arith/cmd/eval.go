package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/arith"
)

func newEvalCmd(s *settings) *cobra.Command {
	var (
		inname string
		echo   bool
	)
	c := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions and print their results",
		Long: `Evaluate each argument as an expression and print its result.

With no arguments, each non-blank line of the input file (or standard input
if none is given) is an expression.`,
		Example: `  arith eval -- '2+3*4' '-5^2'
  arith eval --echo -p 256 '(2+3)^100'
  echo '7/2' | arith eval --fmt %.3f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs := args
			if len(args) == 0 || inname != "" {
				in, err := readLines(cmd, inname)
				if err != nil {
					return err
				}
				srcs = append(in, srcs...)
			}
			ctx := s.cfg.Context()
			opts := s.cfg.ParseOptions()
			verb := s.cfg.Verb + "\n"
			out := cmd.OutOrStdout()
			failed := 0
			for _, src := range srcs {
				a, err := arith.ParseString(src, opts...)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", src, err)
					failed++
					continue
				}
				if echo {
					fmt.Fprintf(out, "%v : ", a)
				}
				r, err := ctx.Eval(a)
				if err != nil {
					fmt.Fprintln(out, err)
					failed++
					continue
				}
				fmt.Fprintf(out, verb, r)
			}
			s.log.Debug("eval complete", "expressions", len(srcs), "failed", failed)
			if failed != 0 {
				return fmt.Errorf("%d of %d expressions failed", failed, len(srcs))
			}
			return nil
		},
	}
	c.Flags().StringVarP(&inname, "in", "i", "", "input file, - for standard input")
	c.Flags().BoolVar(&echo, "echo", false, "print parse trees")
	return c
}

// readLines returns the non-blank lines of the named file, or of the
// command's input if name is empty or -.
func readLines(cmd *cobra.Command, name string) ([]string, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return lines, nil
}
