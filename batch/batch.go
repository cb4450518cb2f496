// Package batch evaluates many expressions, one per line of input, and
// reports the tokens, parse tree, and result or error for each.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/arith"
)

// Options controls how expressions are parsed and evaluated.
type Options struct {
	// Parse holds the parser options applied to every expression.
	Parse []arith.ParseOption
	// Context is the evaluation context. If nil, a default context is used.
	Context *arith.Context
	// Workers is the maximum number of expressions processed concurrently.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
	// Logger receives per-expression debug logs and a summary. If nil,
	// nothing is logged.
	Logger *slog.Logger
	// MaxLineLength is the longest line, in bytes, that Run evaluates. Longer
	// lines are reported as a *LineTooLongError in their outcome. Zero means
	// DefaultMaxLineLength.
	MaxLineLength int
}

// DefaultMaxLineLength is the line length limit when Options.MaxLineLength
// is zero.
const DefaultMaxLineLength = 1 << 20

// LineTooLongError is the error for an input line that was not evaluated
// because it exceeds the line length limit.
type LineTooLongError struct {
	// Len is the length of the line in bytes.
	Len int
	// Max is the limit it exceeded.
	Max int
}

func (err *LineTooLongError) Error() string {
	return fmt.Sprintf("line of %d bytes exceeds the limit of %d", err.Len, err.Max)
}

func (o *Options) context() *arith.Context {
	if o.Context == nil {
		return arith.NewContext()
	}
	return o.Context
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *Options) maxLine() int {
	if o.MaxLineLength <= 0 {
		return DefaultMaxLineLength
	}
	return o.MaxLineLength
}

func (o *Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Outcome is everything produced for one expression. Tree is nil if and only
// if parsing failed; Result is nil if and only if Err is non-nil.
type Outcome struct {
	// Line is the 1-based line number of the expression in the input.
	Line int
	// Expression is the input text with surrounding whitespace removed.
	Expression string
	Tokens     []arith.Token
	Tree       *arith.Expr
	Result     *big.Float
	// Err is the parse or evaluation error, if any.
	Err error
}

// ParseFailed reports whether the expression failed to parse.
func (o *Outcome) ParseFailed() bool {
	return o.Tree == nil
}

// Process tokenizes, parses, and evaluates one expression.
func Process(src string, opts Options) Outcome {
	out := Outcome{Expression: strings.TrimSpace(src)}
	out.Tokens = arith.Tokenize(out.Expression)
	out.Tree, out.Err = arith.Parse(out.Tokens, opts.Parse...)
	if out.Err != nil {
		return out
	}
	out.Result, out.Err = opts.context().Eval(out.Tree)
	return out
}

// Run processes each non-blank line of r concurrently and returns the
// outcomes in input order. Failures of individual expressions, including
// lines over the length limit, are recorded in their outcomes; the error is
// non-nil only if reading fails or ctx is done.
func Run(ctx context.Context, r io.Reader, opts Options) ([]Outcome, error) {
	log := opts.logger()
	lines, err := readLines(r, opts.maxLine())
	if err != nil {
		return nil, fmt.Errorf("reading expressions: %w", err)
	}

	opts.Context = opts.context()
	outs := make([]Outcome, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, l := range lines {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var o Outcome
			if l.long != 0 {
				o.Err = &LineTooLongError{Len: l.long, Max: opts.maxLine()}
			} else {
				o = Process(l.src, opts)
			}
			o.Line = l.n
			if o.Err != nil {
				log.Debug("expression failed", "line", o.Line, "expression", o.Expression, "error", o.Err)
			} else {
				log.Debug("expression evaluated", "line", o.Line, "expression", o.Expression, "result", o.Result)
			}
			outs[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Wait returns nil if cancellation happened before any goroutine saw it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := Summarize(outs)
	log.Info("batch complete", "expressions", s.Total, "parse_errors", s.ParseErrors, "eval_errors", s.EvalErrors)
	return outs, nil
}

type line struct {
	// n is the 1-based line number.
	n   int
	src string
	// long is the length of a line over the limit, or 0.
	long int
}

// readLines returns the non-blank lines of r. Lines longer than limit bytes
// are returned with only their length.
func readLines(r io.Reader, limit int) ([]line, error) {
	var (
		lines []line
		buf   []byte
		size  int
	)
	br := bufio.NewReader(r)
	for n := 1; ; {
		frag, more, err := br.ReadLine()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		size += len(frag)
		if size <= limit {
			buf = append(buf, frag...)
		}
		if more {
			continue
		}
		switch {
		case size > limit:
			lines = append(lines, line{n: n, long: size})
		case strings.TrimSpace(string(buf)) != "":
			lines = append(lines, line{n: n, src: string(buf)})
		}
		n++
		buf, size = buf[:0], 0
	}
}

// Summary counts outcomes by kind.
type Summary struct {
	Total       int
	Evaluated   int
	ParseErrors int
	EvalErrors  int
}

// Summarize counts a set of outcomes.
func Summarize(outs []Outcome) Summary {
	s := Summary{Total: len(outs)}
	for i := range outs {
		switch o := &outs[i]; {
		case o.ParseFailed():
			s.ParseErrors++
		case o.Err != nil:
			s.EvalErrors++
		default:
			s.Evaluated++
		}
	}
	return s
}
