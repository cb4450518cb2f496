package arith

import (
	"strings"
	"unicode/utf8"
)

// expr   = term { ('+' | '-') term }
// term   = power { ('*' | '/') power }
// power  = factor [ '^' power ]
// factor = '-' factor | '(' expr ')' | num

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n Node
}

// Root returns the root node of the parse tree.
func (e *Expr) Root() Node {
	return e.n
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}

// Parse parses a token sequence so it can be evaluated with a context. The
// result uses every token; if any tokens remain after a complete expression,
// the error is a *TrailingError. Every error Parse returns implements
// InputError.
func Parse(toks []Token, opts ...ParseOption) (*Expr, error) {
	p := parser{
		toks: toks,
		parsectx: parsectx{
			max: DefaultMaxDepth,
		},
	}
	for _, opt := range opts {
		p.parsectx = opt.parseOption(p.parsectx)
	}
	n, i, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if i != len(toks) {
		return nil, &TrailingError{Token: toks[i], Idx: i}
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to tokenize and parse an expression.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(Tokenize(src), opts...)
}

type parser struct {
	parsectx
	toks []Token
	// depth is the current nesting depth.
	depth int
}

// Each tier takes the index of its first token and returns the index of the
// first token it did not consume.

func (p *parser) expr(i int) (Node, int, error) {
	n, i, err := p.term(i)
	if err != nil {
		return nil, 0, err
	}
	for i < len(p.toks) && (p.toks[i].is(TokenOp, "+") || p.toks[i].is(TokenOp, "-")) {
		op := Op(p.toks[i].Text[0])
		rhs, j, err := p.term(i + 1)
		if err != nil {
			return nil, 0, err
		}
		n, i = &BinaryOp{Op: op, Left: n, Right: rhs}, j
	}
	return n, i, nil
}

func (p *parser) term(i int) (Node, int, error) {
	n, i, err := p.power(i)
	if err != nil {
		return nil, 0, err
	}
	for i < len(p.toks) && (p.toks[i].is(TokenOp, "*") || p.toks[i].is(TokenOp, "/")) {
		op := Op(p.toks[i].Text[0])
		rhs, j, err := p.power(i + 1)
		if err != nil {
			return nil, 0, err
		}
		n, i = &BinaryOp{Op: op, Left: n, Right: rhs}, j
	}
	return n, i, nil
}

func (p *parser) power(i int) (Node, int, error) {
	n, i, err := p.factor(i)
	if err != nil {
		return nil, 0, err
	}
	if i >= len(p.toks) || !p.toks[i].is(TokenOp, "^") {
		return n, i, nil
	}
	if err := p.enter(i); err != nil {
		return nil, 0, err
	}
	defer p.leave()
	// Right-associative: x^y^z is x^(y^z).
	rhs, i, err := p.power(i + 1)
	if err != nil {
		return nil, 0, err
	}
	return &BinaryOp{Op: OpPow, Left: n, Right: rhs}, i, nil
}

func (p *parser) factor(i int) (Node, int, error) {
	if i >= len(p.toks) {
		return nil, 0, &EndError{Col: p.endcol(), Idx: i}
	}
	tok := p.toks[i]
	switch {
	case tok.Kind == TokenNum:
		return &Literal{Value: tok.Value()}, i + 1, nil
	case tok.is(TokenOp, "-"):
		if err := p.enter(i); err != nil {
			return nil, 0, err
		}
		defer p.leave()
		operand := p.factor
		if p.negpow {
			operand = p.power
		}
		x, j, err := operand(i + 1)
		if err != nil {
			return nil, 0, err
		}
		return &Negate{X: x}, j, nil
	case tok.Kind == TokenOpen:
		if err := p.enter(i); err != nil {
			return nil, 0, err
		}
		defer p.leave()
		n, j, err := p.expr(i + 1)
		if err != nil {
			return nil, 0, err
		}
		if j >= len(p.toks) {
			return nil, 0, &BracketError{Col: p.endcol(), Idx: j, Open: tok.Col}
		}
		if end := p.toks[j]; end.Kind != TokenClose {
			return nil, 0, &BracketError{Col: end.Col, Idx: j, Open: tok.Col, Found: end.Text}
		}
		return n, j + 1, nil
	default:
		return nil, 0, &TokenError{Token: tok, Idx: i}
	}
}

// enter increases the nesting depth for the token at index i, failing if that
// exceeds the limit.
func (p *parser) enter(i int) error {
	if p.depth >= p.max {
		return &DepthError{Token: p.toks[i], Idx: i, Max: p.max}
	}
	p.depth++
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// endcol is the column just past the last token.
func (p *parser) endcol() int {
	if len(p.toks) == 0 {
		return 1
	}
	last := p.toks[len(p.toks)-1]
	return last.Col + utf8.RuneCountInString(last.Text)
}
