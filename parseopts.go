package arith

import "strconv"

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 1000

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt  int
	negpowopt struct{}
)

// parsectx holds the settings for one parse.
type parsectx struct {
	// max is the maximum nesting depth of unary minus, parentheses, and
	// exponentiation.
	max int
	// negpow makes unary minus take a power as its operand instead of a
	// factor, so that -x^y is -(x^y).
	negpow bool
}

// MaxDepth sets the maximum number of nested parentheses, unary minus signs,
// and exponentiations the parser accepts before failing with a DepthError.
// Panics if n is less than 1.
func MaxDepth(n int) ParseOption {
	if n < 1 {
		panic("arith: invalid max depth " + strconv.Itoa(n))
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.max = int(o)
	return p
}

// NegateBelowPow makes exponentiation bind more tightly than unary minus, so
// that "-5^2" parses as "-(5^2)". By default, unary minus applies to the
// factor that follows it and "-5^2" parses as "(-5)^2".
func NegateBelowPow() ParseOption {
	return negpowopt{}
}

func (negpowopt) parseOption(p parsectx) parsectx {
	p.negpow = true
	return p
}
