package arith

import (
	"errors"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// DefaultPrec is the precision of calculations when no Prec option is given.
const DefaultPrec = 64

// Context is a context for evaluating expressions. A Context is never modified
// after it is created, so it is safe to use concurrently.
type Context struct {
	prec uint
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of calculations in bits. Panics if prec is 0.
func Prec(prec uint) ContextOption {
	if prec == 0 {
		panic("arith: zero precision")
	}
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is DefaultPrec.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil: // do nothing
		case precopt:
			n.prec = uint(opt)
		default:
			panic("arith: unknown option type")
		}
	}
	return &n
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Eval evaluates an expression and returns its result. The error is a
// *DivisionByZeroError if any division or negative power has a zero
// divisor, or a *DomainError if an operation has no real result.
func (ctx *Context) Eval(e *Expr) (*big.Float, error) {
	return e.n.eval(ctx)
}

// EvalString is a shortcut to tokenize, parse, and evaluate an expression
// with default parsing options.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	e, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	return NewContext(opts...).Eval(e)
}

func (n *Literal) eval(ctx *Context) (*big.Float, error) {
	return ctx.new().SetInt(n.Value), nil
}

func (n *Negate) eval(ctx *Context) (*big.Float, error) {
	x, err := n.X.eval(ctx)
	if err != nil {
		return nil, err
	}
	return unsignzero(x.Neg(x)), nil
}

func (n *BinaryOp) eval(ctx *Context) (*big.Float, error) {
	x, err := n.Left.eval(ctx)
	if err != nil {
		return nil, err
	}
	y, err := n.Right.eval(ctx)
	if err != nil {
		return nil, err
	}
	return ctx.apply(n.Op, x, y)
}

// apply computes x op y into a new value. Operations that produce NaN, like
// inf-inf after an overflow, give a DomainError.
func (ctx *Context) apply(op Op, x, y *big.Float) (r *big.Float, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, _ := p.(error)
		if !errors.As(e, new(big.ErrNaN)) {
			panic(p)
		}
		r, err = nil, &DomainError{Op: op, X: x, Y: y}
	}()
	z := ctx.new()
	switch op {
	case OpAdd:
		z.Add(x, y)
	case OpSub:
		z.Sub(x, y)
	case OpMul:
		z.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return nil, &DivisionByZeroError{Op: op, X: x}
		}
		z.Quo(x, y)
	case OpPow:
		if err := pow(z, x, y); err != nil {
			return nil, err
		}
	default:
		panic("arith: invalid operator " + op.String())
	}
	return unsignzero(z), nil
}

// pow sets z to x^y. z must not alias x or y.
func pow(z, x, y *big.Float) error {
	if i, acc := y.Int64(); y.IsInt() && acc == big.Exact {
		// Exact integer powers by repeated squaring.
		if i < 0 && x.Sign() == 0 {
			return &DivisionByZeroError{Op: OpPow, X: x}
		}
		n := uint64(i)
		if i < 0 {
			n = -n
		}
		powuint(z, x, n)
		if i < 0 {
			z.Quo(new(big.Float).SetPrec(z.Prec()).SetInt64(1), z)
		}
		return nil
	}
	switch {
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return &DivisionByZeroError{Op: OpPow, X: x}
		}
		z.SetInt64(0)
		return nil
	case x.Signbit():
		if !y.IsInt() {
			return &DomainError{Op: OpPow, X: x, Y: y}
		}
		// An integer too large for int64. Compute |x|^y and fix the sign.
		a := new(big.Float).Abs(x)
		if err := pow(z, a, y); err != nil {
			return err
		}
		if odd(y) {
			z.Neg(z)
		}
		return nil
	case x.IsInf(), y.IsInf():
		powinf(z, x, y)
		return nil
	}
	powreal(z, x, y)
	return nil
}

// powreal sets z to x^y for finite x > 0 and finite y. With y = n + f for an
// integer n and |f| < 1, and x = m × 2^e for 0.5 <= m < 1,
//
//	x^y = x^n × m^f × 2^(e×f)
//
// so that bigfloat.Pow only sees operands near 1.
func powreal(z, x, y *big.Float) {
	one := new(big.Float).SetInt64(1)
	if x.Cmp(one) == 0 {
		z.SetInt64(1)
		return
	}
	// |x - 1| >= 2^-p for p = x.MinPrec(), so once |y| >= 2^(p+64) the result
	// is far outside the exponent range.
	if y.MantExp(nil) > int(x.MinPrec())+64 {
		if (x.Cmp(one) > 0) == (y.Sign() > 0) {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
		return
	}

	n, _ := y.Int(nil)
	f := new(big.Float).SetPrec(y.Prec()).Sub(y, new(big.Float).SetInt(n))
	powint(z, x, new(big.Int).Abs(n))
	if n.Sign() < 0 {
		z.Quo(one, z)
	}
	if f.Sign() == 0 {
		return
	}

	m := new(big.Float)
	e := x.MantExp(m)
	t := new(big.Float).SetPrec(z.Prec())
	bigfloat.Pow(t, m, f)
	z.Mul(z, t)
	// e×f is exact at this precision.
	ef := new(big.Float).SetPrec(f.Prec() + 64).SetInt64(int64(e))
	ef.Mul(ef, f)
	k, _ := ef.Int64()
	g := ef.Sub(ef, new(big.Float).SetInt64(k))
	if g.Sign() != 0 {
		bigfloat.Pow(t, new(big.Float).SetInt64(2), g)
		z.Mul(z, t)
	}
	z.SetMantExp(z, int(k))
}

// powint sets z to x^n for x > 0 and n >= 0 by repeated squaring. It stops
// early once the square saturates to 0 or Inf.
func powint(z, x *big.Float, n *big.Int) {
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for i, l := 0, n.BitLen(); i < l; i++ {
		if b.IsInf() || b.Sign() == 0 {
			// The top bit of n is still ahead, so b^(2^i) dominates.
			z.Set(b)
			return
		}
		if n.Bit(i) != 0 {
			z.Mul(z, b)
		}
		b.Mul(b, b)
	}
}

// powuint sets z to x^n.
func powuint(z, x *big.Float, n uint64) {
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for n > 0 {
		if n&1 != 0 {
			z.Mul(z, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
}

// powinf sets z to x^y where x > 0 and at least one of x or y is infinite.
func powinf(z, x, y *big.Float) {
	if x.IsInf() {
		switch y.Sign() {
		case 1:
			z.SetInf(false)
		default:
			z.SetInt64(0)
		}
		return
	}
	// y is infinite.
	c := x.Cmp(new(big.Float).SetInt64(1))
	switch {
	case c == 0:
		z.SetInt64(1)
	case (c > 0) == (y.Sign() > 0):
		z.SetInf(false)
	default:
		z.SetInt64(0)
	}
}

// odd reports whether the integer y is odd. The mantissa of y has MinPrec
// significant bits, so y is odd exactly when its binary exponent equals that.
func odd(y *big.Float) bool {
	if y.Sign() == 0 {
		return false
	}
	return y.MantExp(nil) == int(y.MinPrec())
}

// unsignzero replaces -0 with +0 so that results never format as "-0".
func unsignzero(z *big.Float) *big.Float {
	if z.Sign() == 0 && z.Signbit() {
		z.Neg(z)
	}
	return z
}

// new returns a zero value with the context's precision.
func (ctx *Context) new() *big.Float {
	return new(big.Float).SetPrec(ctx.prec)
}

// DivisionByZeroError is an error indicating a division by zero, either
// through / or a negative power of zero.
type DivisionByZeroError struct {
	// Op is the operator that divided.
	Op Op
	// X is the dividend, or the base of a power.
	X *big.Float
}

func (err *DivisionByZeroError) Error() string {
	if err.Op == OpPow {
		return "division by zero: 0 raised to a negative power"
	}
	return "division by zero: " + err.X.String() + " / 0"
}

// DomainError is an error indicating an operation whose result is not a real
// number, such as a negative number raised to a non-integer power.
type DomainError struct {
	// Op is the operator.
	Op Op
	// X and Y are the left and right operands.
	X, Y *big.Float
}

func (err *DomainError) Error() string {
	return err.X.String() + " " + err.Op.String() + " " + err.Y.String() + " is undefined"
}
