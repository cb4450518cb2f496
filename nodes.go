package arith

import (
	"math/big"
	"strconv"
	"strings"
)

// Node is a node in the parse tree of an expression. The concrete types are
// *Literal, *Negate, and *BinaryOp; no other package can implement Node.
type Node interface {
	// String formats the subtree with round brackets around every term.
	String() string

	fmt(b *strings.Builder, square bool)
	eval(ctx *Context) (*big.Float, error)
}

// Literal is a non-negative integer leaf.
type Literal struct {
	Value *big.Int
}

// Negate is unary minus applied to its operand.
type Negate struct {
	X Node
}

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Op    Op
	Left  Node
	Right Node
}

// Op is a binary operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpPow Op = '^'
)

func (op Op) String() string {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return string(rune(op))
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

func (n *Literal) String() string  { return nodeString(n) }
func (n *Negate) String() string   { return nodeString(n) }
func (n *BinaryOp) String() string { return nodeString(n) }

func nodeString(n Node) string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *Literal) fmt(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	b.WriteString(n.Value.String())
	b.WriteByte(r)
}

func (n *Negate) fmt(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	b.WriteByte('-')
	n.X.fmt(b, !square)
	b.WriteByte(r)
}

func (n *BinaryOp) fmt(b *strings.Builder, square bool) {
	l, r := brackets(square)
	b.WriteByte(l)
	n.Left.fmt(b, !square)
	b.WriteByte(' ')
	b.WriteByte(byte(n.Op))
	b.WriteByte(' ')
	n.Right.fmt(b, !square)
	b.WriteByte(r)
}

func brackets(square bool) (byte, byte) {
	if square {
		return '[', ']'
	}
	return '(', ')'
}

// Walk calls f for each node of the tree rooted at n in post-order, children
// before their parent. If f returns false, Walk stops and returns false.
func Walk(n Node, f func(Node) bool) bool {
	switch n := n.(type) {
	case *Literal:
	case *Negate:
		if !Walk(n.X, f) {
			return false
		}
	case *BinaryOp:
		if !Walk(n.Left, f) || !Walk(n.Right, f) {
			return false
		}
	default:
		panic("arith: invalid node type")
	}
	return f(n)
}
