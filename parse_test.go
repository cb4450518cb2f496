package arith

import (
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// treeopts compares parse trees by value.
var treeopts = cmp.Comparer(func(x, y *big.Int) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Cmp(y) == 0
})

func lit(v int64) Node {
	return &Literal{Value: big.NewInt(v)}
}

func neg(x Node) Node {
	return &Negate{X: x}
}

func bin(op Op, l, r Node) Node {
	return &BinaryOp{Op: op, Left: l, Right: r}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "((((1))))", "1"},
		{"spaces", " 1 +\t2 ", "1+2"},

		{"add4", "1+2+3+4", "((1+2)+3)+4"},
		{"sub4", "1-2-3-4", "((1-2)-3)-4"},
		{"mul4", "1*2*3*4", "((1*2)*3)*4"},
		{"div4", "1/2/3/4", "((1/2)/3)/4"},
		{"pow4", "1^2^3^4", "1^(2^(3^4))"},
		{"addsub", "1-2+3-4", "((1-2)+3)-4"},
		{"muldiv", "1/2*3/4", "((1/2)*3)/4"},

		{"prec", "2+3*4", "2+(3*4)"},
		{"desc", "1^2*3+4", "((1^2)*3)+4"},
		{"asc", "1+2*3^4", "1+(2*(3^4))"},
		{"ascdesc", "1+2*3^4^5*6+7", "(1+((2*(3^(4^5)))*6))+7"},
		{"negneg", "--1", "-(-1)"},
		{"negsub", "-1-1", "(-1)-1"},
		{"negpow", "-5^2", "(-5)^2"},
		{"powneg", "2^-1", "2^(-1)"},
		{"pownegpow", "2^-3^-4", "2^((-3)^(-4))"},
		{"pownegneg", "2^--3", "2^(-(-3))"},
		{"negmul", "-2*3", "(-2)*3"},
		{"subneg", "1--1", "1-(-1)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			if diff := cmp.Diff(b.Root(), a.Root(), treeopts); diff != "" {
				t.Errorf("mismatched AST for %q and %q (-b +a):\n%s", c.a, c.b, diff)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		n    Node
	}{
		{"num", "7", nil, lit(7)},
		{"multidigit", "123+456", nil, bin(OpAdd, lit(123), lit(456))},
		{"big", "123456789012345678901234567890", nil, &Literal{Value: bigint("123456789012345678901234567890")}},
		{"prec", "2+3*4", nil, bin(OpAdd, lit(2), bin(OpMul, lit(3), lit(4)))},
		{"pow", "2^3^2", nil, bin(OpPow, lit(2), bin(OpPow, lit(3), lit(2)))},
		{"negneg", "--5", nil, neg(neg(lit(5)))},
		{"negpow", "-5^2", nil, bin(OpPow, neg(lit(5)), lit(2))},
		{"parens", "(2+3)*4", nil, bin(OpMul, bin(OpAdd, lit(2), lit(3)), lit(4))},
		{"div", "4/0", nil, bin(OpDiv, lit(4), lit(0))},

		{"below-negpow", "-5^2", []ParseOption{NegateBelowPow()}, neg(bin(OpPow, lit(5), lit(2)))},
		{"below-negnegpow", "--5^2", []ParseOption{NegateBelowPow()}, neg(neg(bin(OpPow, lit(5), lit(2))))},
		{"below-pownegpow", "2^-3^2", []ParseOption{NegateBelowPow()}, bin(OpPow, lit(2), neg(bin(OpPow, lit(3), lit(2))))},
		{"below-negmul", "-2*3", []ParseOption{NegateBelowPow()}, bin(OpMul, neg(lit(2)), lit(3))},
		{"below-negparen", "-(2)^2", []ParseOption{NegateBelowPow()}, neg(bin(OpPow, lit(2), lit(2)))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, c.opts...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if diff := cmp.Diff(c.n, a.Root(), treeopts); diff != "" {
				t.Errorf("mismatched AST for %q (-want +got):\n%s", c.src, diff)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"5", "(5)"},
		{"-5", "(-[5])"},
		{"2+3*4", "([2] + [(3) * (4)])"},
		{"(2+3)*4", "([(2) + (3)] * [4])"},
		{"2^3^2", "([2] ^ [(3) ^ (2)])"},
		{"--5", "(-[-(5)])"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if got := a.String(); got != c.want {
				t.Errorf("wrong string for %q: want %q, got %q", c.src, c.want, got)
			}
			if got := a.Root().String(); got != c.want {
				t.Errorf("root string differs for %q: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		idx  int
		pos  int
		res  []string
	}{
		{"empty", "", new(EndError), 0, 1, []string{`(?i)\bno expression\b`}},
		{"spaces", "   ", new(EndError), 0, 1, []string{`(?i)\bno expression\b`}},
		{"operand", "2+", new(EndError), 2, 3, []string{`(?i)\bend\b`}},
		{"neg", "-", new(EndError), 1, 2, []string{`(?i)\bend\b`}},
		{"pow", "2^", new(EndError), 2, 3, []string{`(?i)\bend\b`}},
		{"open", "(", new(EndError), 1, 2, []string{`(?i)\bend\b`}},

		{"left", "(2+3", new(BracketError), 4, 5, []string{`(?i)\bbracket\b`, `\b1\b`}},
		{"nested", "((2)", new(BracketError), 4, 5, []string{`(?i)\bbracket\b`}},
		{"mismatch", "(2 3)", new(BracketError), 2, 4, []string{`(?i)\bbracket\b`, `"3"`}},
		{"mismatch-invalid", "(2$)", new(BracketError), 2, 3, []string{`(?i)\bbracket\b`, `"\$"`}},

		{"right", "2+3)", new(TrailingError), 3, 4, []string{`(?i)\bbracket\b`, `\)`}},
		{"adjacent", "2 3", new(TrailingError), 1, 3, []string{`"3"`}},
		{"invalid-trailing", "2$", new(TrailingError), 1, 2, []string{`"\$"`}},
		{"decimal", "1.5", new(TrailingError), 1, 2, []string{`"\."`}},
		{"paren-num", "(1)2", new(TrailingError), 3, 4, []string{`"2"`}},

		{"emptyparen", "()", new(TokenError), 1, 2, []string{`(?i)\bunexpected\b`, `"\)"`}},
		{"nonunary", "*2", new(TokenError), 0, 1, []string{`"\*"`}},
		{"unaryplus", "+2", new(TokenError), 0, 1, []string{`"\+"`}},
		{"plusplus", "2++3", new(TokenError), 2, 3, []string{`"\+"`}},
		{"close-first", ")(", new(TokenError), 0, 1, []string{`"\)"`}},
		{"invalid", "$2", new(TokenError), 0, 1, []string{`(?i)\binvalid character\b`, `"\$"`}},
		{"invalid-operand", "2 + x", new(TokenError), 2, 5, []string{`(?i)\binvalid character\b`, `"x"`}},
		{"invalid-utf8", "2+\xff", new(TokenError), 2, 3, []string{`(?i)\binvalid character\b`, `"\\xff"`}},
		{"unicode", "π", new(TokenError), 0, 1, []string{`"π"`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			ie := err.(InputError)
			if ie.Index() != c.idx {
				t.Errorf("wrong index from %q: want %d, got %d", c.src, c.idx, ie.Index())
			}
			if ie.Pos() != c.pos {
				t.Errorf("wrong position from %q: want %d, got %d", c.src, c.pos, ie.Pos())
			}
			msg := err.Error()
			if !strings.HasPrefix(msg, strconv.Itoa(c.pos)+": ") {
				t.Errorf("error message %q doesn't start with its position %d", msg, c.pos)
			}
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestParseDepth(t *testing.T) {
	cases := []struct {
		name string
		src  string
		max  int
		idx  int // -1 if parsing should succeed
	}{
		{"neg-ok", "---1", 3, -1},
		{"neg-over", "----1", 3, 3},
		{"paren-ok", "(((1)))", 3, -1},
		{"paren-over", "((((1))))", 3, 3},
		{"pow-ok", "2^2^2", 2, -1},
		{"pow-over", "2^2^2^2", 2, 5},
		{"mixed", "-(2^-2)", 3, 4},
		{"siblings", "(1)+(2)+(3)", 1, -1},
		{"default-ok", strings.Repeat("(", DefaultMaxDepth) + "1" + strings.Repeat(")", DefaultMaxDepth), 0, -1},
		{"default-over", strings.Repeat("(", DefaultMaxDepth+1) + "1" + strings.Repeat(")", DefaultMaxDepth+1), 0, DefaultMaxDepth},
		{"default-huge", strings.Repeat("-", 1e6) + "1", 0, DefaultMaxDepth},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var opts []ParseOption
			if c.max > 0 {
				opts = append(opts, MaxDepth(c.max))
			}
			a, err := ParseString(c.src, opts...)
			if c.idx < 0 {
				if err != nil {
					t.Fatalf("%q failed to parse: %v", c.src, err)
				}
				if a == nil {
					t.Fatalf("%q parsed to nil", c.src)
				}
				return
			}
			de, ok := err.(*DepthError)
			if !ok {
				t.Fatalf("wrong error: want *DepthError, got %#v", err)
			}
			if de.Index() != c.idx {
				t.Errorf("wrong index: want %d, got %d", c.idx, de.Index())
			}
		})
	}
}

func TestMaxDepthPanics(t *testing.T) {
	for _, n := range []int{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("MaxDepth(%d) didn't panic", n)
				}
			}()
			MaxDepth(n)
		}()
	}
}

// TestParseUsesAllTokens checks that every token of a successful parse
// appears in the tree as a node or a bracket.
func TestParseUsesAllTokens(t *testing.T) {
	srcs := []string{
		"1",
		"2+3*4",
		"(2+3)*4",
		"-(-(1))^(2)/3-4",
		"((1))+((2))",
		"1^2^3/4/5-6-7",
	}
	for _, src := range srcs {
		toks := Tokenize(src)
		a, err := Parse(toks)
		if err != nil {
			t.Errorf("%q failed to parse: %v", src, err)
			continue
		}
		if n := countTokens(a.Root(), toks); n != len(toks) {
			t.Errorf("%q: tree accounts for %d of %d tokens", src, n, len(toks))
		}
	}
}

// countTokens counts the tokens represented by a parse tree, plus the
// brackets in toks.
func countTokens(root Node, toks []Token) int {
	n := 0
	Walk(root, func(Node) bool {
		n++
		return true
	})
	for _, tok := range toks {
		if tok.Kind == TokenOpen || tok.Kind == TokenClose {
			n++
		}
	}
	return n
}

func TestWalk(t *testing.T) {
	a, err := ParseString("-(1+2)*3")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	Walk(a.Root(), func(n Node) bool {
		switch n := n.(type) {
		case *Literal:
			got = append(got, n.Value.String())
		case *Negate:
			got = append(got, "neg")
		case *BinaryOp:
			got = append(got, n.Op.String())
		}
		return true
	})
	want := []string{"1", "2", "+", "neg", "3", "*"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong walk order (-want +got):\n%s", diff)
	}
	k := 0
	if Walk(a.Root(), func(Node) bool { k++; return k < 2 }) {
		t.Error("Walk didn't report stopping")
	}
	if k != 2 {
		t.Errorf("Walk visited %d nodes after stopping at 2", k)
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "1^2*3+4+5*6^7"},
		{"descasc-parens", "(((1^2)*3)+4)+5*(6^7)"},
		{"ascdesc", "1+2*3^4^5*6+7"},
		{"ascdesc-parens", "1+((2*(3^(4^5)))*6)+7"},
		{"negs", "-----------1"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			toks := Tokenize(c.src)
			for i := 0; i < b.N; i++ {
				Parse(toks)
			}
		})
	}
}
