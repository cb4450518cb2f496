package arith

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Token is a single lexical unit of an expression.
type Token struct {
	// Text is the source text of the token. For TokenInvalid, it is the
	// single character that could not be lexed, or a single byte of invalid
	// UTF-8.
	Text string
	// Kind is the token's type.
	Kind TokenKind
	// Col is the 1-based rune column of the token's first rune.
	Col int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Col)
}

// Value returns the integer value of a number token. The result is nil for
// any other kind of token.
func (t Token) Value() *big.Int {
	if t.Kind != TokenNum {
		return nil
	}
	v, ok := new(big.Int).SetString(t.Text, 10)
	if !ok {
		panic("arith: invalid number token " + strconv.Quote(t.Text))
	}
	return v
}

// is reports whether t is an operator or bracket with the given text.
func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenNum is a non-negative integer literal.
	TokenNum
	// TokenOp is one of the operators in Operators.
	TokenOp
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenInvalid is a character that belongs to no other token kind.
	TokenInvalid
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case TokenNum:
		return "Num"
	case TokenOp:
		return "Op"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenInvalid:
		return "Invalid"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are lexed as operators.
const Operators = "+-*/^"

// whitespace is the set of runes skipped between tokens.
const whitespace = " \t\n\r"

// Tokenize splits an expression into tokens. It never fails: characters that
// cannot begin any token are returned as TokenInvalid tokens for the parser to
// reject. The result is nil if src contains only whitespace.
func Tokenize(src string) []Token {
	var toks []Token
	var num strings.Builder
	start := 0
	col := 0
	flush := func() {
		if num.Len() == 0 {
			return
		}
		toks = append(toks, Token{Text: num.String(), Kind: TokenNum, Col: start})
		num.Reset()
	}
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		text := src[i : i+size]
		i += size
		col++
		if '0' <= r && r <= '9' {
			if num.Len() == 0 {
				start = col
			}
			num.WriteRune(r)
			continue
		}
		flush()
		switch {
		case strings.ContainsRune(whitespace, r):
			// skip
		case strings.ContainsRune(Operators, r):
			toks = append(toks, Token{Text: string(r), Kind: TokenOp, Col: col})
		case r == '(':
			toks = append(toks, Token{Text: "(", Kind: TokenOpen, Col: col})
		case r == ')':
			toks = append(toks, Token{Text: ")", Kind: TokenClose, Col: col})
		default:
			// Invalid UTF-8 keeps its original byte rather than U+FFFD.
			toks = append(toks, Token{Text: text, Kind: TokenInvalid, Col: col})
		}
	}
	flush()
	return toks
}

// Texts returns the source text of each token, in order.
func Texts(toks []Token) []string {
	if toks == nil {
		return nil
	}
	s := make([]string, len(toks))
	for i, t := range toks {
		s[i] = t.Text
	}
	return s
}
