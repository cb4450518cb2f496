package arith

import "strconv"

// EndError is an error indicating that the input ended where a number,
// unary minus, or open parenthesis was required. It implements InputError.
type EndError struct {
	// Col is the column just past the end of the input.
	Col int
	// Idx is the token index, which equals the number of tokens.
	Idx int
}

func (err *EndError) Error() string {
	if err.Idx == 0 {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "unexpected end of expression")
}

func (err *EndError) Pos() int   { return err.Col }
func (err *EndError) Index() int { return err.Idx }

// TokenError is an error indicating a token that cannot begin a factor, e.g.
// a binary operator, a close parenthesis, or an invalid character. It
// implements InputError.
type TokenError struct {
	// Token is the offending token.
	Token Token
	// Idx is the token's index in the token sequence.
	Idx int
}

func (err *TokenError) Error() string {
	if err.Token.Kind == TokenInvalid {
		return errpos(err.Token.Col, "invalid character "+strconv.Quote(err.Token.Text))
	}
	return errpos(err.Token.Col, "unexpected token "+strconv.Quote(err.Token.Text))
}

func (err *TokenError) Pos() int   { return err.Token.Col }
func (err *TokenError) Index() int { return err.Idx }

// BracketError is an error indicating an open parenthesis without a matching
// close parenthesis. It implements InputError.
type BracketError struct {
	// Col is the position where the close parenthesis was expected.
	Col int
	// Idx is the token index where the close parenthesis was expected.
	Idx int
	// Open is the column of the unmatched open parenthesis.
	Open int
	// Found is the text of the token found instead, or the empty string if
	// the input ended.
	Found string
}

func (err *BracketError) Error() string {
	if err.Found == "" {
		return errpos(err.Col, "open bracket at column "+strconv.Itoa(err.Open)+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: expected ) to match column "+strconv.Itoa(err.Open)+", found "+strconv.Quote(err.Found))
}

func (err *BracketError) Pos() int   { return err.Col }
func (err *BracketError) Index() int { return err.Idx }

// TrailingError is an error indicating that a complete expression was parsed
// but tokens remain after it. It implements InputError.
type TrailingError struct {
	// Token is the first unconsumed token.
	Token Token
	// Idx is the index of the first unconsumed token.
	Idx int
}

func (err *TrailingError) Error() string {
	if err.Token.Kind == TokenClose {
		return errpos(err.Token.Col, "close bracket ) with no open bracket")
	}
	return errpos(err.Token.Col, "unexpected "+strconv.Quote(err.Token.Text)+" after expression")
}

func (err *TrailingError) Pos() int   { return err.Token.Col }
func (err *TrailingError) Index() int { return err.Idx }

// DepthError is an error indicating that brackets, unary minus, or
// exponentiation were nested more deeply than the parser allows. It
// implements InputError.
type DepthError struct {
	// Token is the token at which the limit was exceeded.
	Token Token
	// Idx is the index of Token.
	Idx int
	// Max is the nesting limit in effect.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Token.Col, "expression nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int   { return err.Token.Col }
func (err *DepthError) Index() int { return err.Idx }

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token that caused the error,
	// or one past the last column if the input ended unexpectedly.
	Pos() int
	// Index returns the index of the offending token in the token sequence.
	Index() int
}

var (
	_ InputError = (*EndError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*TrailingError)(nil)
	_ InputError = (*DepthError)(nil)
)
