// Package arith implements an arbitrary-precision calculator for integer
// arithmetic expressions.
//
// Evaluation happens in three steps. Tokenize splits text into tokens, and
// never fails; characters it does not understand become TokenInvalid tokens.
// Parse builds a parse tree from the tokens by recursive descent:
//
//	expr   = term { ('+' | '-') term }
//	term   = power { ('*' | '/') power }
//	power  = factor [ '^' power ]
//	factor = '-' factor | '(' expr ')' | num
//
// so "2^3^2" is "2^(3^2)", and "-5^2" is "(-5)^2" unless the NegateBelowPow
// option is given. Finally, Context.Eval walks the tree and computes the
// result as a *big.Float. Division is exact to the context's precision, not
// truncating.
//
// Parse returns the first error it finds, and every such error implements
// InputError. Eval fails only on division by zero or results that are not
// real numbers.
package arith
