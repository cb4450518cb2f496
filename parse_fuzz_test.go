package arith

import "testing"

func FuzzParse(f *testing.F) {
	f.Add("2+3*4")
	f.Add("-(1^2)")
	f.Add("((1)")
	f.Add("1 2$")
	f.Fuzz(func(t *testing.T, s string) {
		toks := Tokenize(s)
		a, err := Parse(toks)
		if (a == nil) == (err == nil) {
			t.Fatalf("%q parsed to %v with error %v", s, a, err)
		}
		if err != nil {
			if _, ok := err.(InputError); !ok {
				t.Fatalf("%q gave non-input error %#v", s, err)
			}
			return
		}
		if n := countTokens(a.Root(), toks); n != len(toks) {
			t.Fatalf("%q: tree accounts for %d of %d tokens", s, n, len(toks))
		}
	})
}
