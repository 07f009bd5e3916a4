// Package form implements binary quadratic forms a*x² + b*x*y + c*y² of
// negative discriminant: reduction to the canonical representative and
// squaring with Cohen's NUDUPL.
package form

import (
	"fmt"
	"math/big"
	"strings"

	"quadform/internal/arith"
)

// Form is the coefficient triple (A, B, C). Values are treated as
// immutable; every operation returns a new Form.
type Form struct {
	A *big.Int
	B *big.Int
	C *big.Int
}

// New returns a Form holding copies of a, b and c.
func New(a, b, c *big.Int) Form {
	return Form{
		A: new(big.Int).Set(a),
		B: new(big.Int).Set(b),
		C: new(big.Int).Set(c),
	}
}

// FromInt64 builds a Form from machine integers.
func FromInt64(a, b, c int64) Form {
	return Form{A: big.NewInt(a), B: big.NewInt(b), C: big.NewInt(c)}
}

// Parse reads "a,b,c" (optionally wrapped in parentheses, spaces allowed).
func Parse(s string) (Form, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Form{}, fmt.Errorf("form %q: expected three comma separated integers", s)
	}
	var vals [3]*big.Int
	for i, p := range parts {
		v, err := arith.Plain(p)
		if err != nil {
			return Form{}, fmt.Errorf("form %q: coefficient %d: %w", s, i, err)
		}
		vals[i] = v
	}
	return Form{A: vals[0], B: vals[1], C: vals[2]}, nil
}

// Discriminant returns b² - 4ac.
func (f Form) Discriminant() *big.Int {
	d := new(big.Int).Mul(f.B, f.B)
	ac := new(big.Int).Mul(f.A, f.C)
	ac.Lsh(ac, 2)
	return d.Sub(d, ac)
}

// IsReduced reports whether -a < b <= a <= c, with b >= 0 when a = c.
func (f Form) IsReduced() bool {
	negA := new(big.Int).Neg(f.A)
	if f.B.Cmp(negA) <= 0 || f.B.Cmp(f.A) > 0 {
		return false
	}
	switch f.A.Cmp(f.C) {
	case 1:
		return false
	case 0:
		return f.B.Sign() >= 0
	}
	return true
}

// Equal reports coefficient-wise equality.
func (f Form) Equal(g Form) bool {
	return f.A.Cmp(g.A) == 0 && f.B.Cmp(g.B) == 0 && f.C.Cmp(g.C) == 0
}

// BitLens returns the bit lengths of |a|, |b| and |c|.
func (f Form) BitLens() (a, b, c int) {
	return f.A.BitLen(), f.B.BitLen(), f.C.BitLen()
}

func (f Form) String() string {
	return fmt.Sprintf("(%s, %s, %s)", f.A, f.B, f.C)
}
