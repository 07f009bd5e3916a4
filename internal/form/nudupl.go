package form

import (
	"fmt"
	"math/big"

	"quadform/internal/arith"
)

// Bound returns L = floor(floor(|D/4|^(1/2))^(1/2)), the partial reduction
// threshold for discriminant D.
func Bound(d *big.Int) *big.Int {
	q := new(big.Int).Abs(d)
	q.Rsh(q, 2)
	return arith.Isqrt(arith.Isqrt(q))
}

// Square returns the reduced square of the reduced form f using NUDUPL
// (Cohen, "A Course in Computational Algebraic Number Theory", algorithm
// 5.4.8). A nil L is computed from the discriminant of f.
//
// Every division inside is exact for valid input; a remainder means f was
// not a reduced form of negative discriminant and is reported as
// arith.ErrNotExact.
func Square(f Form, L *big.Int) (Form, error) {
	a, b, c := f.A, f.B, f.C
	if a.Sign() <= 0 {
		return Form{}, fmt.Errorf("nudupl %s: %w: leading coefficient must be positive", f, arith.ErrPrecondition)
	}
	if L == nil {
		L = Bound(f.Discriminant())
	}

	// Euclidean step: u*b + v*a = d1 = gcd(b, a)
	bz := arith.XGCD(b, a)
	d1, u := bz.G, bz.X
	A, err := arith.ExactDiv(a, d1)
	if err != nil {
		return Form{}, fmt.Errorf("nudupl %s: %w", f, err)
	}
	B, err := arith.ExactDiv(b, d1)
	if err != nil {
		return Form{}, fmt.Errorf("nudupl %s: %w", f, err)
	}
	C := new(big.Int).Mul(c, u)
	C.Neg(C)
	_, C = arith.FloorDivMod(C, A)
	if C1 := new(big.Int).Sub(A, C); C1.Cmp(C) < 0 {
		C = C1.Neg(C1)
	}

	// Partial reduction of (A, C). Loop invariant, with the sign flipping
	// on every step:
	//   v2*d - v*v3 = ±A
	v := big.NewInt(0)
	d := new(big.Int).Set(A)
	v2 := big.NewInt(1)
	v3 := C
	z := 0
	for v3.CmpAbs(L) > 0 {
		q, t3 := arith.FloorDivMod(d, v3)
		t2 := new(big.Int).Mul(q, v2)
		t2.Sub(v, t2)
		v, d, v2, v3 = v2, v3, t2, t3
		z++
	}
	if z%2 == 1 {
		v2 = new(big.Int).Neg(v2)
		v3 = new(big.Int).Neg(v3)
	}

	if z == 0 {
		g := new(big.Int).Mul(B, v3)
		g.Add(g, c)
		g, err = arith.ExactDiv(g, d)
		if err != nil {
			return Form{}, fmt.Errorf("nudupl %s: %w", f, err)
		}
		a2 := new(big.Int).Mul(d, d)
		c2 := new(big.Int).Mul(v3, v3)
		b2 := new(big.Int).Add(d, v3)
		b2.Mul(b2, b2)
		b2.Add(b2, b)
		b2.Sub(b2, a2)
		b2.Sub(b2, c2)
		c2.Add(c2, g.Mul(g, d1))
		return Reduce(Form{A: a2, B: b2, C: c2}), nil
	}

	e := new(big.Int).Mul(c, v)
	e.Add(e, new(big.Int).Mul(B, d))
	e, err = arith.ExactDiv(e, A)
	if err != nil {
		return Form{}, fmt.Errorf("nudupl %s: %w", f, err)
	}
	g := new(big.Int).Mul(e, v2)
	g.Sub(g, B)
	g, err = arith.ExactDiv(g, v)
	if err != nil {
		return Form{}, fmt.Errorf("nudupl %s: %w", f, err)
	}
	b2 := new(big.Int).Mul(e, v2)
	b2.Add(b2, new(big.Int).Mul(v, g))
	if d1.Cmp(big.NewInt(1)) > 0 {
		b2.Mul(b2, d1)
		v = new(big.Int).Mul(v, d1)
		v2 = new(big.Int).Mul(v2, d1)
	}

	a2 := new(big.Int).Mul(d, d)
	c2 := new(big.Int).Mul(v3, v3)
	dv3 := new(big.Int).Add(d, v3)
	dv3.Mul(dv3, dv3)
	b2.Add(b2, dv3)
	b2.Sub(b2, a2)
	b2.Sub(b2, c2)
	a2.Add(a2, new(big.Int).Mul(e, v))
	c2.Add(c2, new(big.Int).Mul(g, v2))

	return Reduce(Form{A: a2, B: b2, C: c2}), nil
}
