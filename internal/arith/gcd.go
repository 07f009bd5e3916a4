package arith

import (
	"fmt"
	"math/big"
)

// Bezout holds the result of XGCD: A*X + B*Y = G with G >= 0.
type Bezout struct {
	G *big.Int
	X *big.Int
	Y *big.Int
}

// XGCD returns (g, x, y) with a*x + b*y = g = gcd(a, b).
//
// It runs the extended Euclidean recurrence with minimal-remainder division.
// At the top of every iteration
//
//	x0*a0 + y0*b0 = b
//	x1*a0 + y1*b0 = a
//	x0*y1 - y0*x1 = ±1
//
// and |a| strictly decreases, so the loop ends with a = 0 and b = ±gcd.
func XGCD(a, b *big.Int) Bezout {
	a = new(big.Int).Set(a)
	b = new(big.Int).Set(b)
	x0, x1 := big.NewInt(0), big.NewInt(1)
	y0, y1 := big.NewInt(1), big.NewInt(0)

	t := new(big.Int)
	for a.Sign() != 0 {
		q, r := DivModMin(b, a)

		// y0, y1 = y1, y0 - q*y1
		t.Mul(q, y1)
		y0.Sub(y0, t)
		y0, y1 = y1, y0

		// x0, x1 = x1, x0 - q*x1
		t.Mul(q, x1)
		x0.Sub(x0, t)
		x0, x1 = x1, x0

		b, a = a, r
	}

	if b.Sign() < 0 {
		return Bezout{G: b.Neg(b), X: x0.Neg(x0), Y: y0.Neg(y0)}
	}
	return Bezout{G: b, X: x0, Y: y0}
}

// GCD returns gcd(a, b) >= 0 without tracking Bezout coefficients.
// GCD(0, 0) is 0.
func GCD(a, b *big.Int) *big.Int {
	if a.CmpAbs(b) > 0 {
		a, b = b, a
	}
	a = new(big.Int).Set(a)
	b = new(big.Int).Set(b)
	for a.Sign() != 0 {
		a, b = ModMin(b, a), a
	}
	return b.Abs(b)
}

// ModInverse returns v with v*x = 1 (mod m). It is the x coefficient of
// XGCD(x, m) and is not normalized into [0, m).
func ModInverse(x, m *big.Int) (*big.Int, error) {
	bz := XGCD(x, m)
	if bz.G.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: gcd(%s, %s) = %s", ErrNotInvertible, x, m, bz.G)
	}
	return bz.X, nil
}
