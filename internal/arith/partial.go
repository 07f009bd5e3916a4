package arith

import (
	"fmt"
	"math/big"
)

// Partial is the result of PartialXGCD.
//
//	U*X + V*Y = a
//	gcd(U, V) = gcd(a, b)
//	gcd(X, Y) = 1
//	U = 0 or |V| <= L
//
// Steps counts the reduction steps taken and is only meant for diagnostics.
type Partial struct {
	U     *big.Int
	X     *big.Int
	V     *big.Int
	Y     *big.Int
	Steps int
}

// PartialXGCD runs the Euclidean reduction on (a, b) and stops as soon as
// u = 0 or |v| <= L.
//
// Each step applies the determinant-one transform
//
//	|x'| = |0 -1| |x|       |u'| = |q -1| |u|
//	|y'|   |1  q| |y|       |v'|   |1  0| |v|
//
// with v = q*u + r taken from DivModMin. Note the positive sign convention,
// which matches XGCD and differs from some libraries (Flint among them).
func PartialXGCD(a, b, L *big.Int) Partial {
	u := new(big.Int).Set(a)
	v := new(big.Int).Set(b)
	x := big.NewInt(1)
	y := big.NewInt(0)

	steps := 0
	for u.Sign() != 0 && v.CmpAbs(L) > 0 {
		q, r := DivModMin(v, u)

		// x, y = -y, x + q*y
		nx := new(big.Int).Neg(y)
		y.Mul(q, y)
		y.Add(y, x)
		x = nx

		// u, v = -r, u
		u, v = r.Neg(r), u
		steps++
	}

	check := new(big.Int).Mul(u, x)
	check.Add(check, new(big.Int).Mul(v, y))
	if check.Cmp(a) != 0 {
		panic(&InvariantError{
			Routine: "partial_xgcd",
			Detail:  fmt.Sprintf("u*x + v*y = %s, want %s", check, a),
		})
	}

	return Partial{U: u, X: x, V: v, Y: y, Steps: steps}
}
