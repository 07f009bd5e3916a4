package form

import (
	"math/big"

	"quadform/internal/arith"
)

// Reduce returns the reduced form equivalent to the positive definite form f.
//
// Each pass applies a swap, by the matrix
//
//	|0 -1|
//	|1  0|
//
// when c < a, and a shift, by
//
//	|1 -n|
//	|0  1|
//
// with n = floor((b+a) / 2a), when b lies outside (-a, a]. Passes repeat
// until neither applies. Every swap strictly lowers a, so the loop ends; on
// NUDUPL output it rarely needs a second pass. A form whose a drops to zero
// or below is returned as it stands.
func Reduce(f Form) Form {
	a := new(big.Int).Set(f.A)
	b := new(big.Int).Set(f.B)
	c := new(big.Int).Set(f.C)
	negA := new(big.Int)
	for a.Sign() > 0 {
		if c.Cmp(a) < 0 {
			a, b, c = c, b.Neg(b), a
			if a.Sign() <= 0 {
				break
			}
		}
		negA.Neg(a)
		if b.Cmp(negA) > 0 && b.Cmp(a) <= 0 {
			break
		}
		shiftInto(a, b, c)
	}
	if a.Cmp(c) == 0 && b.Sign() < 0 {
		b.Neg(b)
	}
	return Form{A: a, B: b, C: c}
}

// shiftInto moves b into (-a, a] in place, updating c so the discriminant
// is kept.
func shiftInto(a, b, c *big.Int) {
	twoA := new(big.Int).Lsh(a, 1)
	n, _ := arith.FloorDivMod(new(big.Int).Add(b, a), twoA)

	// b, c = b - 2an, c - bn + an²
	an := new(big.Int).Mul(a, n)
	b.Sub(b, an)
	c.Sub(c, new(big.Int).Mul(n, b))
	b.Sub(b, an)

	// floor leaves b in [-a, a); (a, -a, c) and (a, a, c) are one shift apart
	if b.Cmp(new(big.Int).Neg(a)) == 0 {
		b.Neg(b)
	}
}
