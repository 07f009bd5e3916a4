package arith

import (
	"fmt"
	"math/big"
)

var bigOne = big.NewInt(1)

// FloorDivMod returns q, r with a = q*b + r where r is zero or has the sign
// of b, the plain convention NUDUPL's partial reduction needs. b must be
// non-zero.
func FloorDivMod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, bigOne)
		r.Add(r, b)
	}
	return q, r
}

// ExactDiv returns a/b and fails with ErrNotExact when b does not divide a.
func ExactDiv(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, fmt.Errorf("%w: division of %s by zero", ErrNotExact, a)
	}
	q, r := FloorDivMod(a, b)
	if r.Sign() != 0 {
		return nil, fmt.Errorf("%w: %s / %s leaves %s", ErrNotExact, a, b, r)
	}
	return q, nil
}

// DivModMin returns q, r such that a = q*b + r with |r| minimal, that is
// 2|r| <= |b|. b must be non-zero.
func DivModMin(a, b *big.Int) (q, r *big.Int) {
	q, r = FloorDivMod(a, b)
	// floor division gives |r| < |b| with r and b of equal sign, so
	// |r| > |b/2| is the same test as |r| > |b - r|
	diff := new(big.Int).Sub(b, r)
	if r.CmpAbs(diff) > 0 {
		q.Add(q, bigOne)
		r.Neg(diff)
	}
	return q, r
}

// ModMin returns r = a (mod b) with minimal |r|. b must be non-zero.
func ModMin(a, b *big.Int) *big.Int {
	_, r := FloorDivMod(a, b)
	diff := new(big.Int).Sub(b, r)
	if r.CmpAbs(diff) > 0 {
		return diff.Neg(diff)
	}
	return r
}
