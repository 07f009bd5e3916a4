package arith

import (
	"fmt"
	"math/big"
)

// Isqrt returns floor(sqrt(n)) for n >= 0. Negative n panics.
func Isqrt(n *big.Int) *big.Int {
	return new(big.Int).Sqrt(n)
}

// Ipow returns a**b for integer b.
//
// Negative exponents are only defined for bases 0, 1 and -1; any other base
// with b < 0 reports ErrDomain since the result would not be an integer.
func Ipow(a, b *big.Int) (*big.Int, error) {
	switch {
	case b.Sign() == 0:
		return big.NewInt(1), nil
	case a.Sign() == 0:
		return big.NewInt(0), nil
	case a.Cmp(bigOne) == 0:
		return big.NewInt(1), nil
	case a.IsInt64() && a.Int64() == -1:
		if b.Bit(0) == 1 {
			return big.NewInt(-1), nil
		}
		return big.NewInt(1), nil
	case b.Sign() < 0:
		return nil, fmt.Errorf("%w: ipow(%s, %s) needs a non-negative exponent when |base| > 1", ErrDomain, a, b)
	}

	base := new(big.Int).Set(a)
	exp := new(big.Int).Set(b)
	val := big.NewInt(1)
	for {
		bit := exp.Bit(0)
		exp.Rsh(exp, 1)
		if bit == 1 {
			val.Mul(val, base)
		}
		if exp.Sign() == 0 {
			break
		}
		base.Mul(base, base)
	}
	return val, nil
}
