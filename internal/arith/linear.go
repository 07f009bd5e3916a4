package arith

import (
	"fmt"
	"math/big"
)

// SolveLinearX returns the x of minimal |x| for which a*x + b*y = c has an
// integer solution y.
//
// Given a*u + b*v = g = gcd(a, b), every solution has the form
//
//	x = u*(c/g) + n*(b/g)
//	y = v*(c/g) - n*(a/g)
//
// so the minimal x is u*(c/g) reduced with ModMin modulo b/g.
func SolveLinearX(a, b, c *big.Int) (*big.Int, error) {
	switch {
	case a.Sign() == 0 && b.Sign() == 0:
		if c.Sign() != 0 {
			return nil, fmt.Errorf("%w: 0*x + 0*y = %s", ErrNoSolution, c)
		}
		return big.NewInt(0), nil
	case a.Sign() == 0:
		if !divides(b, c) {
			return nil, fmt.Errorf("%w: %s does not divide %s", ErrNoSolution, b, c)
		}
		return big.NewInt(0), nil
	case b.Sign() == 0:
		x, err := ExactDiv(c, a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s does not divide %s", ErrNoSolution, a, c)
		}
		return x, nil
	}

	bz := XGCD(a, b)
	cg, err := ExactDiv(c, bz.G)
	if err != nil {
		return nil, fmt.Errorf("%w: gcd(%s, %s) = %s does not divide %s", ErrNoSolution, a, b, bz.G, c)
	}
	x := new(big.Int).Mul(bz.X, cg)
	if bz.G.Cmp(bigOne) == 0 {
		return ModMin(x, b), nil
	}
	return ModMin(x, new(big.Int).Quo(b, bz.G)), nil
}

// SolveLinear returns (x, y) with a*x + b*y = c and |x| minimal.
func SolveLinear(a, b, c *big.Int) (x, y *big.Int, err error) {
	x, err = SolveLinearX(a, b, c)
	if err != nil {
		return nil, nil, err
	}
	if b.Sign() == 0 {
		return x, big.NewInt(0), nil
	}
	rest := new(big.Int).Mul(a, x)
	rest.Sub(c, rest)
	y, err = ExactDiv(rest, b)
	if err != nil {
		// x came from a Bezout identity, so b must divide c - a*x
		return nil, nil, fmt.Errorf("%w: solve_linear(%s, %s, %s): %w", ErrPrecondition, a, b, c, err)
	}
	return x, y, nil
}

func divides(d, n *big.Int) bool {
	return new(big.Int).Rem(n, d).Sign() == 0
}
