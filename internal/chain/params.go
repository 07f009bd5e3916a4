// Package chain runs repeated NUDUPL squaring over a class group.
package chain

import (
	"errors"
	"fmt"
	"math/big"

	"quadform/internal/form"
)

// ErrBadDiscriminant reports a discriminant or start form the squaring
// chain cannot work with.
var ErrBadDiscriminant = errors.New("bad discriminant")

// Params fixes the class group a chain lives in.
type Params struct {
	D         *big.Int  // negative, 1 mod 8
	L         *big.Int  // partial reduction bound, form.Bound(D)
	Generator form.Form // (2, 1, (1-D)/8)
}

// Setup validates D and derives L and the generator form.
func Setup(d *big.Int) (Params, error) {
	if d == nil || d.Sign() >= 0 {
		return Params{}, fmt.Errorf("%w: %v is not negative", ErrBadDiscriminant, d)
	}
	if new(big.Int).Mod(d, big.NewInt(8)).Int64() != 1 {
		return Params{}, fmt.Errorf("%w: %s is not 1 mod 8", ErrBadDiscriminant, d)
	}

	// (1 - D) / 8 is exact since D = 1 (mod 8).
	c := new(big.Int).Sub(big.NewInt(1), d)
	c.Rsh(c, 3)

	return Params{
		D:         new(big.Int).Set(d),
		L:         form.Bound(d),
		Generator: form.Form{A: big.NewInt(2), B: big.NewInt(1), C: c},
	}, nil
}

// Check reports whether f is a usable start form for p.
func (p Params) Check(f form.Form) error {
	if p.D == nil || p.L == nil {
		return fmt.Errorf("%w: parameters not set up", ErrBadDiscriminant)
	}
	if f.A == nil || f.B == nil || f.C == nil {
		return fmt.Errorf("%w: incomplete form", ErrBadDiscriminant)
	}
	if f.A.Sign() <= 0 {
		return fmt.Errorf("%w: form %s is not positive definite", ErrBadDiscriminant, f)
	}
	if got := f.Discriminant(); got.Cmp(p.D) != 0 {
		return fmt.Errorf("%w: form %s has discriminant %s, want %s", ErrBadDiscriminant, f, got, p.D)
	}
	return nil
}
