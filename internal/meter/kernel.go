package meter

import (
	"math/big"

	"quadform/internal/arith"
	"quadform/internal/form"
)

// Routine names reported to hooks.
const (
	RoutineExactDiv     = "exact_div"
	RoutineDivModMin    = "divmod_min"
	RoutineModMin       = "mod_min"
	RoutineIsqrt        = "isqrt"
	RoutineIpow         = "ipow"
	RoutineXGCD         = "xgcd"
	RoutineGCD          = "gcd"
	RoutineModInverse   = "mod_inverse"
	RoutinePartialXGCD  = "partial_xgcd"
	RoutineSolveLinearX = "solve_linear_x"
	RoutineSolveLinear  = "solve_linear"
	RoutineReduce       = "reduce"
	RoutineSquare       = "nudupl"
)

// Kernel calls the arith and form routines through a Hook. Results are
// exactly those of the bare routines. Only the outermost call is reported;
// routines used internally by Square are not.
type Kernel struct {
	hook Hook
}

// NewKernel wraps h; a nil h behaves like Nop.
func NewKernel(h Hook) Kernel {
	if h == nil {
		h = Nop
	}
	return Kernel{hook: h}
}

func (k Kernel) h() Hook {
	if k.hook == nil {
		return Nop
	}
	return k.hook
}

func (k Kernel) ExactDiv(a, b *big.Int) (*big.Int, error) {
	tok := k.h().Start(RoutineExactDiv, a, b)
	defer k.h().Stop(tok)
	return arith.ExactDiv(a, b)
}

func (k Kernel) DivModMin(a, b *big.Int) (q, r *big.Int) {
	tok := k.h().Start(RoutineDivModMin, a, b)
	defer k.h().Stop(tok)
	return arith.DivModMin(a, b)
}

func (k Kernel) ModMin(a, b *big.Int) *big.Int {
	tok := k.h().Start(RoutineModMin, a, b)
	defer k.h().Stop(tok)
	return arith.ModMin(a, b)
}

func (k Kernel) Isqrt(n *big.Int) *big.Int {
	tok := k.h().Start(RoutineIsqrt, n)
	defer k.h().Stop(tok)
	return arith.Isqrt(n)
}

func (k Kernel) Ipow(a, b *big.Int) (*big.Int, error) {
	tok := k.h().Start(RoutineIpow, a, b)
	defer k.h().Stop(tok)
	return arith.Ipow(a, b)
}

func (k Kernel) XGCD(a, b *big.Int) arith.Bezout {
	tok := k.h().Start(RoutineXGCD, a, b)
	defer k.h().Stop(tok)
	return arith.XGCD(a, b)
}

func (k Kernel) GCD(a, b *big.Int) *big.Int {
	tok := k.h().Start(RoutineGCD, a, b)
	defer k.h().Stop(tok)
	return arith.GCD(a, b)
}

func (k Kernel) ModInverse(x, m *big.Int) (*big.Int, error) {
	tok := k.h().Start(RoutineModInverse, x, m)
	defer k.h().Stop(tok)
	return arith.ModInverse(x, m)
}

func (k Kernel) PartialXGCD(a, b, L *big.Int) arith.Partial {
	tok := k.h().Start(RoutinePartialXGCD, a, b, L)
	defer k.h().Stop(tok)
	return arith.PartialXGCD(a, b, L)
}

func (k Kernel) SolveLinearX(a, b, c *big.Int) (*big.Int, error) {
	tok := k.h().Start(RoutineSolveLinearX, a, b, c)
	defer k.h().Stop(tok)
	return arith.SolveLinearX(a, b, c)
}

func (k Kernel) SolveLinear(a, b, c *big.Int) (x, y *big.Int, err error) {
	tok := k.h().Start(RoutineSolveLinear, a, b, c)
	defer k.h().Stop(tok)
	return arith.SolveLinear(a, b, c)
}

func (k Kernel) Reduce(f form.Form) form.Form {
	tok := k.h().Start(RoutineReduce, f.A, f.B, f.C)
	defer k.h().Stop(tok)
	return form.Reduce(f)
}

// Square reports the form coefficients as operands; L is not reported.
func (k Kernel) Square(f form.Form, L *big.Int) (form.Form, error) {
	tok := k.h().Start(RoutineSquare, f.A, f.B, f.C)
	defer k.h().Stop(tok)
	return form.Square(f, L)
}
