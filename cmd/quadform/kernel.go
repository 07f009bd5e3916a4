package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"quadform/internal/arith"
	"quadform/internal/form"
	"quadform/internal/meter"
)

// Kernel commands take integers as positional arguments; put "--" before
// them when one is negative.
var kernelCmds = []*cobra.Command{
	{
		Use:   "reduce a b c",
		Short: "Reduce a positive definite form",
		Args:  cobra.ExactArgs(3),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			f := form.New(v[0], v[1], v[2])
			if f.Discriminant().Sign() >= 0 {
				return nil, fmt.Errorf("form %s: discriminant %s is not negative", f, f.Discriminant())
			}
			if f.A.Sign() <= 0 {
				return nil, fmt.Errorf("form %s: a must be positive", f)
			}
			return []string{k.Reduce(f).String()}, nil
		}),
	},
	{
		Use:   "xgcd a b",
		Short: "Extended gcd: a*x + b*y = g",
		Args:  cobra.ExactArgs(2),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			bz := k.XGCD(v[0], v[1])
			return []string{"g = " + bz.G.String(), "x = " + bz.X.String(), "y = " + bz.Y.String()}, nil
		}),
	},
	{
		Use:   "gcd a b",
		Short: "Greatest common divisor",
		Args:  cobra.ExactArgs(2),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			return []string{k.GCD(v[0], v[1]).String()}, nil
		}),
	},
	{
		Use:   "inverse x m",
		Short: "Inverse of x modulo m",
		Args:  cobra.ExactArgs(2),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			inv, err := k.ModInverse(v[0], v[1])
			if err != nil {
				return nil, err
			}
			return []string{inv.String()}, nil
		}),
	},
	{
		Use:   "partial a b L",
		Short: "Partial extended gcd stopped at bound L",
		Args:  cobra.ExactArgs(3),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			if v[2].Sign() < 0 {
				return nil, fmt.Errorf("bound %s is negative", v[2])
			}
			p := k.PartialXGCD(v[0], v[1], v[2])
			return []string{
				"u = " + p.U.String(), "x = " + p.X.String(),
				"v = " + p.V.String(), "y = " + p.Y.String(),
			}, nil
		}),
	},
	{
		Use:   "solve a b c",
		Short: "Solve a*x + b*y = c with |x| minimal",
		Args:  cobra.ExactArgs(3),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			x, y, err := k.SolveLinear(v[0], v[1], v[2])
			if err != nil {
				return nil, err
			}
			return []string{"x = " + x.String(), "y = " + y.String()}, nil
		}),
	},
	{
		Use:   "divmod a b",
		Short: "Division with the remainder of least absolute value",
		Args:  cobra.ExactArgs(2),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			if v[1].Sign() == 0 {
				return nil, fmt.Errorf("division by zero: %w", arith.ErrPrecondition)
			}
			q, r := k.DivModMin(v[0], v[1])
			return []string{"q = " + q.String(), "r = " + r.String()}, nil
		}),
	},
	{
		Use:   "ipow a b",
		Short: "Integer power a^b",
		Args:  cobra.ExactArgs(2),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			p, err := k.Ipow(v[0], v[1])
			if err != nil {
				return nil, err
			}
			return []string{p.String()}, nil
		}),
	},
	{
		Use:   "isqrt n",
		Short: "Integer square root",
		Args:  cobra.ExactArgs(1),
		RunE: kernelRun(func(k meter.Kernel, v []*big.Int) ([]string, error) {
			if v[0].Sign() < 0 {
				return nil, fmt.Errorf("isqrt of negative %s: %w", v[0], arith.ErrDomain)
			}
			return []string{k.Isqrt(v[0]).String()}, nil
		}),
	},
}

// kernelRun parses the positional integers and prints one line per result.
// Routine calls are traced at debug level.
func kernelRun(fn func(meter.Kernel, []*big.Int) ([]string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		vals, err := parseInts(args)
		if err != nil {
			return err
		}
		k := meter.NewKernel(meter.HookFor(cmd.Context(), nil))
		lines, err := fn(k, vals)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	}
}

func parseInts(args []string) ([]*big.Int, error) {
	vals := make([]*big.Int, len(args))
	for i, a := range args {
		v, err := arith.Plain(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}
