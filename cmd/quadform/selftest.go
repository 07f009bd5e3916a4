package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quadform/internal/chain"
	"quadform/internal/form"
	"quadform/internal/meter"
)

// selftestChain holds f0^(2^k), k = 1..11, for f0 = (20, 7, 1360) of
// discriminant -108751.
var selftestChain = []form.Form{
	form.FromInt64(68, -7, 400),
	form.FromInt64(161, 27, 170),
	form.FromInt64(10, 7, 2720),
	form.FromInt64(100, 7, 272),
	form.FromInt64(19, -9, 1432),
	form.FromInt64(98, 15, 278),
	form.FromInt64(145, 17, 188),
	form.FromInt64(38, -9, 716),
	form.FromInt64(160, 57, 175),
	form.FromInt64(118, -35, 233),
	form.FromInt64(73, -47, 380),
}

var errSelftest = errors.New("selftest failed")

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Square (20, 7, 1360) eleven times and check every step",
	Args:  cobra.NoArgs,
	RunE:  runSelftest,
}

func runSelftest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	quiet := isQuiet(cmd)
	ok := color.New(color.FgGreen).Sprint("ok")
	bad := color.New(color.FgRed, color.Bold).Sprint("FAIL")

	params, err := chain.Setup(big.NewInt(-108751))
	if err != nil {
		return err
	}
	failed := 0
	if params.L.Cmp(big.NewInt(12)) != 0 {
		fmt.Fprintf(out, "%s bound L = %s, want 12\n", bad, params.L)
		failed++
	}

	k := meter.NewKernel(meter.HookFor(cmd.Context(), nil))
	f := form.FromInt64(20, 7, 1360)
	for i, want := range selftestChain {
		got, err := k.Square(f, params.L)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		switch {
		case !got.Equal(want):
			fmt.Fprintf(out, "%s step %2d: %s, want %s\n", bad, i+1, got, want)
			failed++
		case !quiet:
			fmt.Fprintf(out, "%s   step %2d: %s\n", ok, i+1, got)
		}
		f = got
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d checks", errSelftest, failed, len(selftestChain)+1)
	}
	if !quiet {
		fmt.Fprintf(out, "%s all %d steps match\n", ok, len(selftestChain))
	}
	return nil
}
