package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quadform/internal/chain"
	"quadform/internal/discriminant"
)

var discriminantCmd = &cobra.Command{
	Use:   "discriminant --seed s [--bits n]",
	Short: "Derive a negative prime discriminant from a seed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := cmd.Flags().GetString("seed")
		if err != nil {
			return err
		}
		bits, err := cmd.Flags().GetInt("bits")
		if err != nil {
			return err
		}
		d, err := discriminant.FromSeed([]byte(seed), bits)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, d)

		showParams, err := cmd.Flags().GetBool("params")
		if err != nil || !showParams {
			return err
		}
		params, err := chain.Setup(d)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "L = %s\ngenerator = %s\n", params.L, params.Generator)
		return nil
	},
}

func init() {
	discriminantCmd.Flags().String("seed", "", "seed bytes (required)")
	discriminantCmd.Flags().Int("bits", 256, "bit length of |D|")
	discriminantCmd.Flags().Bool("params", false, "also print the bound L and the generator")
	_ = discriminantCmd.MarkFlagRequired("seed")
}
