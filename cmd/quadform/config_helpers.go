package main

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"quadform/internal/arith"
	"quadform/internal/config"
)

// loadConfig reads --config, or the nearest quadform.toml when the flag is
// empty. A missing file is not an error unless --config names it.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	f, _, err := config.Discover(".")
	return f, err
}

// addGroupFlags registers the flags that select a class group.
func addGroupFlags(c *cobra.Command) {
	c.Flags().String("discriminant", "", "negative discriminant, D = 1 (mod 8)")
	c.Flags().String("seed", "", "derive the discriminant from this seed")
	c.Flags().Int("bits", 256, "discriminant size when --seed is given")
	c.Flags().String("form", "", "start form \"a,b,c\" (default: the generator)")
}

// groupFromFlags merges the group flags over the [group] section of cfg.
// Naming a discriminant or a seed on the command line replaces the file's
// group entirely.
func groupFromFlags(cmd *cobra.Command, cfg *config.File) (config.Group, error) {
	var g config.Group
	if cfg != nil {
		g = cfg.Group
	}
	flags := cmd.Flags()

	if flags.Changed("discriminant") || flags.Changed("seed") {
		g = config.Group{}
		ds, err := flags.GetString("discriminant")
		if err != nil {
			return g, err
		}
		if ds != "" {
			d, err := arith.Plain(ds)
			if err != nil {
				return g, fmt.Errorf("--discriminant: %w", err)
			}
			g.Discriminant = config.Integer{Int: d}
		}
		if g.Seed, err = flags.GetString("seed"); err != nil {
			return g, err
		}
	}
	if flags.Changed("bits") || g.Bits == 0 {
		bits, err := flags.GetInt("bits")
		if err != nil {
			return g, err
		}
		g.Bits = bits
	}
	if flags.Changed("form") {
		fs, err := flags.GetString("form")
		if err != nil {
			return g, err
		}
		g.Form = fs
	}
	return g, nil
}

// countFlag reads a signed int64 flag as a non-negative count. When the
// flag was not given, fallback is used if it is non-zero.
func countFlag(cmd *cobra.Command, name string, fallback uint64) (uint64, error) {
	v, err := cmd.Flags().GetInt64(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if !cmd.Flags().Changed(name) && fallback != 0 {
		return fallback, nil
	}
	n, err := safecast.Conv[uint64](v)
	if err != nil {
		return 0, fmt.Errorf("--%s must not be negative: %w", name, err)
	}
	return n, nil
}
