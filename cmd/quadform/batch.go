package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"quadform/internal/chain"
	"quadform/internal/observ"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags]",
	Short: "Run the [[batch]] chains of quadform.toml concurrently",
	Args:  cobra.NoArgs,
	RunE:  runBatch,
}

func init() {
	addChainFlags(batchCmd)
	batchCmd.Flags().Int("workers", 0, "chains run at once (0: [chain].workers or GOMAXPROCS)")
}

var errNoBatch = errors.New("no [[batch]] entries")

func runBatch(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("%w: no quadform.toml found", errNoBatch)
	}
	if len(cfg.Batch) == 0 {
		return fmt.Errorf("%s: %w", cfg.Path, errNoBatch)
	}

	jobs := make([]chain.Job, 0, len(cfg.Batch))
	names := make([]string, 0, len(cfg.Batch))
	var longest uint64
	err = timer.Time("setup", func() error {
		for _, entry := range cfg.Batch {
			d, err := entry.Resolve()
			if err != nil {
				return fmt.Errorf("batch %q: %w", entry.Name, err)
			}
			params, err := chain.Setup(d)
			if err != nil {
				return fmt.Errorf("batch %q: %w", entry.Name, err)
			}
			job := chain.Job{Name: entry.Name, Params: params, Steps: entry.Steps}
			f, ok, err := entry.Start()
			if err != nil {
				return fmt.Errorf("batch %q: form: %w", entry.Name, err)
			}
			if ok {
				job.Start = f
			}
			jobs = append(jobs, job)
			names = append(names, entry.Name)
			longest = max(longest, entry.Steps)
		}
		return nil
	})
	if err != nil {
		return err
	}

	settings, err := readChainSettings(cmd, cfg, longest)
	if err != nil {
		return err
	}
	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("workers") {
		workers = cfg.Chain.Workers
	}

	base := settings.squarer()
	work := func(ctx context.Context, sink chain.ProgressSink) ([]chain.Result, error) {
		b := base
		b.Sink = sink
		return chain.RunBatch(ctx, jobs, workers, b)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var results []chain.Result
	runErr := timer.Time("square", func() error {
		var err error
		if settings.useTUI {
			results, err = runWithUI(ctx, "quadform batch", names, work)
		} else {
			results, err = work(ctx, nil)
		}
		return err
	})

	out := cmd.OutOrStdout()
	quiet := isQuiet(cmd)
	for i, res := range results {
		if res.Final.A == nil {
			// never started
			continue
		}
		printResult(out, res, jobs[i].Params, quiet)
	}
	if runErr != nil {
		return runErr
	}
	return finishChains(cmd, timer, settings, "quadform batch", results)
}
