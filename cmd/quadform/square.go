package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quadform/internal/chain"
	"quadform/internal/checkpoint"
	"quadform/internal/config"
	"quadform/internal/form"
	"quadform/internal/meter"
	"quadform/internal/observ"
	"quadform/internal/report"
)

var squareCmd = &cobra.Command{
	Use:   "square [flags]",
	Short: "Square a form repeatedly with NUDUPL",
	Long: `Square a reduced form of negative discriminant the given number of times.
The group comes from --discriminant, --seed/--bits or the [group] section of
quadform.toml; the start form defaults to the generator (2, 1, (1 - D)/8).`,
	Args: cobra.NoArgs,
	RunE: runSquare,
}

func init() {
	addGroupFlags(squareCmd)
	addChainFlags(squareCmd)
	squareCmd.Flags().Int64("steps", 1000, "number of squarings")
	squareCmd.Flags().String("name", "", "chain name shown in progress and charts")
}

// addChainFlags registers the flags shared by square and batch.
func addChainFlags(c *cobra.Command) {
	c.Flags().String("checkpoint", "", "checkpoint directory (resume and save progress)")
	c.Flags().Int64("save-every", 0, "save a checkpoint every N steps (0: only on exit)")
	c.Flags().Int64("every", 0, "sample coefficient sizes every N steps (0: about 100 samples)")
	c.Flags().String("chart", "", "write an HTML chart of coefficient sizes to file")
	c.Flags().Bool("meter", false, "count kernel routine calls and print a table")
	c.Flags().String("ui", "auto", "show progress UI (auto|on|off)")
}

// chainSettings are the flag and config values square and batch share.
type chainSettings struct {
	every     uint64
	saveEvery uint64
	store     *checkpoint.Store
	counter   *meter.Counter
	chartPath string
	useTUI    bool
}

func readChainSettings(cmd *cobra.Command, cfg *config.File, steps uint64) (chainSettings, error) {
	var s chainSettings
	var fileChain config.Chain
	if cfg != nil {
		fileChain = cfg.Chain
	}

	var err error
	if s.every, err = countFlag(cmd, "every", fileChain.SampleEvery); err != nil {
		return s, err
	}
	if s.every == 0 {
		s.every = max(steps/100, 1)
	}
	if s.saveEvery, err = countFlag(cmd, "save-every", fileChain.SaveEvery); err != nil {
		return s, err
	}

	dir, err := cmd.Flags().GetString("checkpoint")
	if err != nil {
		return s, err
	}
	if dir == "" {
		dir = fileChain.Checkpoint
	}
	if dir != "" {
		if s.store, err = checkpoint.Open(dir); err != nil {
			return s, err
		}
	}

	if s.chartPath, err = cmd.Flags().GetString("chart"); err != nil {
		return s, err
	}
	useMeter, err := cmd.Flags().GetBool("meter")
	if err != nil {
		return s, err
	}
	if useMeter || s.chartPath != "" {
		s.counter = meter.NewCounter()
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return s, err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return s, err
	}
	s.useTUI = shouldUseTUI(mode, isQuiet(cmd))
	return s, nil
}

// squarer builds the Squarer template for s.
func (s chainSettings) squarer() chain.Squarer {
	sq := chain.Squarer{
		Every:     s.every,
		Store:     s.store,
		SaveEvery: s.saveEvery,
	}
	if s.counter != nil {
		sq.Hook = s.counter
	}
	return sq
}

func runSquare(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var params chain.Params
	var start form.Form
	err = timer.Time("setup", func() error {
		g, err := groupFromFlags(cmd, cfg)
		if err != nil {
			return err
		}
		d, err := g.Resolve()
		if err != nil {
			return err
		}
		if params, err = chain.Setup(d); err != nil {
			return err
		}
		start = params.Generator
		f, ok, err := g.Start()
		if err != nil {
			return fmt.Errorf("--form: %w", err)
		}
		if ok {
			start = f
		}
		return nil
	})
	if err != nil {
		return err
	}

	var fileSteps uint64
	if cfg != nil {
		fileSteps = cfg.Chain.Steps
	}
	steps, err := countFlag(cmd, "steps", fileSteps)
	if err != nil {
		return err
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	settings, err := readChainSettings(cmd, cfg, steps)
	if err != nil {
		return err
	}

	sq := settings.squarer()
	sq.Name = name
	sq.Params = params
	work := func(ctx context.Context, sink chain.ProgressSink) ([]chain.Result, error) {
		s := sq
		s.Sink = sink
		res, err := s.Run(ctx, start, steps)
		return []chain.Result{res}, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var results []chain.Result
	runErr := timer.Time("square", func() error {
		var err error
		if settings.useTUI {
			results, err = runWithUI(ctx, "quadform square", []string{name}, work)
		} else {
			results, err = work(ctx, nil)
		}
		return err
	})

	out := cmd.OutOrStdout()
	if len(results) == 1 && (runErr == nil || results[0].Steps > 0) {
		printResult(out, results[0], params, isQuiet(cmd))
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) && settings.store != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "interrupted; progress saved under %s\n", settings.store.Dir())
		}
		return runErr
	}
	return finishChains(cmd, timer, settings, "quadform square", results)
}

// finishChains prints the meter table and writes the chart, if asked for.
func finishChains(cmd *cobra.Command, timer *observ.Timer, s chainSettings, title string, results []chain.Result) error {
	var rep *meter.Report
	if s.counter != nil {
		snap := s.counter.Snapshot()
		rep = &snap
	}
	if useMeter, _ := cmd.Flags().GetBool("meter"); useMeter && rep != nil {
		if err := rep.Format(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	if s.chartPath == "" {
		return nil
	}
	return timer.Time("chart", func() error {
		f, err := os.Create(s.chartPath)
		if err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		if err := report.WriteChart(f, title, results, rep); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	})
}

var (
	labelColor = color.New(color.FgCyan)
	formColor  = color.New(color.Bold)
)

func printResult(out io.Writer, res chain.Result, params chain.Params, quiet bool) {
	if res.Name != "" {
		fmt.Fprintf(out, "%s ", labelColor.Sprint(res.Name+":"))
	}
	fmt.Fprintln(out, formColor.Sprint(res.Final.String()))
	if quiet {
		return
	}
	fmt.Fprintf(out, "%s %d", labelColor.Sprint("steps"), res.Steps)
	if res.Resumed > 0 {
		fmt.Fprintf(out, " (resumed at %d)", res.Resumed)
	}
	fmt.Fprintf(out, "  %s %d bits  %s %s  %s %s\n",
		labelColor.Sprint("D"), params.D.BitLen(),
		labelColor.Sprint("L"), params.L,
		labelColor.Sprint("elapsed"), res.Elapsed.Round(time.Microsecond))
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !timings {
		return
	}
	if err := timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "timings: %v\n", err)
	}
}
