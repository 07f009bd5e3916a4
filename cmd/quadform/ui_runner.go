package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quadform/internal/chain"
	"quadform/internal/ui"
)

type chainOutcome struct {
	results []chain.Result
	err     error
}

// runWithUI runs work while a progress model follows the events it emits.
// Leaving the UI early cancels work.
func runWithUI(ctx context.Context, title string, names []string, work func(context.Context, chain.ProgressSink) ([]chain.Result, error)) ([]chain.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan chain.Event, 256)
	outcomeCh := make(chan chainOutcome, 1)

	go func() {
		res, err := work(ctx, chain.ChannelSink{Ch: events})
		outcomeCh <- chainOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewChainModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the model may have quit before the channel closed
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
