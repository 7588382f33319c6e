package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"apidiff/internal/driver"
	"apidiff/internal/pipeline"
	"apidiff/internal/ui"
)

type diffOutcome struct {
	result *driver.Result
	err    error
}

// runDiffWithUI runs driver.Diff in the background and shows its progress.
// Quitting the view cancels the run.
func runDiffWithUI(ctx context.Context, title, oldRoot, newRoot string, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan diffOutcome, 1)

	go func() {
		o := opts
		o.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Diff(ctx, oldRoot, newRoot, o)
		close(events)
		outcomeCh <- diffOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		cancel()
	}
	// дренируем канал, если модель вышла раньше
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
