package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/japaniel/akshara/pkg/pipeline"
	"github.com/japaniel/akshara/pkg/render"
	"github.com/japaniel/akshara/pkg/source"
)

func (a *app) newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render the analysis of a file every time it changes",
		Long: `watch analyzes a text file and writes the markup to --output. Every save
of the file schedules a new analysis; bursts of saves inside the debounce
window are collapsed into one run with the latest content.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runWatch,
	}
	cmd.Flags().StringVarP(&a.flags.WatchOutput, "output", "o", "", "markup file to keep up to date (required)")
	cmd.Flags().Duration("debounce", pipeline.DefaultWindow, "quiet period before a change is analyzed")
	cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	a.v.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))
	input := args[0]

	ag, err := a.newAggregator()
	if err != nil {
		return err
	}

	// Start from the placeholder so a stale render is never captured as one.
	placeholder := a.v.GetString("placeholder")
	surface := render.NewFileSurface(a.flags.WatchOutput, placeholder)
	if err := surface.Replace(placeholder); err != nil {
		return err
	}
	presenter, err := render.NewPresenter(surface)
	if err != nil {
		return err
	}

	p := pipeline.New(ag, presenter,
		pipeline.WithLogger(a.logger),
		pipeline.WithWindow(a.v.GetDuration("debounce")),
	)
	defer p.Stop()

	initial, err := os.ReadFile(input)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", input, err)
	}
	if err := p.RunContext(cmd.Context(), string(initial)); err != nil {
		a.logger.Error("initial analysis failed", "error", err)
	}

	a.logger.Info("watching", "file", input, "output", a.flags.WatchOutput, "debounce", a.v.GetDuration("debounce"))
	err = source.Watch(cmd.Context(), input, a.logger, p.Schedule)
	// Do not lose the last edit of a burst that was still waiting.
	p.Flush()
	return err
}
