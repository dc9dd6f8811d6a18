// ABOUTME: Headless run mode: one sort played in real time on the command line
// ABOUTME: Shows a progress line while playing and plots the final bar heights

package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"sort-visualizer/playback"
	"sort-visualizer/visual"
)

const (
	plotHeight = 10
	plotWidth  = 80
)

// runHeadless executes the run command
func runHeadless(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()

	surface := visual.Surface{
		Width:    plotWidth,
		Height:   plotHeight,
		Margin:   cfg.Display.Margin,
		MaxValue: cfg.Array.MaxValue,
	}

	s, err := newSession(cfg, surface, logger)
	if err != nil {
		return err
	}

	if err := s.ctrl.Generate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	algo := s.ctrl.Algorithm()
	fmt.Fprintf(out, "%s (time %s, space %s) on %d bars via %s\n",
		algo.Name, algo.Time, algo.Space, len(s.ctrl.Values()), cfg.Service.Endpoint)

	producer := newProducer(cfg.Service, logger.Named("stepclient"))

	if err := s.ctrl.Sort(ctx, producer); err != nil {
		fmt.Fprintln(out, s.ctrl.Status().Text)
		return fmt.Errorf("sort failed: %w", err)
	}

	fmt.Fprintln(out, s.ctrl.Status().Text)

	tracker := newProgressTracker(out, isTTY(os.Stdout))

	err = playback.RunRealtime(ctx, s.clock, playback.DefaultFrame, func() {
		tracker.update(s.ctrl.Progress())
	})
	tracker.finish(s.ctrl.Progress())

	if err != nil {
		s.ctrl.Cancel()

		if errors.Is(err, ctx.Err()) {
			fmt.Fprintln(out, s.ctrl.Status().Text)
			return nil
		}

		return err
	}

	fmt.Fprintln(out, s.ctrl.Status().Text)
	fmt.Fprintf(out, "Time taken: %s\n", s.ctrl.TimeTaken())

	final := s.registry.Values()
	if slices.IsSorted(final) {
		fmt.Fprintln(out, "Final array is sorted")
	} else {
		fmt.Fprintln(out, "Warning: final array is not sorted; the step service sent an incomplete sequence")
	}

	noPlot, _ := cmd.Flags().GetBool("no-plot")
	if !noPlot && len(final) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, plotValues(final, algo.Name))
	}

	return nil
}

// plotValues draws the bar heights as a line chart
func plotValues(values []float64, caption string) string {
	return asciigraph.Plot(values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(min(plotWidth, max(len(values), 2))),
		asciigraph.Caption(caption),
	)
}
