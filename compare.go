// ABOUTME: Compare mode: fetch steps for every algorithm on one array in parallel
// ABOUTME: Tabulates step counts, kinds, service durations, and playback lengths

package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sort-visualizer/app"
	"sort-visualizer/playback"
	"sort-visualizer/pool"
	"sort-visualizer/step"
	"sort-visualizer/visual"
)

// compareResult is one algorithm's answer from the step service
type compareResult struct {
	Algorithm app.Algorithm
	Steps     int
	Counts    map[step.Kind]int
	Skipped   int
	Reported  float64       // service-reported run time in ms
	Playback  time.Duration // how long the animation would take
	Err       error
}

// compareAlgorithms fetches steps for values with each algorithm, running up to workers requests at once
func compareAlgorithms(ctx context.Context, producer step.Producer, values []float64, algos []app.Algorithm, delay time.Duration, workers int) []compareResult {
	if workers <= 0 {
		workers = len(algos)
	}

	p := pool.NewWorkerPool(workers, len(algos))
	defer p.Close()

	results := make([]compareResult, len(algos))

	for i, algo := range algos {
		p.Submit(func() {
			res := compareResult{Algorithm: algo}

			resp, err := producer.Fetch(ctx, step.Request{Array: values, Algorithm: algo.ID})
			if err != nil {
				res.Err = err
			} else {
				res.Steps = len(resp.Steps)
				res.Counts = countKinds(resp.Steps)
				res.Skipped = resp.Skipped
				res.Reported = resp.SimulatedDuration
				res.Playback = playback.CompletionOffset(len(resp.Steps), delay)
			}

			// Each task owns its slot
			results[i] = res
		})
	}

	p.Wait()

	return results
}

// writeCompareTable prints the results as an aligned table
func writeCompareTable(w io.Writer, results []compareResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "Algorithm\tSteps\tKinds\tReported\tPlayback\tComplexity"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(tw, "---------\t-----\t-----\t--------\t--------\t----------"); err != nil {
		return err
	}

	for _, r := range results {
		complexity := fmt.Sprintf("%s / %s", r.Algorithm.Time, r.Algorithm.Space)

		if r.Err != nil {
			if _, err := fmt.Fprintf(tw, "%s\t-\terror: %v\t-\t-\t%s\n", r.Algorithm.Name, r.Err, complexity); err != nil {
				return err
			}

			continue
		}

		kinds := formatKindCounts(r.Counts)
		if r.Skipped > 0 {
			kinds += fmt.Sprintf(" (%d skipped)", r.Skipped)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f ms\t%s\t%s\n",
			r.Algorithm.Name, r.Steps, kinds, r.Reported, formatPlayback(r.Playback), complexity); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// runCompare executes the compare command
func runCompare(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, err := newSession(cfg, visual.Surface{MaxValue: cfg.Array.MaxValue}, logger)
	if err != nil {
		return err
	}

	if err := s.ctrl.Generate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	workers, _ := cmd.Flags().GetInt("workers")
	values := s.ctrl.Values()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Comparing %d algorithms on %d bars via %s\n\n", len(app.Algorithms()), len(values), cfg.Service.Endpoint)

	producer := newProducer(cfg.Service, logger.Named("stepclient"))
	results := compareAlgorithms(ctx, producer, values, app.Algorithms(), cfg.Playback.Delay(), workers)

	return writeCompareTable(out, results)
}
