// ABOUTME: Steps mode: print the decoded step sequence for one array
// ABOUTME: Writes the wire form as YAML or JSON for inspecting a step service

package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sort-visualizer/step"
	"sort-visualizer/visual"
)

// stepDump is the document written by the steps command
type stepDump struct {
	Algorithm         string      `json:"algorithm" yaml:"algorithm"`
	Array             []float64   `json:"array" yaml:"array,flow"`
	SimulatedDuration float64     `json:"simulatedDuration" yaml:"simulatedDuration"`
	Skipped           int         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Steps             []step.Wire `json:"steps" yaml:"steps"`
}

// writeSteps encodes dump in the given format
func writeSteps(w io.Writer, format string, dump stepDump) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(dump); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return enc.Close()

	case "json":
		data, err := sonic.ConfigStd.MarshalIndent(dump, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}

		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}

		return nil

	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

// runSteps executes the steps command
func runSteps(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	format, _ := cmd.Flags().GetString("format")
	raw, _ := cmd.Flags().GetString("values")

	// Reject a bad format before talking to the service
	if format != "yaml" && format != "yml" && format != "json" {
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}

	s, err := newSession(cfg, visual.Surface{MaxValue: cfg.Array.MaxValue}, logger)
	if err != nil {
		return err
	}

	if raw != "" {
		values, err := parseValues(raw)
		if err != nil {
			return err
		}

		err = s.ctrl.LoadArray(values)
		if err != nil {
			return err
		}
	} else if err := s.ctrl.Generate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	producer := newProducer(cfg.Service, logger.Named("stepclient"))

	ticket, err := s.ctrl.BeginSort()
	if err != nil {
		return fmt.Errorf("%s: %w", s.ctrl.Status().Text, err)
	}

	resp, err := producer.Fetch(ctx, ticket.Request)
	if err != nil {
		return fmt.Errorf("step request failed: %w", err)
	}

	return writeSteps(cmd.OutOrStdout(), format, stepDump{
		Algorithm:         ticket.Request.Algorithm,
		Array:             ticket.Request.Array,
		SimulatedDuration: resp.SimulatedDuration,
		Skipped:           resp.Skipped,
		Steps:             step.ToWireAll(resp.Steps),
	})
}
