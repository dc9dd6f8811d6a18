// ABOUTME: Entry point for sort-visualizer
// ABOUTME: Registers the cobra commands and routes to the TUI or the headless modes

// Package main provides the entry point for sort-visualizer, a terminal sorting-algorithm visualizer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sort-visualizer/config"
	"sort-visualizer/step"
	"sort-visualizer/tui"
	"sort-visualizer/visual"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sort-visualizer",
		Short:         "animate sorting algorithms with steps from a step service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUI,
	}

	bindGlobalFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "generate an array, sort it, and play the steps without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().Bool("no-plot", false, "skip the final array plot")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "fetch steps for every algorithm on the same array and tabulate them",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}
	compareCmd.Flags().Int("workers", 0, "parallel requests (default: one per algorithm)")

	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "dump the decoded steps for one array",
		Args:  cobra.NoArgs,
		RunE:  runSteps,
	}
	stepsCmd.Flags().StringP("format", "f", "yaml", "output format: yaml or json")
	stepsCmd.Flags().String("values", "", "comma-separated array to sort instead of a random one")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "write the default config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, compareCmd, stepsCmd, configCmd)

	return rootCmd
}

// runTUI starts the interactive visualizer
func runTUI(cmd *cobra.Command, _ []string) error {
	configPath, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// The first WindowSizeMsg replaces this surface
	s, err := newSession(cfg, visual.Surface{MaxValue: cfg.Array.MaxValue}, logger)
	if err != nil {
		return err
	}

	if err := s.ctrl.Generate(); err != nil {
		return err
	}

	return tui.Run(tui.Dependencies{
		Controller: s.ctrl,
		Clock:      s.clock,
		Config:     cfg,
		ConfigPath: configPath,
		NewProducer: func(service config.ServiceConfig) step.Producer {
			return newProducer(service, logger.Named("stepclient"))
		},
		SaveConfig: config.SaveConfig,
		LoadConfig: config.Load,
		Logger:     logger,
	})
}

// runConfigInit writes the default config file
func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath()

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)

	return nil
}
