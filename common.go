// ABOUTME: Shared setup used by the TUI and the headless commands
// ABOUTME: Loads config, builds loggers, and wires the controller to its playback clock

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sort-visualizer/app"
	"sort-visualizer/config"
	"sort-visualizer/logging"
	"sort-visualizer/playback"
	"sort-visualizer/step"
	"sort-visualizer/stepclient"
	"sort-visualizer/visual"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	configPath string
	algorithm  string
	endpoint   string
	size       int
	delayMS    int
	seed       uint64
	debug      bool
}

var flags globalFlags

// bindGlobalFlags registers the persistent flags on the root command
func bindGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file path (default: ./sort-visualizer.toml or ~/.config/sort-visualizer/config.toml)")
	pf.StringVarP(&flags.algorithm, "algorithm", "a", "", "sorting algorithm (BubbleSort, MergeSort, QuickSort)")
	pf.StringVar(&flags.endpoint, "endpoint", "", "step service URL")
	pf.IntVarP(&flags.size, "size", "n", 0, "number of bars")
	pf.IntVar(&flags.delayMS, "delay", 0, "playback delay per step in milliseconds")
	pf.Uint64Var(&flags.seed, "seed", 0, "random seed (0 picks a time-based seed)")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
}

// resolveConfigPath returns the --config path or the default location
func resolveConfigPath() string {
	if flags.configPath != "" {
		return flags.configPath
	}

	return config.GetConfigPath()
}

// loadConfig loads the config file, then applies flags the user set explicitly
func loadConfig(cmd *cobra.Command) (string, config.Config, error) {
	path := resolveConfigPath()

	cfg, err := config.Load(path)
	if err != nil {
		return path, cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	changed := cmd.Flags().Changed

	if changed("algorithm") {
		cfg.Playback.Algorithm = flags.algorithm
	}

	if changed("endpoint") {
		cfg.Service.Endpoint = flags.endpoint
	}

	if changed("size") {
		cfg.Array.Size = flags.size
	}

	if changed("delay") {
		cfg.Playback.DelayMS = flags.delayMS
	}

	if changed("seed") {
		cfg.Playback.Seed = flags.seed
	}

	if flags.debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return path, cfg, err
	}

	return path, cfg, nil
}

// newLogger builds the logger for a command.
// The TUI owns the terminal, so it only logs to the debug file and only with --debug.
func newLogger(cfg config.LogConfig, tuiMode bool) (*zap.SugaredLogger, error) {
	if tuiMode {
		if !flags.debug {
			return logging.Nop(), nil
		}

		logger, err := logging.NewFile("debug", cfg.File, cfg.Development)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize debug log: %w", err)
		}

		if isTTY(os.Stdout) {
			fmt.Printf("Debug logging enabled: %s\n", cfg.File)
		}

		return logger.Sugar(), nil
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Level,
		Development: cfg.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

// newRNG seeds the array generator; seed 0 picks a time-based seed
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newProducer builds the HTTP step client for a service config
func newProducer(cfg config.ServiceConfig, logger *zap.SugaredLogger) step.Producer {
	return stepclient.New(stepclient.OptionsFromConfig(cfg, logger))
}

// session is one controller with the clock and registry it plays on
type session struct {
	ctrl     *app.Controller
	clock    *playback.VirtualClock
	registry *visual.Registry
}

// newSession wires a controller for cfg on a surface
func newSession(cfg config.Config, surface visual.Surface, logger *zap.SugaredLogger) (*session, error) {
	clock := playback.NewVirtualClock()
	registry := visual.NewRegistry(surface)
	scheduler := playback.NewScheduler(clock, registry, logger.Named("playback"))

	ctrl, err := app.New(registry, scheduler, newRNG(cfg.Playback.Seed), app.Options{
		Size:      cfg.Array.Size,
		MinValue:  cfg.Array.MinValue,
		MaxValue:  cfg.Array.MaxValue,
		Delay:     cfg.Playback.Delay(),
		Algorithm: cfg.Playback.Algorithm,
	}, logger.Named("app"))
	if err != nil {
		return nil, err
	}

	return &session{ctrl: ctrl, clock: clock, registry: registry}, nil
}

// signalContext returns a context cancelled by Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}
