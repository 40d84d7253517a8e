package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/pkg/profile"
	"github.com/plus3/sigecs/ecs"
	"github.com/plus3/sigecs/internal/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for. Overrides the config.")
	entityCount := flag.Int("entities", -1, "The initial number of entities to create. Overrides the config.")
	profileMode := flag.String("profile", "", "Write a profile: cpu, mem, allocs, block, mutex or trace.")
	format := flag.String("format", "", "Report format: text or json. Overrides the config.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err == nil {
		if *duration > 0 {
			cfg.Stress.Duration.Duration = *duration
		}
		if *entityCount >= 0 {
			cfg.Stress.Entities = *entityCount
		}
		if *profileMode != "" {
			cfg.Profile.Mode = *profileMode
		}
		if *format != "" {
			cfg.Report.Format = *format
		}
		err = cfg.Validate()
	}
	if err != nil {
		logger := newLogger(os.Stderr, config.Defaults().Logging)
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(os.Stderr, cfg.Logging).Level(cfg.LogLevel())
	logger.Info().Msg("Starting ECS stress test...")

	if p := startProfile(cfg.Profile); p != nil {
		logger.Info().Str("mode", cfg.Profile.Mode).Str("path", cfg.Profile.Path).Msg("profiling enabled")
		defer p.Stop()
	}

	var opts []ecs.WorldOption
	if cfg.Metrics.StatsdAddress != "" {
		client, err := statsd.New(cfg.Metrics.StatsdAddress,
			statsd.WithNamespace(cfg.Metrics.Namespace),
			statsd.WithTags(cfg.Metrics.Tags),
		)
		if err != nil {
			logger.Fatal().Err(err).Str("address", cfg.Metrics.StatsdAddress).Msg("failed to create statsd client")
		}
		defer client.Close()
		opts = append(opts, ecs.WithStatsd(client))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := runStress(ctx, cfg, logger, opts...)
	report.GCPauseMetrics = *gcPauseMetrics

	if cfg.Report.Format == "text" {
		fmt.Println("\n\n--- Stress Test Report ---")
	}
	if err := report.Write(os.Stdout, cfg.Report.Format); err != nil {
		logger.Error().Err(err).Msg("failed to generate report")
		return
	}
	if cfg.Report.Format == "text" {
		fmt.Println("--- End of Report ---")
	}

	logger.Info().Msg("Stress test complete.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, eris.Wrap(err, "load stress config")
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig) zerolog.Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// startProfile starts pprof collection for the configured mode, or returns nil
// when profiling is off.
func startProfile(cfg config.ProfileConfig) interface{ Stop() } {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "allocs":
		mode = profile.MemProfileAllocs
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	return profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook, profile.Quiet)
}
