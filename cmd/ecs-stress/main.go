package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/sparsecs/ecs"
	"github.com/plus3/sparsecs/ecs/ecslog"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	duration       time.Duration
	entities       int
	seed           int64
	gcPauseMetrics bool
	memProfile     bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "ecs-stress",
		Short: "Churn a World with spawning, moving and dying entities and report frame times",
		Long: "ecs-stress populates a World, runs its systems for a fixed duration and prints a report.\n" +
			"ECS_MAX_ENTITIES and ECS_STRICT_REGISTRATION are read from the environment.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().DurationVar(&opts.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	cmd.Flags().IntVar(&opts.entities, "entities", 4000, "The number of entities kept alive.")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "Random seed for the workload.")
	cmd.Flags().BoolVar(&opts.gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	cmd.Flags().BoolVar(&opts.memProfile, "mem-profile", false, "Write an allocation profile to the working directory.")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log registration events.")
	return cmd
}

func run(ctx context.Context, opts options) error {
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := ecs.LoadConfig()
	if err != nil {
		return err
	}
	if int(cfg.MaxEntities) < opts.entities {
		cfg.MaxEntities = uint32(opts.entities)
	}

	if opts.memProfile {
		p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
		defer p.Stop()
	}

	logger.Info().Int("entities", opts.entities).Uint32("max_entities", cfg.MaxEntities).Msg("starting ECS stress test")

	w := ecs.NewWorld(ecs.WithConfig(cfg), ecs.WithLogger(logger))
	workload, err := NewWorkload(w, opts.entities, opts.seed)
	if err != nil {
		return eris.Wrap(err, "building workload")
	}
	ecslog.World(&logger, w, zerolog.DebugLevel)

	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Components:     w.Components().Len(),
		Systems:        len(w.Systems()),
		GCPauseMetrics: opts.gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", opts.duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime
	var flushErrors int
Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := workload.Scheduler.Once(deltaTime.Seconds()); err != nil {
				flushErrors++
				logger.Debug().Err(err).Msg("frame commands failed")
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.FlushErrors = flushErrors
	report.World = w.CollectStats()
	report.Scheduler = workload.Scheduler.GetStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	ecslog.Stats(&logger, report.World, zerolog.InfoLevel)
	logger.Info().Msg("simulation finished")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "generating report")
	}
	fmt.Println("--- End of Report ---")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
