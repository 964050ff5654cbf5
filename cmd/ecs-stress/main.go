// Command ecs-stress exercises the storage core under sustained batch churn
// and prints a performance report.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/ahryshan/bizarre-engine-new/ecs"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file.")
	durationFlag := flag.Duration("duration", 0, "Total run duration; overrides the config file.")
	entitiesFlag := flag.Int("entities", 0, "Initial number of mover entities; overrides the config file.")
	profileFlag := flag.String("profile", "", "Profiling mode: cpu or mem; overrides the config file.")
	verbose := flag.Bool("verbose", false, "Enable debug logging.")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *durationFlag > 0 {
		cfg.Duration.Duration = *durationFlag
	}
	if *entitiesFlag > 0 {
		cfg.Entities = *entitiesFlag
	}
	if *profileFlag != "" {
		cfg.Profile = *profileFlag
	}
	if *verbose {
		cfg.Verbose = true
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("stress run failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	var zapCfg zap.Config
	if verbose {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zapCfg.Build()
}

func run(cfg Config, logger *zap.Logger) error {
	runID := uuid.New()
	logger.Info("starting ECS stress test",
		zap.Stringer("run_id", runID),
		zap.Duration("duration", cfg.Duration.Duration),
		zap.Int("entities", cfg.Entities),
		zap.Int("churn", cfg.Churn),
	)

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	// Startup gate: reject structurally invalid batch shapes before any
	// entity exists.
	if err := validateShapes(); err != nil {
		return err
	}

	world := ecs.NewWorld()
	ecs.SetResource(world.Resources(), WorldClock{})

	scheduler := ecs.NewScheduler(world)
	movement := &MovementSystem{}
	decay := NewDecaySystem(time.Now().UnixNano())
	scheduler.Register(movement)
	scheduler.Register(decay)

	rng := rand.New(rand.NewSource(int64(runID.ID())))
	logger.Info("populating world", zap.Stringer("world_id", world.ID()))
	for i := 0; i < cfg.Entities; i++ {
		ecs.Spawn(world, randomMover(rng))
	}
	for i := 0; i < cfg.Churn; i++ {
		ecs.Spawn(world, randomEphemeral(rng))
	}
	logger.Info("population complete", zap.Int("live_entities", world.EntityCount()))

	report := &Report{
		RunID:    runID,
		WorldID:  world.ID(),
		Duration: cfg.Duration.Duration,
		Entities: cfg.Entities,
		Churn:    cfg.Churn,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration.Duration)
	defer cancel()

	ticker := time.NewTicker(cfg.Interval.Duration)
	defer ticker.Stop()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		case <-ticker.C:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.FinalEntities = world.EntityCount()
	report.MovedComponents = movement.Processed
	report.DespawnedEntities = decay.Despawned
	report.ShapeCounts = world.ShapeCounts()
	report.Scheduler = scheduler.GetStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("updates", report.TotalUpdates),
		zap.Int("live_entities", report.FinalEntities),
		zap.Int64("despawned", decay.Despawned),
	)

	return report.Generate(os.Stdout)
}
