// clothbench runs the cloth simulation without a display and reports timing
// and mesh statistics.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/config"
	"github.com/Faultbox/midgard-cloth/internal/logger"
	"github.com/Faultbox/midgard-cloth/internal/sim"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("bench failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	params := cfg.Cloth.Params()

	built := time.Now()
	mesh, err := cloth.New(params, cloth.NopSink{})
	if err != nil {
		return fmt.Errorf("building cloth: %w", err)
	}
	defer mesh.Destroy()

	logger.Info("cloth built",
		zap.Int("size", params.Size),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("springs", len(mesh.Springs)),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Duration("took", time.Since(built)),
	)

	stepper := sim.NewStepper(mesh, cfg.Cloth.Held, cfg.Cloth.Timestep)
	steps := cfg.Bench.Steps
	every := cfg.Bench.ReportEvery

	start := time.Now()
	for i := 1; i <= steps; i++ {
		stepper.Step()
		if every > 0 && i%every == 0 {
			b := mesh.Bounds()
			logger.Info("progress",
				zap.Int("step", i),
				zap.Float32("sim_time", stepper.SimTime()),
				zap.Float32("kinetic_energy", mesh.KineticEnergy()),
				zap.Float32("lowest_y", b.Min.Y()),
			)
		}
	}
	elapsed := time.Since(start)

	b := mesh.Bounds()
	center := b.Center()
	perStep := time.Duration(0)
	if steps > 0 {
		perStep = elapsed / time.Duration(steps)
	}
	logger.Info("bench finished",
		zap.Int("steps", steps),
		zap.Duration("elapsed", elapsed),
		zap.Duration("per_step", perStep),
		zap.Float32("kinetic_energy", mesh.KineticEnergy()),
		zap.Float32s("bounds_min", b.Min[:]),
		zap.Float32s("bounds_max", b.Max[:]),
		zap.Float32s("center", center[:]),
	)

	fmt.Printf("%d steps of a %dx%d cloth in %v (%v per step)\n",
		steps, params.Size, params.Size, elapsed.Round(time.Millisecond), perStep)
	return nil
}
