// clothterm runs the cloth simulation in a terminal, drawn top-down as a
// height map.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/config"
	"github.com/Faultbox/midgard-cloth/internal/engine/lighting"
	"github.com/Faultbox/midgard-cloth/internal/engine/terminal"
	"github.com/Faultbox/midgard-cloth/internal/logger"
	"github.com/Faultbox/midgard-cloth/internal/sim"
)

type app struct {
	screen  tcell.Screen
	sink    *terminal.Sink
	mesh    *cloth.Mesh
	stepper *sim.Stepper
	tick    time.Duration
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// tcell owns the terminal, so log to a file only.
	logFile := cfg.Logging.LogFile
	if logFile == "" {
		logFile = filepath.Join(config.ConfigDir(), "clothterm.log")
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(logFile), false); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		fmt.Fprintf(os.Stderr, "clothterm: %v\n", err)
		os.Exit(1)
	}
	a.run()
	a.cleanup()

	logger.Info("terminal viewer closed normally")
}

func newApp(cfg *config.Config) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.HideCursor()

	params := cfg.Cloth.Params()
	sink := terminal.New(screen)
	if params.Attr == cloth.AttrNormal {
		sink.SetLight(lighting.Sun{
			Azimuth:   cfg.Lighting.Azimuth,
			Elevation: cfg.Lighting.Elevation,
			Ambient:   cfg.Lighting.Ambient,
		})
	}
	mesh, err := cloth.New(params, sink)
	if err != nil {
		screen.Fini()
		return nil, fmt.Errorf("building cloth: %w", err)
	}

	return &app{
		screen:  screen,
		sink:    sink,
		mesh:    mesh,
		stepper: sim.NewStepper(mesh, cfg.Cloth.Held, cfg.Cloth.Timestep),
		tick:    sim.TickInterval(cfg.Cloth.Timestep),
	}, nil
}

func (a *app) run() {
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalised.
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case <-ticker.C:
			a.stepper.Step()
			a.draw()
		}
	}
}

// handleInput returns false when the viewer should exit.
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			a.stepper.TogglePause()
		case 'n':
			a.stepper.StepOnce()
		case 'r':
			a.stepper.Reset()
		}
		a.draw()

	case *tcell.EventResize:
		a.screen.Sync()
		a.draw()
	}
	return true
}

func (a *app) draw() {
	state := "running"
	if a.stepper.Paused() {
		state = "paused"
	}
	a.sink.SetStatus(fmt.Sprintf(" %s t=%.2fs step=%d ke=%.1f | space pause  n step  r reset  q quit",
		state, a.stepper.SimTime(), a.stepper.Steps(), a.mesh.KineticEnergy()))
	a.mesh.Render()
}

func (a *app) cleanup() {
	a.mesh.Destroy()
	a.screen.Fini()
}
