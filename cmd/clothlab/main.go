// Package main is the entry point for the cloth lab, an imgui panel for
// editing cloth parameters next to a live view.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/config"
	"github.com/Faultbox/midgard-cloth/internal/lab"
	"github.com/Faultbox/midgard-cloth/internal/logger"
)

func main() {
	runtime.LockOSThread()

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

	logger.Info("=== Midgard Cloth Lab ===")

	l, err := lab.New(cfg)
	if err != nil {
		logger.Error("failed to create lab", zap.Error(err))
		os.Exit(1)
	}
	defer l.Close()

	l.Run()
	logger.Info("lab closed normally")
}
