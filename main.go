package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/config"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/internal/bootstrap"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger.Init(logger.Config{
		Level:   logger.LevelInfo,
		Service: "mailflow",
	})

	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	mode := flag.String("mode", "all", "Run mode: api, worker, all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	if cfg.IsDevelopment() {
		logger.Init(logger.Config{Level: logger.LevelDebug, Service: "mailflow"})
	}

	deps, cleanup, err := bootstrap.NewDependencies(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies: %v", err)
	}
	defer cleanup()

	var scheduler interface {
		Start()
		Stop()
	}
	if (*mode == "worker" || *mode == "all") && cfg.SchedulerEnabled {
		scheduler = bootstrap.NewScheduler(cfg, deps)
		scheduler.Start()
		defer scheduler.Stop()
	}

	if *mode == "worker" {
		waitForSignal()
		return
	}

	app := bootstrap.NewAPI(cfg, deps)

	go func() {
		waitForSignal()
		logger.Info("Shutting down API server (timeout: %v)...", shutdownTimeout)

		done := make(chan error, 1)
		go func() {
			done <- app.Shutdown()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Error("Error shutting down: %v", err)
			} else {
				logger.Info("API server shut down gracefully")
			}
		case <-time.After(shutdownTimeout):
			logger.Warn("API shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("Starting API server on %s", addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
