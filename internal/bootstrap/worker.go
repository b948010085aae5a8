package bootstrap

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/adapter/in/worker"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/config"
)

// NewScheduler builds the background sweep scheduler from shared deps.
func NewScheduler(cfg *config.Config, deps *Dependencies) *worker.Scheduler {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "sweep").Logger()

	schedCfg := worker.DefaultSchedulerConfig()
	if cfg.SweepInterval > 0 {
		schedCfg.Interval = cfg.SweepInterval
	}
	if cfg.SweepBatchSize > 0 {
		schedCfg.BatchSize = cfg.SweepBatchSize
	}
	if cfg.SweepConcurrency > 0 {
		schedCfg.Concurrency = cfg.SweepConcurrency
	}

	return worker.NewScheduler(
		deps.ClassificationService,
		deps.EmailRepo,
		deps.ReminderService,
		schedCfg,
		zlog,
	)
}
