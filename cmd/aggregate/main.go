package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pastas-console/analytics"
	"pastas-console/cmd/internal/eventbus"
	"pastas-console/cmd/internal/logger"
	"pastas-console/config"
	"pastas-console/db"
	"pastas-console/repositories"
)

const defaultTimezone = "America/Argentina/Buenos_Aires"

// aggregate 는 매일 자정 대시보드 원천 데이터(로트, 이상 사례)를 다시 생성해 MongoDB 에 저장한다.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)
	logger.SetServiceName("aggregate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.Mongo); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	bus, err := eventbus.Open(cfg.Kafka.Brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	seed := cfg.Dashboard.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	source := analytics.NewStoreSource(repositories.NewProductionRepository(db.Database()), analytics.NewGenerator(seed, time.Now))
	job := NewJob(source, bus, eventbus.NewTopic(cfg.Kafka.Topic))

	// 첫 실행은 즉시 1회 수행
	if err := job.RunOnce(ctx); err != nil {
		logger.Log.Errorf("aggregate runOnce error: %v", err)
	}

	tz := os.Getenv("AGGREGATE_TZ")
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}
	for {
		next := nextMidnight(time.Now(), loc)
		sleepDur := time.Until(next)
		if sleepDur <= 0 {
			sleepDur = time.Minute // fallback
		}
		logger.Log.Infof("aggregate sleeping until %s (%s)", next.Format(time.RFC3339), loc)
		select {
		case <-ctx.Done():
			logger.Log.Info("aggregate stopped")
			return
		case <-time.After(sleepDur):
		}
		if err := job.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Errorf("aggregate runOnce error: %v", err)
		}
	}
}
