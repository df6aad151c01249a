package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"pastas-console/cmd/internal/audit"
	"pastas-console/cmd/internal/eventbus"
	"pastas-console/cmd/internal/logger"
	"pastas-console/config"
	"pastas-console/db"
	"pastas-console/repositories"
)

// auditor 는 콘솔 이벤트 토픽을 구독해 감사 로그를 MongoDB 에 기록한다.
// 재시도 토픽 재주입도 같은 프로세스에서 수행한다.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)
	logger.SetServiceName("auditor")

	if cfg.Kafka.Brokers == "" {
		logger.Log.Error("KAFKA_BOOTSTRAP_SERVERS 가 비어 있습니다. 브로커 없이 실행할 때는 api 가 감사 로그를 직접 기록합니다.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.Mongo); err != nil {
		logger.Log.Errorf("MongoDB 초기화 실패: %v", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	topic := eventbus.NewTopic(cfg.Kafka.Topic)
	ensureCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := eventbus.EnsureTopics(ensureCtx, cfg.Kafka.Brokers, topic, 3); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics for %s: %v", topic.Base(), err)
	}
	cancel()

	bus, err := eventbus.Open(cfg.Kafka.Brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	rec := audit.NewRecorder(repositories.NewAuditEventRepository(db.Database()))
	groupID := cfg.Kafka.GroupID

	logger.InfoWithFields("auditor started", logger.Fields{"topic": topic.Base(), "group_id": groupID})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := bus.Subscribe(ctx, groupID, topic, rec.Handle); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Errorf("eventbus subscribe error: %v", err)
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		if err := bus.StartRetryReinjector(ctx, groupID+"-retry", topic); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Errorf("eventbus retry reinjector error for %s: %v", topic.Base(), err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, shutting down auditor...")
	wg.Wait()
	logger.Log.Info("auditor stopped")
}
