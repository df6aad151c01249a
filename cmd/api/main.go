package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pastas-console/analytics"
	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/cmd/api/httpclient"
	"pastas-console/cmd/api/metrics"
	"pastas-console/cmd/api/router"
	"pastas-console/cmd/api/services"
	"pastas-console/cmd/internal/audit"
	"pastas-console/cmd/internal/eventbus"
	"pastas-console/cmd/internal/logger"
	"pastas-console/config"
	"pastas-console/db"
	"pastas-console/repositories"
)

// @title           Pastas Console API
// @version         1.0
// @description     Gateway for the employee roster, access log and production dashboard
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromEnv("LOG_LEVEL", cfg.Logging.Level)
	logger.SetServiceName("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := backendclient.New(httpclient.NewBaseClientWithClient(httpclient.New(httpclient.Config{
		Timeout: cfg.Backend.Timeout,
		Observe: metrics.ObserveUpstream,
	}), cfg.Backend.BaseURL))

	bus, err := eventbus.Open(cfg.Kafka.Brokers)
	if err != nil {
		logger.Log.Errorf("eventbus 초기화 실패: %v", err)
		os.Exit(1)
	}
	defer bus.Close()
	topic := eventbus.NewTopic(cfg.Kafka.Topic)
	emitter := services.NewEmitter(bus, topic)

	gen := analytics.NewGenerator(seedOrNow(cfg.Dashboard.Seed), time.Now)
	var source analytics.Source = analytics.NewMockSource(gen)
	var auditStore services.AuditStore

	switch err := db.Init(ctx, cfg.Mongo); {
	case errors.Is(err, db.ErrNotConfigured):
		logger.Log.Info("MONGO_URI 미설정: 대시보드는 메모리 목업 데이터, 감사 로그 비활성화")
	case err != nil:
		logger.Log.Errorf("MongoDB 연결 실패: %v", err)
		os.Exit(1)
	default:
		defer db.Close(context.Background())
		source = analytics.NewStoreSource(repositories.NewProductionRepository(db.Database()), gen)
		auditRepo := repositories.NewAuditEventRepository(db.Database())
		auditStore = auditRepo

		// 브로커 없이 실행할 때는 감사 기록을 게이트웨이 안에서 처리한다.
		if cfg.Kafka.Brokers == "" {
			rec := audit.NewRecorder(auditRepo)
			go func() {
				if err := bus.Subscribe(ctx, cfg.Kafka.GroupID, topic, rec.Handle); err != nil && !errors.Is(err, context.Canceled) {
					logger.Log.Errorf("in-process auditor 종료: %v", err)
				}
			}()
		}
	}

	r := router.New(router.Deps{
		Health:         backend,
		Empleados:      services.NewEmpleadoService(backend, emitter),
		Accesos:        services.NewAccesoService(backend, emitter),
		Dashboard:      services.NewDashboardService(source, emitter),
		Audit:          services.NewAuditService(auditStore),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.InfoWithFields("api gateway listening", logger.Fields{"addr": cfg.Server.Addr, "backend": cfg.Backend.BaseURL})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Errorf("server error: %v", err)
		os.Exit(1)
	}
}

// seedOrNow 는 설정된 시드가 0 이면 현재 시각을 시드로 사용한다.
func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
