package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pastas-console/analytics"
	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/cmd/api/httpclient"
	"pastas-console/cmd/console/ui"
	"pastas-console/cmd/internal/logger"
	"pastas-console/config"
)

const defaultLogFile = "console.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 은 종료 전에 defer 된 정리(로그 파일, 시그널)를 모두 마친 뒤 반환한다.
func run() error {
	config.InitApp()
	cfg := config.GetConfig()

	// 터미널 화면을 깨뜨리지 않도록 로그는 파일로 보낸다.
	logPath := os.Getenv("LOG_FILE")
	if logPath == "" {
		logPath = defaultLogFile
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log file %s: %w", logPath, err)
	}
	defer logFile.Close()
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = cfg.Logging.Level
	}
	logger.InitToWriter(level, logFile)
	defer logger.Flush()
	logger.SetServiceName("console")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	backend := backendclient.New(httpclient.NewBaseClientWithClient(httpclient.New(httpclient.Config{
		Timeout: cfg.Backend.Timeout,
	}), cfg.Backend.BaseURL))

	seed := cfg.Dashboard.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	source := analytics.NewMockSource(analytics.NewGenerator(seed, time.Now))

	opts := ui.DefaultOptions()
	if cfg.Backend.Timeout > 0 {
		opts.Timeout = cfg.Backend.Timeout
	}
	opts.PageSize = cfg.Pagination.DefaultPageSize

	logger.InfoWithFields("console started", logger.Fields{"backend": cfg.Backend.BaseURL})
	if err := ui.Run(ctx, ui.New(backend, source, opts)); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Log.Errorf("console error: %v", err)
		return err
	}
	logger.Log.Info("console stopped")
	return nil
}
