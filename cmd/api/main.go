package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markdave123-py/Lessona/internal/app"
	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

func main() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}
	defer application.Close()

	if cfg.WatchDir != "" {
		if err := application.StartWatcher(ctx, cfg.WatchDir); err != nil {
			log.Fatal("folder watch failed", "dir", cfg.WatchDir, "error", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- application.Server.Start() }()

	log.Info("Lessona is running", "store", cfg.StoreDriver, "llm", cfg.LLMProvider)
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "error", err)
	}
	application.DocProcessor.Wait()
	log.Info("shutting down...")
}
