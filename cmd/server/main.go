package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/api"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/config"
	eventspkg "github.com/sheikh-saqib/bookkeeping-ledger/internal/events"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/ledger"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kind, _, _ := storage.Kind(cfg.ConnectionString)
	store, err := storage.Open(ctx, cfg.ConnectionString)
	if err != nil {
		logger.Fatal("failed to open ledger store", zap.String("kind", kind), zap.Error(err))
	}
	defer store.Close()
	logger.Info("ledger store opened", zap.String("kind", kind))

	var publisher interfaces.EventPublisher = eventspkg.Nop{}
	if cfg.EventsEnabled() {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("publishing ledger events",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	ledgerService := ledger.NewLedger(store,
		ledger.WithPublisher(publisher),
		ledger.WithLogger(logger.Named("ledger")),
	)

	srv := &http.Server{
		Addr: cfg.ListenAddr(),
		Handler: api.NewRouter(ledgerService, logger.Named("http"), api.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// newLogger builds a production JSON logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
