package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/arena-probe/internal/arena"
	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/httpapi"
	"github.com/DoyleJ11/arena-probe/internal/hub"
	"github.com/DoyleJ11/arena-probe/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadArena()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	log := logging.Must(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, arena.Options{
		Interval: cfg.Interval,
		Seed:     cfg.Seed,
		HoldOpen: cfg.HoldOpen,
	}, log)

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("mock arena listening", zap.String("addr", cfg.Addr), zap.Duration("interval", cfg.Interval))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
	h.Send(hub.ShutdownHub{})
	log.Info("done")
}
