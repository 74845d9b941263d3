package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	cataloghandler "stock_dashboard/internal/feature/catalog/transport/handler"
	priceshandler "stock_dashboard/internal/feature/prices/transport/handler"
	"stock_dashboard/internal/platform/config"
	platformhandler "stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}
	logging.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Error("failed to release resources", "error", err)
		}
	}()

	// Handler
	r := router.NewRouter(router.Handlers{
		Prices:    priceshandler.NewPriceHandler(c.Dashboard),
		Companies: cataloghandler.NewCompanyHandler(c.Catalog),
		Health:    platformhandler.Health(c.Health),
	}, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening",
			"addr", cfg.Server.Addr,
			"provider", c.Health.Provider,
			"cache", c.Health.Cache,
			"catalog", c.Health.Catalog)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
