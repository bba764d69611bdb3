package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fsanano/order-tracker/internal/broadcast"
	"fsanano/order-tracker/internal/catalog"
	"fsanano/order-tracker/internal/config"
	"fsanano/order-tracker/internal/handler"
	"fsanano/order-tracker/internal/service"
	"fsanano/order-tracker/internal/store"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// 2. Reference data
	cat := catalog.Default()
	if cfg.CatalogSeedPath != "" {
		cat, err = catalog.Load(cfg.CatalogSeedPath)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}
	logger.Info("catalog ready", "users", len(cat.Users()), "items", len(cat.Items()))

	// 3. Setup Logic
	orderStore := store.NewOrderStore()
	hub := broadcast.NewHub(logger, cfg.AllowedOrigins, orderStore.List)
	orderStore.OnMutation(hub.Publish)

	orderService := service.NewOrderService(orderStore, cat)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	h := handler.New(orderHandler, hub, cfg.AllowedOrigins)

	// 4. Setup Server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	// 5. Run with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("server exiting")
}
