package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medvoyage/community-backend/internal/cache"
	"github.com/medvoyage/community-backend/internal/config"
	"github.com/medvoyage/community-backend/internal/database"
	"github.com/medvoyage/community-backend/internal/logger"
	"github.com/medvoyage/community-backend/internal/server"
	"github.com/medvoyage/community-backend/internal/store"
	"github.com/medvoyage/community-backend/internal/store/memory"
	"github.com/medvoyage/community-backend/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}
	if err := logger.Init(cfg.App.Env); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	var (
		st store.Store
		db database.Service
	)
	switch cfg.App.Backend {
	case "memory":
		st = memory.New()
		logger.Log.Info("using in-memory content backend")
	default:
		db, err = database.New(cfg.Database)
		if err != nil {
			logger.Log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		st = postgres.New(db.GetDB())
		logger.Log.Info("using postgres content backend",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name))
	}

	trending := cache.NewTrending(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer trending.Close()
	if trending.Enabled() {
		logger.Log.Info("trending cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	srv := server.New(cfg, st, db, trending)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}
