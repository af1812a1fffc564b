package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutoring-ledger/api/swagger"
	"github.com/noah-isme/tutoring-ledger/internal/app"
	"github.com/noah-isme/tutoring-ledger/internal/router"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
	"github.com/noah-isme/tutoring-ledger/pkg/logger"
)

// @title Tutoring Ledger API
// @version 1.0.0
// @description Students, tutoring sessions, payments and balance reports for a tutoring business.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ledger, err := app.New(cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise ledger", zap.Error(err))
	}
	defer ledger.Close() //nolint:errcheck

	engine, err := router.New(router.Dependencies{
		Config:   cfg,
		Logger:   logr,
		DB:       ledger.DB,
		Metrics:  ledger.Metrics,
		Students: ledger.Students,
		Sessions: ledger.Sessions,
		Payments: ledger.Payments,
		Reports:  ledger.Reports,
		Exports:  ledger.Exports,
		Business: ledger.Business,
	})
	if err != nil {
		logr.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
