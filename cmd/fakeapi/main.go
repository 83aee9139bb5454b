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

	"github.com/hmtc-its/hmtc-portal/internal/fakeapi"
	"github.com/hmtc-its/hmtc-portal/pkg/config"
	"github.com/hmtc-its/hmtc-portal/pkg/logger"
	"github.com/hmtc-its/hmtc-portal/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	files, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare storage", "error", err)
	}

	srv, err := fakeapi.New(fakeapi.Config{
		JWTSecret:      cfg.Fake.JWTSecret,
		TokenTTL:       cfg.Fake.TokenTTL,
		AdminNRP:       cfg.Fake.AdminNRP,
		AdminPassword:  cfg.Fake.AdminPassword,
		MaxUploadBytes: cfg.Uploads.MaxFileBytes,
		Storage:        files,
		Logger:         logr,
	})
	if err != nil {
		logr.Sugar().Fatalw("failed to build fake backend", "error", err)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logr.Sugar().Infow("fake backend starting", "addr", httpSrv.Addr, "base_path", fakeapi.BasePath, "admin_nrp", cfg.Fake.AdminNRP)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
