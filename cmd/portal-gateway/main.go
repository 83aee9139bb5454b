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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/handler"
	"github.com/hmtc-its/hmtc-portal/internal/repository"
	"github.com/hmtc-its/hmtc-portal/internal/schedule"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	"github.com/hmtc-its/hmtc-portal/pkg/cache"
	"github.com/hmtc-its/hmtc-portal/pkg/config"
	"github.com/hmtc-its/hmtc-portal/pkg/database"
	"github.com/hmtc-its/hmtc-portal/pkg/jobs"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("gateway stopped", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Cache.Backend == config.CacheBackendRedis || cfg.Magang.Store == config.CacheBackendRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = client
		defer redisClient.Close()
	}

	var cacheRepo service.CacheRepository = repository.NewMemoryCache()
	dependencies := map[string]handler.Pinger{}
	if cfg.Cache.Backend == config.CacheBackendRedis {
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		cacheRepo = redisRepo
		dependencies["redis"] = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	var magangStore service.MagangStore = repository.NewMemoryMagangRepository()
	switch cfg.Magang.Store {
	case config.CacheBackendRedis:
		magangStore = repository.NewRedisMagangRepository(redisClient)
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		pg := repository.NewPostgresMagangRepository(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		magangStore = pg
		dependencies["postgres"] = pg
	}

	files, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	backend, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BackendURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, apiclient.WithLogger(logr), apiclient.WithRecorder(metrics))
	if err != nil {
		return err
	}

	windows := service.NewScheduleWindowService(cfg.Schedule.Windows)
	bus := schedule.NewBroadcaster()
	watcher := schedule.NewWatcher(windows, bus, cfg.Schedule.Paths, schedule.Config{
		Interval: cfg.Schedule.PollInterval,
		Logger:   logr,
		Recorder: metrics,
	})
	exports := service.NewApplicantExportService(magangStore, files, logr)
	exportQueue := jobs.NewQueue("magang-exports", exports.Handle, jobs.Config{
		Workers:  cfg.Magang.ExportWorkers,
		Logger:   logr,
		OnGiveUp: exports.GiveUp,
	})
	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exports.UseQueue(exportQueue)

	hub := handler.NewScheduleHub(logr)
	unsubscribe := bus.Subscribe(hub.Publish)
	defer unsubscribe()

	router := handler.NewRouter(handler.Routes{
		Logger:         logr,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UploadMemory:   cfg.Uploads.MaxFileBytes,
		Docs:           cfg.Env != config.EnvProduction && cfg.Docs,
		Health:         handler.NewMetricsHandler(metrics, dependencies),
		Schedule:       handler.NewScheduleHandler(windows),
		Magang:         handler.NewMagangHandler(service.NewApplicantService(windows, files, magangStore, logr)),
		Gallery:        handler.NewGalleryHandler(service.NewGalleryService(backend, logr), cacheSvc, cfg.Cache.TTL, logr),
		Events:         handler.NewEventsHandler(hub, watcher, logr),
		Exports:        handler.NewExportHandler(exports, service.NewMeService(backend), logr),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() { _ = hub.Run(ctx) }()
	go func() { _ = watcher.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", backend.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
