package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	"github.com/BruksfildServices01/home-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/home-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/home-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/home-scheduler/internal/jobs"
	"github.com/BruksfildServices01/home-scheduler/internal/logger"
	"github.com/BruksfildServices01/home-scheduler/internal/notify"
	"github.com/BruksfildServices01/home-scheduler/internal/routes"
	"github.com/BruksfildServices01/home-scheduler/internal/validators"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	if err := validators.Register(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	// ======================================================
	// Cache (Redis opcional)
	// ======================================================
	var (
		appCache cache.Cache = cache.NewNoop()
		redis    *cache.RedisCache
	)
	if cfg.RedisURL != "" {
		redis, err = cache.NewRedisFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redis.Ping(ctx); err != nil {
			log.Warn("redis unreachable, home summary cache disabled", zap.Error(err))
			_ = redis.Close()
			redis = nil
		} else {
			appCache = redis
		}
		cancel()
	}

	// ======================================================
	// Notificações + auditoria
	// ======================================================
	gateway, err := newGateway(cfg, log)
	if err != nil {
		log.Fatal("failed to configure notification gateway", zap.Error(err))
	}

	notifLogRepo := infraRepo.NewNotificationLogGormRepository(db)
	dispatcher := notify.NewDispatcher(gateway, notifLogRepo, log, notify.Options{
		QueueSize: cfg.NotifyQueueSize,
		Workers:   cfg.NotifyWorkers,
		Timeout:   cfg.NotifyTimeout,
	})

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	retention := jobs.NewRetention(notifLogRepo, cfg.NotificationRetention, log)
	if err := retention.Start(cfg.RetentionCron); err != nil {
		log.Fatal("failed to start retention job", zap.Error(err))
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	infra := routes.Infra{
		Logger:   log,
		Cache:    appCache,
		Notifier: dispatcher,
		Audit:    auditDispatcher,
		NotifLog: notifLogRepo,
	}
	if redis != nil {
		infra.Pinger = redis
	}
	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	// handlers já pararam: fila de mensagens e auditoria podem ser drenadas
	retention.Stop()
	dispatcher.Close()
	auditDispatcher.Close()

	if redis != nil {
		_ = redis.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newGateway(cfg *config.Config, log *zap.Logger) (notify.Gateway, error) {
	switch cfg.NotifyProvider {
	case "evolution":
		if cfg.EvolutionAPIURL == "" {
			log.Warn("EVOLUTION_API_URL not set, notifications will only be logged")
			return notify.NewLogGateway(log), nil
		}
		client, err := notify.NewEvolutionClient(cfg.EvolutionAPIURL, cfg.EvolutionAPIKey, cfg.EvolutionInstance, cfg.NotifyTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "twilio":
		gw, err := notify.NewTwilioGateway(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		if err != nil {
			return nil, err
		}
		return gw, nil
	default:
		return notify.NewLogGateway(log), nil
	}
}
