package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"dorm-rental-backend/config"
	"dorm-rental-backend/internal/api"
	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/db"
	"dorm-rental-backend/internal/logging"
	"dorm-rental-backend/internal/mw"
	"dorm-rental-backend/internal/notification"
	"dorm-rental-backend/internal/store"
	"dorm-rental-backend/internal/upload"
)

const limiterIdle = 10 * time.Minute

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logging.Init("dormd", cfg.Log.Level)
	log.Infof("configuration loaded from %s", configPath)

	gin.DefaultWriter = log.StandardLogger().WriterLevel(log.DebugLevel)
	gin.DefaultErrorWriter = log.StandardLogger().WriterLevel(log.ErrorLevel)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		hash, err := hasher.Hash(cfg.Auth.AdminPassword)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		created, err := appStore.EnsureAdmin(ctx, cfg.Auth.AdminEmail, hash)
		if err != nil {
			log.Fatalf("failed to bootstrap admin account: %v", err)
		}
		if created {
			log.WithField("email", cfg.Auth.AdminEmail).Info("admin account created")
		}
	}

	uploads, err := upload.NewStorage(cfg.Server.UploadDir, "/uploads", cfg.Server.MaxUploadBytes)
	if err != nil {
		log.Fatalf("failed to prepare upload storage: %v", err)
	}

	hub := notification.NewHub(8)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pool.Start(ctx)
		hub.OnPublish(func(ev notification.Event) { pool.Dispatch(ev) })
		log.Infof("push notifications enabled with %d workers", cfg.WorkerPool.Size)
	} else {
		log.Warn("VAPID keys are not configured; push notifications are disabled")
	}

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	go pruneLimiter(ctx, limiter)

	handler := api.NewHandler(api.Deps{
		Store:   appStore,
		Tokens:  auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Hasher:  hasher,
		Uploads: uploads,
		Events:  hub,
		Metrics: mw.NewMetrics(),
		WebPush: webpushOptions,
	})
	router := api.NewRouter(handler, api.RouterOptions{Server: cfg.Server, Limiter: limiter})
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutdown signal received, stopping services...")

	// Request contexts derive from ctx; cancelling it ends open event streams.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server Shutdown: %v", err)
	}
	log.Info("server gracefully stopped")
}

func pruneLimiter(ctx context.Context, limiter *mw.IPRateLimiter) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(limiterIdle); n > 0 {
				log.Debugf("forgot %d idle rate-limit clients", n)
			}
		}
	}
}
