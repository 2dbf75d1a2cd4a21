package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skate_app/internal/config"
	"skate_app/internal/cooldown"
	"skate_app/internal/db"
	httpServer "skate_app/internal/http"
	"skate_app/internal/http/handlers"
	"skate_app/internal/http/middleware"
	"skate_app/internal/logger"
	"skate_app/internal/notify"
	"skate_app/internal/repository"
	"skate_app/internal/service"
	"skate_app/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Version is set at build time
var Version = "dev"

func main() {
	cfg := config.Load()

	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	service.InitJWT()

	// persistence: Postgres when configured, process memory otherwise
	var store service.GameStore
	var audit *service.AuditService
	if cfg.DatabaseURL != "" {
		dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		defer dbPool.Close()
		store = repository.NewGameRepository(dbPool)
		audit = service.NewAuditService(repository.NewAuditRepository(dbPool))
	} else {
		log.Warn("DATABASE_URL is not set, games live in process memory")
		store = repository.NewMemoryStore()
	}

	// warning cooldowns: shared via redis, process-local otherwise
	var guard service.WarnGuard
	if cfg.RedisAddr != "" {
		guard = cooldown.NewRedisGuard(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
	} else {
		log.Warn("REDIS_ADDR is not set, warning cooldowns are process-local")
		guard = cooldown.NewMemoryGuard()
	}

	hub := ws.NewHub()
	notifier := notify.Fanout{notify.LogNotifier{}, hub}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken)
		if err != nil {
			log.Error("telegram notifier disabled", "error", err)
		} else {
			notifier = append(notifier, tg)
		}
	}

	games := service.NewGameService(store, notifier, guard, service.Options{
		TurnWindow:      cfg.TurnWindow,
		WarningWindow:   cfg.WarningWindow,
		WarningCooldown: cfg.WarningCooldown,
	})
	if audit != nil {
		games.SetAudit(audit)
	}

	h := handlers.NewHandler(games)
	h.Audit = audit

	r := gin.Default()

	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.Metrics())

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, 0)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, h, hub, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	// deadline watcher forfeits overdue games and sends warnings
	var watcher *service.DeadlineWatcher
	if cfg.SchedulerEnabled {
		watcher = service.NewDeadlineWatcher(games, cfg.WatchInterval)
		go watcher.Start()
	} else {
		log.Warn("deadline watcher disabled, deadlines depend on the /internal endpoints")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	if watcher != nil {
		watcher.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
