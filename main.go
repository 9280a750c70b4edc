package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/metrics"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.ConfigureJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if cfg.Auth.JWTSecret == "" {
		utils.InfoLogger.Warn("JWT_SECRET not set, using the development secret")
	}
	gin.SetMode(cfg.Server.GinMode)
	metrics.Register()

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	autoMigrate(db)

	var publisher events.Publisher
	if cfg.AMQP.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			utils.ErrorLogger.Errorf("RabbitMQ unavailable, continuing without it: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
			utils.InfoLogger.WithField("queue", cfg.AMQP.Queue).Info("RabbitMQ connected")
		}
	}

	r := router.SetupRouter(db, router.Options{
		Rules:                   cfg.Rules(),
		StrictStatusTransitions: cfg.Business.Strict(),
		AllowedOrigins:          cfg.Server.AllowedOrigins,
		Limiter:                 newLimiter(cfg),
		Hub:                     floor.NewHub(),
		Publisher:               publisher,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newLimiter prefers Redis so limits hold across instances, and falls back to
// per-process buckets when Redis is disabled or unreachable.
func newLimiter(cfg *config.Config) middlewares.Limiter {
	local := middlewares.NewLocalLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	if !cfg.Redis.Enabled {
		return local
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		utils.ErrorLogger.Errorf("redis connection failed, using in-process rate limiting: %v", err)
		_ = client.Close()
		return local
	}

	utils.InfoLogger.WithField("addr", cfg.Redis.Address).Info("redis connected")
	perWindow := int(cfg.RateLimit.RPS * cfg.RateLimit.Window.Seconds())
	if perWindow < cfg.RateLimit.Burst {
		perWindow = cfg.RateLimit.Burst
	}
	return middlewares.NewRedisLimiter(client, perWindow, cfg.RateLimit.Window)
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Reservation{},
		&models.Table{},
		&models.Staff{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
