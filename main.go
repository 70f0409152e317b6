// main.go
package main

import (
	"context"
	"log"
	"time"

	"dcms/cmd"
	"dcms/internal/data/repository"
	"dcms/internal/wire"
	"dcms/pkg/database"
	"dcms/pkg/jwt"
	"dcms/pkg/mailer"
	"dcms/pkg/middleware"
	"dcms/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("otp_store", config.OTP.Store),
		zap.String("rate_limit_backend", config.RateLimit.Backend),
	)

	ctx := context.Background()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis is only needed when a redis backend is selected
	var rdb *redis.Client
	if config.OTP.Store == "redis" || config.RateLimit.Backend == "redis" {
		rdb, err = connectRedis(ctx, config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", config.Redis.Addr))
		}
		defer rdb.Close()

		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	}

	// Pending registrations
	var pending repository.PendingStore
	if config.OTP.Store == "redis" {
		pending = repository.NewRedisPendingStore(rdb, config.OTP.SweepInterval, logger)
	} else {
		pending = repository.NewMemoryPendingStore(logger)
	}

	// Rate limiter
	var limiter middleware.RateLimiter
	if config.RateLimit.Backend == "redis" {
		limiter = middleware.NewRedisRateLimiter(rdb, logger)
	} else {
		limiter = middleware.NewMemoryRateLimiter()
	}

	// Email
	var mail mailer.Sender
	if config.Email.Host != "" {
		mail = mailer.NewSMTPSender(config.Email.Host, config.Email.Port, config.Email.User, config.Email.Password, config.Email.From, logger)
	} else {
		logger.Warn("MAIL_HOST not set, emails will only be logged")
		mail = mailer.NewLogSender(logger)
	}

	tokens := jwt.NewIssuer(config.JWT.AccessSecret, config.JWT.RefreshSecret, config.JWT.AccessTTL, config.JWT.RefreshTTL, config.App.Name)

	// Initialize all repositories
	repos := repository.NewRepository(db, pending, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, tokens, mail, limiter, config, logger)
	app.Start()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	app.Close()
	logger.Info("Application stopped")
}

func connectRedis(ctx context.Context, config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
