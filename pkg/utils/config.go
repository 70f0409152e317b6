package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	OTP       OTPConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// OTPConfig controls the pending registration flow. Store is "memory" or "redis".
type OTPConfig struct {
	Expiry        time.Duration
	SweepInterval time.Duration
	Store         string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds per-route request budgets for the public auth endpoints.
// Backend is "memory" or "redis".
type RateLimitConfig struct {
	Backend      string
	SendOTP      int
	VerifyOTP    int
	Login        int
	Window       time.Duration
	VerifyWindow time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

// LoadConfig reads configuration from the given .env file (optional) and the environment.
// Environment variables take precedence over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "dcms")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_ACCESS_EXPIRATION", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRATION", "168h")
	v.SetDefault("MAIL_HOST", "")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("OTP_EXPIRY", "10m")
	v.SetDefault("OTP_SWEEP_INTERVAL", "5m")
	v.SetDefault("OTP_STORE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_BACKEND", "memory")
	v.SetDefault("RATE_LIMIT_SEND_OTP", 3)
	v.SetDefault("RATE_LIMIT_VERIFY_OTP", 5)
	v.SetDefault("RATE_LIMIT_LOGIN", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_VERIFY_WINDOW", "10m")
	v.SetDefault("METRICS_ENABLED", true)

	if err := v.ReadInConfig(); err != nil {
		// .env is optional, the environment alone is enough
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
			AccessTTL:     v.GetDuration("JWT_ACCESS_EXPIRATION"),
			RefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
			RefreshTTL:    v.GetDuration("JWT_REFRESH_EXPIRATION"),
		},
		Email: EmailConfig{
			Host:     v.GetString("MAIL_HOST"),
			Port:     v.GetInt("MAIL_PORT"),
			User:     v.GetString("MAIL_USER"),
			Password: v.GetString("MAIL_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
		},
		OTP: OTPConfig{
			Expiry:        v.GetDuration("OTP_EXPIRY"),
			SweepInterval: v.GetDuration("OTP_SWEEP_INTERVAL"),
			Store:         v.GetString("OTP_STORE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Backend:      v.GetString("RATE_LIMIT_BACKEND"),
			SendOTP:      v.GetInt("RATE_LIMIT_SEND_OTP"),
			VerifyOTP:    v.GetInt("RATE_LIMIT_VERIFY_OTP"),
			Login:        v.GetInt("RATE_LIMIT_LOGIN"),
			Window:       v.GetDuration("RATE_LIMIT_WINDOW"),
			VerifyWindow: v.GetDuration("RATE_LIMIT_VERIFY_WINDOW"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if config.Email.From == "" {
		config.Email.From = config.Email.User
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.OTP.Store != "memory" && c.OTP.Store != "redis" {
		return errors.New("OTP_STORE must be memory or redis")
	}
	if c.RateLimit.Backend != "memory" && c.RateLimit.Backend != "redis" {
		return errors.New("RATE_LIMIT_BACKEND must be memory or redis")
	}
	return nil
}
