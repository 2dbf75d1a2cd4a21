package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all process configuration, sourced from the
// environment with optional .env values for local runs.
type Config struct {
	AppPort       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	AllowedOrigin string

	// turn timing
	TurnWindow       time.Duration
	WarningWindow    time.Duration
	WarningCooldown  time.Duration
	WatchInterval    time.Duration
	SchedulerEnabled bool

	RateLimit  int
	RateWindow time.Duration

	CronSecret     string
	AllowGuestAuth bool

	// optional Telegram DM delivery for deploys whose user ids are
	// Telegram chat ids
	TelegramToken string

	DBMaxConns int32
	DBMinConns int32
}

// Load reads configuration from the environment. A .env file is
// honored when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppPort:       getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		TurnWindow:       getDuration("TURN_WINDOW", 24*time.Hour),
		WarningWindow:    getDuration("WARNING_WINDOW", time.Hour),
		WarningCooldown:  getDuration("WARNING_COOLDOWN", 30*time.Minute),
		WatchInterval:    getDuration("WATCH_INTERVAL", time.Minute),
		SchedulerEnabled: getBool("SCHEDULER_ENABLED", true),

		RateLimit:  getInt("RATE_LIMIT", 60),
		RateWindow: getDuration("RATE_WINDOW", time.Minute),

		CronSecret:     os.Getenv("CRON_SECRET"),
		AllowGuestAuth: getBool("AUTH_ALLOW_GUEST", false),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		DBMaxConns: int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns: int32(getInt("DB_MIN_CONNS", 2)),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
