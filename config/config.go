// Package config reads service settings from the environment (and an optional
// .env file) once at startup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port           string
	DBDriver       string
	DatabaseURL    string
	AdminUserID    string
	AllowedOrigins string
	WebDir         string
	LogLevel       logrus.Level
	SeedAds        bool

	TelegramBotToken string
	WebAppURL        string

	AuditInterval  time.Duration
	ExportInterval time.Duration
	R2             R2Config
}

// R2Config holds Cloudflare R2 credentials for claim exports.
// An empty Bucket disables exporting.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

func (c R2Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("⚠️  No .env file found, reading environment variables directly")
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		logrus.Warnf("⚠️  Invalid LOG_LEVEL, using info: %v", err)
		level = logrus.InfoLevel
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	defaultDSN := ""
	if driver == "sqlite" {
		defaultDSN = "earnchain.db"
	}

	return &Config{
		Port:           getEnv("PORT", "3000"),
		DBDriver:       driver,
		DatabaseURL:    getEnv("DATABASE_URL", defaultDSN),
		AdminUserID:    os.Getenv("ADMIN_USER_ID"),
		AllowedOrigins: normalizeOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		WebDir:         getEnv("WEB_DIR", "./web"),
		LogLevel:       level,
		SeedAds:        getBool("SEED_ADS", true),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebAppURL:        getEnv("WEB_APP_URL", "http://localhost:3000"),

		AuditInterval:  getDuration("AUDIT_INTERVAL", time.Hour),
		ExportInterval: getDuration("EXPORT_INTERVAL", 24*time.Hour),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
		},
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("⚠️  Invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.Warnf("⚠️  Invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

// normalizeOrigins trims each comma-separated origin.
func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
