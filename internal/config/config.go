package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSupervisorConfig seeds the bootstrap supervisor account.
// The default credentials are intentionally well known (admin/admin123):
// they exist only so the first operator can log in and must be changed
// immediately on a real deployment.
type DefaultSupervisorConfig struct {
	Username string
	Password string
	Email    string
	FullName string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	// File storage
	UploadDir     string
	ResultsDir    string
	MaxUploadSize int64 // bytes

	// Registration policy
	TeacherEmailDomain string // required suffix for whitelisted teacher emails

	SessionTTL time.Duration

	DefaultSupervisor DefaultSupervisorConfig
}

// LoadConfig reads configuration from the environment, with a .env file
// as optional overlay for local development.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		UploadDir:     getEnv("UPLOAD_DIR", "uploaded_files"),
		ResultsDir:    getEnv("RESULTS_DIR", "uploaded_files/results"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 50<<20),

		TeacherEmailDomain: getEnv("TEACHER_EMAIL_DOMAIN", "@nilevalley.edu.sd"),

		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),

		DefaultSupervisor: DefaultSupervisorConfig{
			Username: getEnv("DEFAULT_SUPERVISOR_USERNAME", "admin"),
			Password: getEnv("DEFAULT_SUPERVISOR_PASSWORD", "admin123"),
			Email:    getEnv("DEFAULT_SUPERVISOR_EMAIL", "admin@example.com"),
			FullName: getEnv("DEFAULT_SUPERVISOR_FULL_NAME", "System Administrator"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if !strings.HasPrefix(c.TeacherEmailDomain, "@") {
		return fmt.Errorf("TEACHER_EMAIL_DOMAIN must start with '@', got %q", c.TeacherEmailDomain)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
