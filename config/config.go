package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper function to get environment variable as bool with fallback
func GetEnvAsBool(key string, fallback bool) bool {
	valueStr := GetEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret   string
	JWTTTLHours int

	UploadDir       string
	SignedURLSecret string
	PublicBaseURL   string

	SMTP   SMTPConfig
	Outbox OutboxConfig

	OTELServiceName string
}

// LoadEnvFile reads .env into the process environment. A missing file is not
// an error; the returned value says whether one was found.
func LoadEnvFile() bool {
	return godotenv.Load() == nil
}

// Load reads the configuration from the environment.
func Load() Config {
	cfg := Config{
		AppEnv:   GetEnv("APP_ENV", "production"),
		Port:     GetEnv("PORT", "3000"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(GetEnv("DB_DRIVER", "mysql")),
		DBDSN:    GetEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/erp?charset=utf8mb4&parseTime=True&loc=Local"),

		JWTSecret:   GetEnv("JWT_SECRET", ""),
		JWTTTLHours: GetEnvAsInt("JWT_TTL_HOURS", 24),

		UploadDir:       GetEnv("UPLOAD_DIR", "./uploads"),
		SignedURLSecret: GetEnv("SIGNED_URL_SECRET", ""),
		PublicBaseURL:   GetEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			User:     GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("SMTP_FROM", "no-reply@localhost"),
		},
		Outbox: OutboxConfig{
			PollInterval: time.Duration(GetEnvAsInt("OUTBOX_POLL_SECONDS", 10)) * time.Second,
			BatchSize:    GetEnvAsInt("OUTBOX_BATCH_SIZE", 50),
			MaxAttempts:  GetEnvAsInt("OUTBOX_MAX_ATTEMPTS", 5),
		},

		OTELServiceName: GetEnv("OTEL_SERVICE_NAME", "erp-backend"),
	}
	if cfg.SignedURLSecret == "" && cfg.JWTSecret != "" {
		cfg.SignedURLSecret = deriveKey(cfg.JWTSecret, "files")
	}
	return cfg
}

// deriveKey returns a purpose-bound key so file links and session tokens never
// share an HMAC key.
func deriveKey(secret, purpose string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(purpose))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}
