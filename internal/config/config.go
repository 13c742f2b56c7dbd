package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	SecretKey     string
	AdminToken    string
	PerPage       int
	CORSOrigins   []string

	Mongo  MongoConfig
	Redis  RedisConfig
	Mpesa  MpesaConfig
	Mail   MailConfig
	Worker WorkerConfig
}

// MongoConfig contains MongoDB connection parameters.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MpesaConfig contains M-Pesa Daraja credentials and integration settings.
type MpesaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	LogDir         string
	SessionTTL     time.Duration
}

// Enabled reports whether STK push can be offered with the loaded credentials.
func (m MpesaConfig) Enabled() bool {
	return m.ConsumerKey != "" && m.ConsumerSecret != "" && m.Passkey != "" && m.CallbackURL != ""
}

// MailConfig contains SMTP settings for outbound mail.
type MailConfig struct {
	Host     string
	Port     int
	UseTLS   bool
	Username string
	Password string
	Sender   string
}

// Enabled reports whether outbound mail is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != ""
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	PaymentSweepInterval time.Duration
	PaymentStaleAfter    time.Duration
	PaymentMaxAge        time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")
	cfg.SecretKey = getEnv("SECRET_KEY", "")
	cfg.AdminToken = getEnv("ADMIN_TOKEN", "")
	cfg.PerPage = getEnvInt("PER_PAGE", 12)
	cfg.CORSOrigins = getEnvList("CORS_ALLOWED_ORIGINS")

	// MongoDB
	cfg.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", ""),
		Database: getEnv("MONGO_DB_NAME", "geniusbabycosmetics"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// M-Pesa Daraja. The short code default is Safaricom's public sandbox
	// paybill; real credentials always come from the environment.
	cfg.Mpesa = MpesaConfig{
		BaseURL:        getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		ConsumerKey:    getEnv("MPESA_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("MPESA_CONSUMER_SECRET", ""),
		ShortCode:      getEnv("MPESA_SHORTCODE", "174379"),
		Passkey:        getEnv("MPESA_PASSKEY", ""),
		CallbackURL:    getEnv("MPESA_CALLBACK_URL", ""),
		LogDir:         getEnv("MPESA_LOG_DIR", "static/mpesa_logs"),
	}

	// Mail
	cfg.Mail = MailConfig{
		Host:     getEnv("MAIL_SERVER", "smtp.gmail.com"),
		Port:     getEnvInt("MAIL_PORT", 587),
		UseTLS:   getEnvBool("MAIL_USE_TLS", true),
		Username: getEnv("MAIL_USERNAME", ""),
		Password: getEnv("MAIL_PASSWORD", ""),
		Sender:   getEnv("MAIL_DEFAULT_SENDER", ""),
	}
	if cfg.Mail.Sender == "" {
		cfg.Mail.Sender = cfg.Mail.Username
	}

	// Durations
	var err error
	if cfg.Mpesa.SessionTTL, err = parseDurationEnv("MPESA_SESSION_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid MPESA_SESSION_TTL: %w", err)
	}
	if cfg.Worker.PaymentSweepInterval, err = parseDurationEnv("PAYMENT_SWEEP_INTERVAL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_SWEEP_INTERVAL: %w", err)
	}
	if cfg.Worker.PaymentStaleAfter, err = parseDurationEnv("PAYMENT_STALE_AFTER", "90s"); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_STALE_AFTER: %w", err)
	}
	if cfg.Worker.PaymentMaxAge, err = parseDurationEnv("PAYMENT_MAX_AGE", "10m"); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_MAX_AGE: %w", err)
	}

	// Required settings.
	if cfg.Mongo.URI == "" {
		return nil, errors.New("database configuration incomplete: ensure MONGO_URI is set")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY must be set for token signing")
	}
	if cfg.AdminToken == "" {
		return nil, errors.New("ADMIN_TOKEN must be set for the admin API")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvList splits a comma-separated environment variable into its non-empty
// trimmed entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvBool accepts 1/true/yes (any case) as true and 0/false/no as false.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "True", "TRUE", "yes", "Yes", "YES":
		return true
	case "0", "false", "False", "FALSE", "no", "No", "NO":
		return false
	}
	return def
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
