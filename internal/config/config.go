package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Chat gateway (Twilio WhatsApp) Config
	ChatAccountID string `env:"CHAT_ACCOUNT_ID"`
	ChatAuthToken string `env:"CHAT_AUTH_TOKEN"`
	ChatSender    string `env:"CHAT_SENDER"`

	// Mail (SMTP) Config
	MailServer   string `env:"MAIL_SERVER"`
	MailPort     int    `env:"MAIL_PORT" envDefault:"587"`
	MailUseTLS   bool   `env:"MAIL_USE_TLS" envDefault:"true"`
	MailUsername string `env:"MAIL_USERNAME"`
	MailPassword string `env:"MAIL_PASSWORD"`

	// Dispatch Config
	SendTimeout time.Duration `env:"SEND_TIMEOUT" envDefault:"15s"`

	// Maintenance Config
	AlertRetentionDays int `env:"ALERT_RETENTION_DAYS" envDefault:"30"`
	ReportWindowDays   int `env:"REPORT_WINDOW_DAYS" envDefault:"7"`

	// API Keys for admin authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		ChatAccountID:      os.Getenv("CHAT_ACCOUNT_ID"),
		ChatAuthToken:      os.Getenv("CHAT_AUTH_TOKEN"),
		ChatSender:         os.Getenv("CHAT_SENDER"),
		MailServer:         os.Getenv("MAIL_SERVER"),
		MailPort:           getEnvAsInt("MAIL_PORT", 587),
		MailUseTLS:         getEnvAsBool("MAIL_USE_TLS", true),
		MailUsername:       os.Getenv("MAIL_USERNAME"),
		MailPassword:       os.Getenv("MAIL_PASSWORD"),
		SendTimeout:        getEnvAsDuration("SEND_TIMEOUT", 15*time.Second),
		AlertRetentionDays: getEnvAsInt("ALERT_RETENTION_DAYS", 30),
		ReportWindowDays:   getEnvAsInt("REPORT_WINDOW_DAYS", 7),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
