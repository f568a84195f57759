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
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass     string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	EventsEnabled bool   `env:"EVENTS_ENABLED" envDefault:"false"`

	// Administrator credentials
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@ers.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	// Simulated latency
	SignInLatency         time.Duration `env:"SIGN_IN_LATENCY" envDefault:"1s"`
	SignUpLatency         time.Duration `env:"SIGN_UP_LATENCY" envDefault:"1s"`
	SignOutLatency        time.Duration `env:"SIGN_OUT_LATENCY" envDefault:"500ms"`
	CreateIncidentLatency time.Duration `env:"CREATE_INCIDENT_LATENCY" envDefault:"1s"`
	UpdateIncidentLatency time.Duration `env:"UPDATE_INCIDENT_LATENCY" envDefault:"500ms"`

	// Sign-in rate limit, limiter format ("10-M")
	SignInRate string `env:"SIGN_IN_RATE" envDefault:"10-M"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvAsInt("REDIS_DB", 0),
		EventsEnabled:         getEnvAsBool("EVENTS_ENABLED", false),
		AdminEmail:            getEnv("ADMIN_EMAIL", "admin@ers.com"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", "admin123"),
		SignInLatency:         getEnvAsDuration("SIGN_IN_LATENCY", time.Second),
		SignUpLatency:         getEnvAsDuration("SIGN_UP_LATENCY", time.Second),
		SignOutLatency:        getEnvAsDuration("SIGN_OUT_LATENCY", 500*time.Millisecond),
		CreateIncidentLatency: getEnvAsDuration("CREATE_INCIDENT_LATENCY", time.Second),
		UpdateIncidentLatency: getEnvAsDuration("UPDATE_INCIDENT_LATENCY", 500*time.Millisecond),
		SignInRate:            getEnv("SIGN_IN_RATE", "10-M"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		for _, key := range strings.Split(apiKeysStr, ",") {
			if key = strings.TrimSpace(key); key != "" {
				cfg.APIKeys = append(cfg.APIKeys, key)
			}
		}
	}

	if cfg.AdminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL must not be empty")
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
