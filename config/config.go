package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Shared secret that MCP callers present as a bearer token.
	APIKey string `mapstructure:"API_KEY"`

	// Bot webhook endpoint and the secret we present to it.
	BotAPIURL     string `mapstructure:"BOT_API_URL"`
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`

	// Optional backend endpoint that accepted replies are forwarded to.
	BackendCallbackURL string `mapstructure:"BACKEND_CALLBACK_URL"`

	// Delivery pipeline tuning.
	DispatchIntervalSec  int `mapstructure:"DISPATCH_INTERVAL_SEC"`
	SendDelayMS          int `mapstructure:"SEND_DELAY_MS"`
	MaxNotificationRetry int `mapstructure:"MAX_NOTIFICATION_RETRY"`
	SendTimeoutSec       int `mapstructure:"SEND_TIMEOUT_SEC"`
	HealthTimeoutSec     int `mapstructure:"HEALTH_TIMEOUT_SEC"`

	// Correlation table backend: "memory" or "redis".
	CorrelationBackend  string `mapstructure:"CORRELATION_BACKEND"`
	CorrelationTTLHours int    `mapstructure:"CORRELATION_TTL_HOURS"`

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCorrelationDB int    `mapstructure:"REDIS_CORRELATION_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "notifyrelay")
	viper.SetDefault("DISPATCH_INTERVAL_SEC", 10)
	viper.SetDefault("SEND_DELAY_MS", 1000)
	viper.SetDefault("MAX_NOTIFICATION_RETRY", 3)
	viper.SetDefault("SEND_TIMEOUT_SEC", 30)
	viper.SetDefault("HEALTH_TIMEOUT_SEC", 10)
	viper.SetDefault("BACKEND_CALLBACK_URL", "")
	viper.SetDefault("CORRELATION_BACKEND", "memory")
	viper.SetDefault("CORRELATION_TTL_HOURS", 72)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CORRELATION_DB", 1)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The gateway cannot authenticate callers and the pipeline has nowhere to
	// deliver without these.
	if AppConfig.APIKey == "" {
		log.Fatal("API_KEY is required")
	}
	if AppConfig.WebhookSecret == "" {
		log.Fatal("WEBHOOK_SECRET is required")
	}
	if AppConfig.BotAPIURL == "" {
		log.Fatal("BOT_API_URL is required")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// DispatchInterval returns how often the delivery pipeline wakes up.
func DispatchInterval() time.Duration {
	return time.Duration(AppConfig.DispatchIntervalSec) * time.Second
}

// SendDelay is the enforced pause between consecutive sends within a cycle.
func SendDelay() time.Duration {
	return time.Duration(AppConfig.SendDelayMS) * time.Millisecond
}

// SendTimeout bounds a single notifier send.
func SendTimeout() time.Duration {
	return time.Duration(AppConfig.SendTimeoutSec) * time.Second
}

// HealthTimeout bounds a single health probe.
func HealthTimeout() time.Duration {
	return time.Duration(AppConfig.HealthTimeoutSec) * time.Second
}

// CorrelationTTL is how long an unanswered question keeps its reply mapping.
func CorrelationTTL() time.Duration {
	return time.Duration(AppConfig.CorrelationTTLHours) * time.Hour
}
