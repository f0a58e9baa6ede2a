package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort    string `mapstructure:"APP_PORT"`
	Env        string `mapstructure:"ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	SiteOrigin string `mapstructure:"SITE_ORIGIN"`

	// Visitor sessions.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	SessionTTLMin int    `mapstructure:"SESSION_TTL_MIN"`

	// Provider adapter selection.
	ProviderVariant   string `mapstructure:"PROVIDER_VARIANT"` // "memory" or "rest"
	ProviderBaseURL   string `mapstructure:"PROVIDER_BASE_URL"`
	ProviderAPIKey    string `mapstructure:"PROVIDER_API_KEY"`
	ProviderTimeoutMS int    `mapstructure:"PROVIDER_TIMEOUT_MS"`

	// Booking rules.
	BookingHorizonDays int `mapstructure:"BOOKING_HORIZON_DAYS"`

	// Rate limiting. Creation and cancellation carry separate policies
	// because cancellation abuse has a different blast radius.
	MaxRequestsPerMin   int `mapstructure:"MAX_REQUESTS_PER_MIN"`
	RateCreateWindowSec int `mapstructure:"RATE_CREATE_WINDOW_SEC"`
	RateCreateMax       int `mapstructure:"RATE_CREATE_MAX"`
	RateCancelWindowSec int `mapstructure:"RATE_CANCEL_WINDOW_SEC"`
	RateCancelMax       int `mapstructure:"RATE_CANCEL_MAX"`

	// Alerting thresholds.
	AlertErrorRate           float64 `mapstructure:"ALERT_ERROR_RATE"`
	AlertAvgDurationMS       float64 `mapstructure:"ALERT_AVG_DURATION_MS"`
	AlertConsecutiveFailures int     `mapstructure:"ALERT_CONSECUTIVE_FAILURES"`
	AlertCooldownMin         int     `mapstructure:"ALERT_COOLDOWN_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisRateDB   int    `mapstructure:"REDIS_RATE_DB"`

	// Mongo tour catalog.
	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	// Stripe key for refund processing; refunds are logged-only when empty.
	StripeKey string `mapstructure:"STRIPE_KEY"`
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
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SITE_ORIGIN", "http://localhost:3000")
	viper.SetDefault("SESSION_SECRET", "dev-only-session-secret")
	viper.SetDefault("SESSION_TTL_MIN", 120)
	viper.SetDefault("PROVIDER_VARIANT", "memory")
	viper.SetDefault("PROVIDER_BASE_URL", "")
	viper.SetDefault("PROVIDER_API_KEY", "")
	viper.SetDefault("PROVIDER_TIMEOUT_MS", 5000)
	viper.SetDefault("BOOKING_HORIZON_DAYS", 30)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("RATE_CREATE_WINDOW_SEC", 60)
	viper.SetDefault("RATE_CREATE_MAX", 10)
	viper.SetDefault("RATE_CANCEL_WINDOW_SEC", 600)
	viper.SetDefault("RATE_CANCEL_MAX", 3)
	viper.SetDefault("ALERT_ERROR_RATE", 0.5)
	viper.SetDefault("ALERT_AVG_DURATION_MS", 2000)
	viper.SetDefault("ALERT_CONSECUTIVE_FAILURES", 5)
	viper.SetDefault("ALERT_COOLDOWN_MIN", 15)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_RATE_DB", 1)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "tourbook")
	viper.SetDefault("STRIPE_KEY", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
