package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const minJWTSecretLength = 32

type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	CartBackend   CartBackendConfig
	CartRetention time.Duration
	Sessions      SessionConfig
	Kafka         KafkaConfig
	DatabaseURL   string // empty means checkout history is kept in memory
	JWTSecret     string
}

// CartBackendConfig points at the remote service owning the store carts
type CartBackendConfig struct {
	URL     string        // CART_BACKEND_URL, e.g. http://cart-backend:8081
	Timeout time.Duration // CART_BACKEND_TIMEOUT
}

// SessionConfig bounds how long an idle cart engine stays in memory
type SessionConfig struct {
	IdleTimeout   time.Duration // CART_SESSION_IDLE
	SweepInterval time.Duration // CART_SESSION_SWEEP
}

type KafkaConfig struct {
	Brokers       []string
	CheckoutTopic string
	ConsumerGroup string
}

// Load reads the storefront API configuration from the environment and an
// optional .env file.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProjector reads the configuration of the checkout projector, which
// needs Kafka and the database but neither the session secret nor the cart
// backend.
func LoadProjector() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CART_BACKEND_TIMEOUT", "10s")
	v.SetDefault("CART_RETENTION", "720h")
	v.SetDefault("CART_SESSION_IDLE", "30m")
	v.SetDefault("CART_SESSION_SWEEP", "1m")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CHECKOUT_TOPIC", "cart-checkouts")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "checkout-projector")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(getEnvOrViper(v, "CART_BACKEND_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_BACKEND_TIMEOUT: %w", err)
	}
	retention, err := time.ParseDuration(getEnvOrViper(v, "CART_RETENTION"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_RETENTION: %w", err)
	}

	idle, err := time.ParseDuration(getEnvOrViper(v, "CART_SESSION_IDLE"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_SESSION_IDLE: %w", err)
	}
	sweep, err := time.ParseDuration(getEnvOrViper(v, "CART_SESSION_SWEEP"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_SESSION_SWEEP: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper(v, "PORT"),
		Environment: getEnvOrViper(v, "ENVIRONMENT"),
		LogLevel:    getEnvOrViper(v, "LOG_LEVEL"),
		CartBackend: CartBackendConfig{
			URL:     strings.TrimSpace(getEnvOrViper(v, "CART_BACKEND_URL")),
			Timeout: timeout,
		},
		CartRetention: retention,
		Sessions: SessionConfig{
			IdleTimeout:   idle,
			SweepInterval: sweep,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnvOrViper(v, "KAFKA_BROKERS")),
			CheckoutTopic: getEnvOrViper(v, "KAFKA_CHECKOUT_TOPIC"),
			ConsumerGroup: getEnvOrViper(v, "KAFKA_CONSUMER_GROUP"),
		},
		DatabaseURL: strings.TrimSpace(getEnvOrViper(v, "DATABASE_URL")),
		JWTSecret:   getEnvOrViper(v, "JWT_SECRET"),
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minJWTSecretLength)
	}
	if c.CartBackend.URL == "" {
		return fmt.Errorf("CART_BACKEND_URL is required")
	}
	if c.CartBackend.Timeout <= 0 {
		return fmt.Errorf("CART_BACKEND_TIMEOUT must be positive")
	}
	if c.CartRetention <= 0 {
		return fmt.Errorf("CART_RETENTION must be positive")
	}
	if c.Sessions.IdleTimeout <= 0 || c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("CART_SESSION_IDLE and CART_SESSION_SWEEP must be positive")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the process logger: JSON in production, console otherwise.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

func getEnvOrViper(v *viper.Viper, key string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return v.GetString(key)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
