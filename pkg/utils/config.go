package utils

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Reservation ReservationConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
	Tracing     TracingConfig
	Metrics     MetricsConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	MaxConns       int32
	MigrateOnStart bool
}

// ReservationConfig bounds the retry loop around serializable transactions.
// MaxAttempts counts the first try.
type ReservationConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	PoolSize       int
	IdempotencyTTL time.Duration
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	Environment  string
}

type MetricsConfig struct {
	Enabled bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "resort-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("RESERVATION_MAX_ATTEMPTS", 3)
	viper.SetDefault("RESERVATION_INITIAL_BACKOFF", "20ms")
	viper.SetDefault("RESERVATION_MAX_BACKOFF", "200ms")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("AMQP_EXCHANGE", "resort.bookings")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("ENV", "dev")
	viper.SetDefault("METRICS_ENABLED", true)

	// .env is optional; plain environment variables are enough in containers
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			Name:           viper.GetString("DB_NAME"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASS"),
			MaxConns:       viper.GetInt32("DB_MAX_CONNS"),
			MigrateOnStart: viper.GetBool("DB_MIGRATE"),
		},
		Reservation: ReservationConfig{
			MaxAttempts:    viper.GetInt("RESERVATION_MAX_ATTEMPTS"),
			InitialBackoff: viper.GetDuration("RESERVATION_INITIAL_BACKOFF"),
			MaxBackoff:     viper.GetDuration("RESERVATION_MAX_BACKOFF"),
		},
		Redis: RedisConfig{
			Addr:           viper.GetString("REDIS_ADDR"),
			Password:       viper.GetString("REDIS_PASSWORD"),
			DB:             viper.GetInt("REDIS_DB"),
			PoolSize:       viper.GetInt("REDIS_POOL_SIZE"),
			IdempotencyTTL: viper.GetDuration("IDEMPOTENCY_TTL"),
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		Tracing: TracingConfig{
			Enabled:      viper.GetBool("TRACING_ENABLED"),
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Environment:  viper.GetString("ENV"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
	}

	return config, nil
}
