package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string

	StoreDriver string
	CORSOrigin  string

	Mongo     MongoConfig
	DB        DBConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host          string
	Port          string
	RedisPassword string
	RedisDB       string
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

// Enabled reports whether a RabbitMQ broker is configured.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type RateLimitConfig struct {
	Capacity   int
	RefillRate float64
}

type WorkerConfig struct {
	Count       int
	MetricsPort string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set in the environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	return &Config{
		AppName:  getEnv("APP_NAME", "exercise-tracker"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: getEnv("STORE_DRIVER", StoreMongo),
		CORSOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "*"),

		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", "exercise_tracker"),
		},

		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:          os.Getenv("REDIS_HOST"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnv("REDIS_DB", "0"),
		},

		RabbitMQ: RabbitMQConfig{
			URL:   os.Getenv("RABBITMQ_URL"),
			Queue: getEnv("RABBITMQ_QUEUE", "exercise_events"),
		},

		RateLimit: RateLimitConfig{
			Capacity:   getEnvInt("RATE_LIMIT_CAPACITY", 20),
			RefillRate: getEnvFloat("RATE_LIMIT_REFILL_RATE", 10.0),
		},

		Worker: WorkerConfig{
			Count:       getEnvInt("WORKER_COUNT", 3),
			MetricsPort: getEnv("WORKER_METRICS_PORT", "8088"),
		},
	}
}

// Validate checks that the selected store driver has what it needs to connect.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", StoreMongo)
		}
	case StorePostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required when STORE_DRIVER=%s", StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.RateLimit.Capacity < 1 || c.RateLimit.RefillRate <= 0 {
		return fmt.Errorf("rate limit capacity and refill rate must be positive")
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using default %d", v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid number %q, using default %g", v, fallback)
		return fallback
	}
	return f
}
