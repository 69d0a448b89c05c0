package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rl1809/item-inventory/internal/adapter/storage"
)

const ServiceName = "item-inventory"

type Config struct {
	HTTPAddr       string
	GRPCAddr       string
	DBDriver       string
	DBDSN          string
	RedisAddr      string
	KafkaBrokers   []string
	PublishWorkers int
	EventQueueSize int
	LogLevel       string
	LogDevelopment bool
}

// Load reads the configuration from the environment, falling back to local defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		GRPCAddr:     env("GRPC_ADDR", ":50051"),
		DBDriver:     env("DB_DRIVER", storage.DialectMySQL),
		DBDSN:        os.Getenv("DB_DSN"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: splitList(env("KAFKA_BROKERS", "localhost:9092")),
		LogLevel:     env("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.PublishWorkers, err = envInt("PUBLISH_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.EventQueueSize, err = envInt("EVENT_QUEUE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.LogDevelopment, err = envBool("LOG_DEVELOPMENT", false); err != nil {
		return nil, err
	}

	if cfg.DBDSN == "" {
		switch cfg.DBDriver {
		case storage.DialectMySQL:
			cfg.DBDSN = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
		case storage.DialectSQLite:
			cfg.DBDSN = "inventory.sqlite3"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDriver != storage.DialectMySQL && c.DBDriver != storage.DialectSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", storage.DialectMySQL, storage.DialectSQLite, c.DBDriver)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must list at least one broker")
	}
	if c.PublishWorkers < 1 {
		return fmt.Errorf("PUBLISH_WORKERS must be positive, got %d", c.PublishWorkers)
	}
	if c.EventQueueSize < 1 {
		return fmt.Errorf("EVENT_QUEUE_SIZE must be positive, got %d", c.EventQueueSize)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
