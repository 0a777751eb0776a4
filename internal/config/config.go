// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the knobs for the HTTP server, the backing stores and the
// decrement protocol.
type Config struct {
	HTTPAddr         string
	RedisAddr        string
	MySQLDSN         string
	WorkerCount      int
	QueueSize        int
	MaxAttempts      int
	BaseBackoff      time.Duration
	DecrementTimeout time.Duration
	ShutdownTimeout  time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

// Load collects configuration from the environment with defaults, reading a
// .env file first if one exists.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		MySQLDSN:         getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true"),
		WorkerCount:      atoienv("WORKER_COUNT", 4),
		QueueSize:        atoienv("QUEUE_SIZE", 1024),
		MaxAttempts:      atoienv("MAX_ATTEMPTS", 5),
		BaseBackoff:      durenvms("BASE_BACKOFF_MS", 25),
		DecrementTimeout: durenvms("DECREMENT_TIMEOUT_MS", 3000),
		ShutdownTimeout:  durenvms("SHUTDOWN_TIMEOUT_MS", 5000),
	}
}
