package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings resolved from the environment
type Config struct {
	Port            string
	ScanDelay       time.Duration
	SessionTTL      time.Duration
	JanitorSchedule string
	MaxUploadBytes  int64

	// Redis is optional; an empty address keeps sessions in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka is optional; no brokers disables event publishing
	KafkaBrokers []string
	KafkaTopic   string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:            DefaultPort,
		ScanDelay:       ScanDelay,
		SessionTTL:      SessionTTL,
		JanitorSchedule: JanitorSchedule,
		MaxUploadBytes:  MaxUploadMB << 20,
		KafkaTopic:      DefaultKafkaTopic,
	}
}

// Load reads .env if present (non-fatal if missing) and overlays environment variables on the defaults.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		cfg.Port = v
	}

	if v := strings.TrimSpace(getenv("SCAN_DELAY")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid SCAN_DELAY %q", v)
		}
		cfg.ScanDelay = d
	}

	if v := strings.TrimSpace(getenv("SESSION_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid SESSION_TTL %q", v)
		}
		cfg.SessionTTL = d
	}

	if v := strings.TrimSpace(getenv("JANITOR_SCHEDULE")); v != "" {
		cfg.JanitorSchedule = v
	}

	if v := strings.TrimSpace(getenv("MAX_UPLOAD_MB")); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil || mb <= 0 {
			return cfg, fmt.Errorf("invalid MAX_UPLOAD_MB %q", v)
		}
		cfg.MaxUploadBytes = int64(mb) << 20
	}

	cfg.RedisAddr = strings.TrimSpace(getenv("REDIS_ADDR"))
	cfg.RedisPassword = getenv("REDIS_PASS")
	if v := strings.TrimSpace(getenv("REDIS_DB")); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return cfg, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.RedisDB = db
	}

	if v := strings.TrimSpace(getenv("KAFKA_BROKERS")); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	if v := strings.TrimSpace(getenv("KAFKA_TOPIC")); v != "" {
		cfg.KafkaTopic = v
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}
