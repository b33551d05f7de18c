package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	Timezone           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CalendarCacheTTL   time.Duration
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaListen        bool
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	IdempotencyTTL     time.Duration
	InventoryFixtures  string
}

// Defaults is the configuration used when nothing is set: in-memory storage, no broker.
func Defaults() Config {
	return Config{
		Env:                "dev",
		HTTPAddr:           ":8080",
		Timezone:           "Asia/Ho_Chi_Minh",
		StorageMode:        StorageMemory,
		MongoDB:            "qbooking",
		CalendarCacheTTL:   5 * time.Minute,
		OutboxPollInterval: 500 * time.Millisecond,
		RetryBackoff:       []time.Duration{time.Second, 5 * time.Second, 30 * time.Second},
		IdempotencyTTL:     24 * time.Hour,
	}
}

// LoadDotEnv reads .env from the working directory when present.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	def := Defaults()
	cfg := Config{
		Env:               getEnv("APP_ENV", def.Env),
		HTTPAddr:          getEnv("HTTP_ADDR", def.HTTPAddr),
		Timezone:          getEnv("APP_TIMEZONE", def.Timezone),
		StorageMode:       strings.ToLower(getEnv("STORAGE_MODE", def.StorageMode)),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", def.MongoDB),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KafkaTopicPrefix:  getEnv("KAFKA_TOPIC_PREFIX", ""),
		InventoryFixtures: os.Getenv("INVENTORY_FIXTURES"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.CalendarCacheTTL, err = parseDurationEnv("CALENDAR_CACHE_TTL", def.CalendarCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", def.OutboxPollInterval); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", def.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.KafkaListen, err = parseBoolEnv("KAFKA_LISTEN", true); err != nil {
		return Config{}, err
	}
	if cfg.RetryBackoff, err = parseDurationList("RETRY_BACKOFF", def.RetryBackoff); err != nil {
		return Config{}, err
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

// ClientConfig configures the terminal front end.
type ClientConfig struct {
	Env        string
	APIURL     string
	APITimeout time.Duration
	Timezone   string
}

func LoadClient() (ClientConfig, error) {
	timeout, err := parseDurationEnv("QBOOKING_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{
		Env:        getEnv("APP_ENV", "dev"),
		APIURL:     getEnv("QBOOKING_API_URL", "http://localhost:8080/api/v1"),
		APITimeout: timeout,
		Timezone:   getEnv("APP_TIMEZONE", Defaults().Timezone),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseDurationList(key string, def []time.Duration) ([]time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return append([]time.Duration(nil), def...), nil
	}
	var out []time.Duration
	for _, part := range strings.Split(raw, ",") {
		val := strings.TrimSpace(part)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s component %q: %w", key, part, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
