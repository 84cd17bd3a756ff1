package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv                 string
	LogLevel               string
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	KafkaHost              string
	KafkaOrderChangedTopic string
	IdempotentTransitions  bool
	LockTimeout            time.Duration
	PendingOrderTTL        time.Duration
	ExpirySchedule         string
}

// LoadConfig reads the configuration from the environment. Unset variables take
// their defaults; malformed numbers, booleans and durations are errors.
func LoadConfig() (Config, error) {
	cfg := Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		DBHost:                 getEnv("DB_HOST", ""),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", ""),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBName:                 getEnv("DB_NAME", ""),
		DBSslMode:              getEnv("DB_SSLMODE", "disable"),
		KafkaHost:              getEnv("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: getEnv("KAFKA_ORDER_CHANGED_TOPIC", "order.status.changed"),
		ExpirySchedule:         getEnv("PENDING_ORDER_EXPIRY_SCHEDULE", "0 * * * * *"),
	}

	var err error
	if cfg.IdempotentTransitions, err = getEnvAsBool("IDEMPOTENT_TRANSITIONS", true); err != nil {
		return Config{}, err
	}
	if cfg.LockTimeout, err = getEnvAsDuration("ORDER_LOCK_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PendingOrderTTL, err = getEnvAsDuration("PENDING_ORDER_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsesDatabase reports whether a PostgreSQL connection is configured. Without one
// the service keeps its data in memory.
func (c Config) UsesDatabase() bool {
	return c.DBHost != ""
}

// UsesKafka reports whether order status events are published.
func (c Config) UsesKafka() bool {
	return strings.TrimSpace(c.KafkaHost) != ""
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSslMode,
	)
}

func (c Config) validate() error {
	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid: %q", c.HTTPPort)
	}
	if c.UsesDatabase() && (c.DBUser == "" || c.DBName == "") {
		return fmt.Errorf("database config is incomplete")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("ORDER_LOCK_TIMEOUT must be positive")
	}
	if c.PendingOrderTTL < 0 {
		return fmt.Errorf("PENDING_ORDER_TTL must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s is not a boolean: %w", key, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s is not a duration: %w", key, err)
	}
	return d, nil
}
