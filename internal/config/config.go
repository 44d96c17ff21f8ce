// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"user-service/pkg/db"
)

// DriverMemory selects the in-process store instead of a SQL database.
const DriverMemory = "memory"

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort            string
	LogLevel              string
	DB                    db.Config
	SeedFixtures          bool
	MaxConcurrentRequests int
	RequestBacklog        int
	BacklogTimeout        time.Duration
	TaskPoolSize          int
	NotifyDelay           time.Duration
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	dbPort, err := intEnv("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	seed, err := boolEnv("SEED_FIXTURES", false)
	if err != nil {
		return nil, err
	}
	maxRequests, err := intEnv("MAX_CONCURRENT_REQUESTS", 200)
	if err != nil {
		return nil, err
	}
	backlog, err := intEnv("REQUEST_BACKLOG", 1000)
	if err != nil {
		return nil, err
	}
	backlogTimeout, err := durationEnv("REQUEST_BACKLOG_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	taskPool, err := intEnv("TASK_POOL_SIZE", 200)
	if err != nil {
		return nil, err
	}
	notifyDelay, err := durationEnv("NOTIFY_DELAY", 3*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		ServerPort: stringEnv("SERVER_PORT", "8080"),
		LogLevel:   stringEnv("LOG_LEVEL", "info"),
		DB: db.Config{
			Driver:     stringEnv("DB_DRIVER", db.DriverPostgres),
			Host:       stringEnv("DB_HOST", "localhost"),
			Port:       dbPort,
			User:       stringEnv("DB_USER", "user"),
			Password:   stringEnv("DB_PASSWORD", "password"),
			DBName:     stringEnv("DB_NAME", "userdb"),
			SSLMode:    stringEnv("DB_SSLMODE", "disable"),
			SQLitePath: stringEnv("SQLITE_PATH", "user-service.db"),
		},
		SeedFixtures:          seed,
		MaxConcurrentRequests: maxRequests,
		RequestBacklog:        backlog,
		BacklogTimeout:        backlogTimeout,
		TaskPoolSize:          taskPool,
		NotifyDelay:           notifyDelay,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that can also be set from command-line flags.
func (c *AppConfig) Validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want %s, %s or %s", c.DB.Driver, db.DriverPostgres, db.DriverSQLite, DriverMemory)
	}
	if c.MaxConcurrentRequests < 1 {
		return fmt.Errorf("invalid MAX_CONCURRENT_REQUESTS: %d", c.MaxConcurrentRequests)
	}
	if c.RequestBacklog < 0 {
		return fmt.Errorf("invalid REQUEST_BACKLOG: %d", c.RequestBacklog)
	}
	if c.TaskPoolSize < 1 {
		return fmt.Errorf("invalid TASK_POOL_SIZE: %d", c.TaskPoolSize)
	}
	if c.NotifyDelay < 0 {
		return fmt.Errorf("invalid NOTIFY_DELAY: %s", c.NotifyDelay)
	}
	return nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
