package database

import (
	"os"
	"strconv"
	"time"
)

// PoolConfig holds database connection pool configuration shared by the
// gorm and pgx layers.
type PoolConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string

	MaxOpenConns    int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// GetPoolConfigFromEnv reads pool configuration from environment variables,
// falling back to defaults:
//
// - DB_MAX_OPEN_CONNS: maximum open connections (default: 25)
// - DB_MIN_CONNS: minimum idle connections (default: 5)
// - DB_CONN_MAX_LIFETIME: maximum connection lifetime, e.g. "5m"
// - DB_CONN_MAX_IDLE_TIME: maximum idle time before closing, e.g. "1m"
func GetPoolConfigFromEnv() PoolConfig {
	cfg := PoolConfig{
		MaxOpenConns:    25,
		ConnMaxLifetime: 4 * time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
		MinConns:        5,

		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DB"),
	}

	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil && val > 0 {
			cfg.MaxOpenConns = int32(val)
		}
	}

	if minConns := os.Getenv("DB_MIN_CONNS"); minConns != "" {
		if val, err := strconv.Atoi(minConns); err == nil && val >= 0 {
			cfg.MinConns = int32(val)
		}
	}

	if lifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); lifetime != "" {
		if val, err := time.ParseDuration(lifetime); err == nil {
			cfg.ConnMaxLifetime = val
		}
	}

	if idleTime := os.Getenv("DB_CONN_MAX_IDLE_TIME"); idleTime != "" {
		if val, err := time.ParseDuration(idleTime); err == nil {
			cfg.ConnMaxIdleTime = val
		}
	}

	return cfg
}
