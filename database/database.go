package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clusterlens/clusterlens/database/models"
)

// getDSN builds a PostgreSQL connection string from parameters
func getDSN(host, user, password, dbname, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

func NewPgxConnPool(cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(getDSN(cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("could not parse pgx pool config: %w", err)
	}
	config.MaxConnIdleTime = cfg.ConnMaxIdleTime
	config.MaxConnLifetime = cfg.ConnMaxLifetime
	config.MaxConns = cfg.MaxOpenConns
	config.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}

	slog.Info("database connection pool configured",
		"maxOpenConns", cfg.MaxOpenConns,
		"connMaxLifetime", cfg.ConnMaxLifetime,
		"connMaxIdleTime", cfg.ConnMaxIdleTime,
	)

	return pool, nil
}

// NewGormDB creates a GORM instance on top of an existing *pgxpool.Pool.
func NewGormDB(existingPool *pgxpool.Pool) (*gorm.DB, error) {
	db := stdlib.OpenDBFromPool(existingPool)
	return gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default,
	})
}

// NewConnection opens a gorm connection with a pgx-backed pool configured
// from the environment and migrates the reporting schema.
func NewConnection(host, user, password, dbname, port string) (*gorm.DB, error) {
	cfg := GetPoolConfigFromEnv()
	cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port = host, user, password, dbname, port

	pool, err := NewPgxConnPool(cfg)
	if err != nil {
		return nil, err
	}

	db, err := NewGormDB(pool)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Cluster{},
		&models.Image{},
		&models.ImageScanResult{},
		&models.ImageScanResultIssue{},
		&models.KubernetesImage{},
		&models.HistoryKubernetesImage{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
