package config

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// OpenPostgres opens the connection pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "certificate") {
			return nil, fmt.Errorf("postgres SSL verification failed: %w", err)
		}
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("Connection to database successfully!", "driver", DriverPostgres, "host", cfg.Host)
	return db, nil
}
