// Package postgres serves a gazetteer from PostgreSQL. Street ranking runs in
// SQL using the fuzzystrmatch and pg_trgm extensions.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
)

// DSN returns url when set, otherwise a libpq connection string built from
// the standard PG* environment variables.
func DSN(url string) string {
	if url != "" {
		return url
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnvOrDefault("PGHOST", "localhost"),
		getEnvOrDefault("PGPORT", "5432"),
		getEnvOrDefault("PGUSER", "postgres"),
		getEnvOrDefault("PGPASSWORD", ""),
		getEnvOrDefault("PGDATABASE", "gnaf"),
		getEnvOrDefault("PGSSLMODE", "disable"),
	)
}

// connect opens and pings a single-connection pool.
func connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: open")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
