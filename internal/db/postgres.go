package db

import (
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a Postgres connection pool using the given DSN. Caller must call Close when done.
func Open(dsn string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}
