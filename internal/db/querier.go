package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Querier is the query surface repositories run against. Both *sqlx.DB and
// *sqlx.Tx satisfy it, so the same repository method works on the pool and
// inside a transaction.
type Querier interface {
	sqlx.ExtContext
}

// WithinTx runs fn inside a transaction on pool. The transaction is rolled
// back when fn returns an error or panics, and committed otherwise.
func WithinTx(ctx context.Context, pool *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := pool.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Postgres error codes, per the SQLSTATE standard.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Used as the backstop behind check-then-insert validation.
func IsUniqueViolation(err error) bool {
	return pgErrCode(err) == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign-key
// violation, e.g. deleting a row still referenced by a loan.
func IsForeignKeyViolation(err error) bool {
	return pgErrCode(err) == codeForeignKeyViolation
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
