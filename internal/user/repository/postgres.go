package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/user/domain"
)

const (
	sqlGetUserByID = `
		SELECT id, nombre, email, created_at
		FROM   usuarios
		WHERE  id = $1`

	sqlGetUserByEmail = `
		SELECT id, nombre, email, created_at
		FROM   usuarios
		WHERE  email = $1`

	sqlListUsers = `
		SELECT id, nombre, email, created_at
		FROM   usuarios
		ORDER  BY id`

	sqlInsertUser = `
		INSERT INTO usuarios (nombre, email)
		VALUES ($1, $2)
		RETURNING id, created_at`

	sqlDeleteUser = `
		DELETE FROM usuarios WHERE id = $1`
)

// PostgresRepository is the Postgres-backed user repository.
type PostgresRepository struct{}

// NewPostgres returns a user repository over the usuarios table.
func NewPostgres() *PostgresRepository {
	return &PostgresRepository{}
}

var _ Repository = (*PostgresRepository)(nil)

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, q db.Querier, id int64) (*domain.User, error) {
	var u domain.User
	if err := sqlx.GetContext(ctx, q, &u, sqlGetUserByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, q db.Querier, email string) (*domain.User, error) {
	var u domain.User
	if err := sqlx.GetContext(ctx, q, &u, sqlGetUserByEmail, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by id.
func (r *PostgresRepository) List(ctx context.Context, q db.Querier) ([]*domain.User, error) {
	users := []*domain.User{}
	if err := sqlx.SelectContext(ctx, q, &users, sqlListUsers); err != nil {
		return nil, err
	}
	return users, nil
}

// Create persists the user and fills in the database-assigned ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, q db.Querier, u *domain.User) error {
	return q.QueryRowxContext(ctx, sqlInsertUser, u.Name, u.Email).Scan(&u.ID, &u.CreatedAt)
}

// Delete removes the user by id. Returns false when no row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, q db.Querier, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, sqlDeleteUser, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
