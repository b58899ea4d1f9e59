package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/juanessaavedra/biblioteca-api/internal/book/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
)

const (
	sqlGetBookByID = `
		SELECT id, titulo, autor, isbn, disponible, created_at
		FROM   libros
		WHERE  id = $1`

	sqlGetBookByIDForUpdate = `
		SELECT id, titulo, autor, isbn, disponible, created_at
		FROM   libros
		WHERE  id = $1
		FOR UPDATE`

	sqlGetBookByISBN = `
		SELECT id, titulo, autor, isbn, disponible, created_at
		FROM   libros
		WHERE  isbn = $1`

	sqlListBooks = `
		SELECT id, titulo, autor, isbn, disponible, created_at
		FROM   libros
		ORDER  BY id`

	sqlListAvailableBooks = `
		SELECT id, titulo, autor, isbn, disponible, created_at
		FROM   libros
		WHERE  disponible
		ORDER  BY id`

	sqlInsertBook = `
		INSERT INTO libros (titulo, autor, isbn)
		VALUES ($1, $2, $3)
		RETURNING id, disponible, created_at`

	sqlSetBookAvailability = `
		UPDATE libros SET disponible = $2 WHERE id = $1`

	sqlDeleteBook = `
		DELETE FROM libros WHERE id = $1`
)

// PostgresRepository is the Postgres-backed book repository.
type PostgresRepository struct{}

// NewPostgres returns a book repository over the libros table.
func NewPostgres() *PostgresRepository {
	return &PostgresRepository{}
}

var _ Repository = (*PostgresRepository)(nil)

// GetByID returns the book for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, q db.Querier, id int64) (*domain.Book, error) {
	return getBook(ctx, q, sqlGetBookByID, id)
}

// GetByIDForUpdate returns the book for id, locking its row until the
// surrounding transaction ends. Returns nil if not found.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*domain.Book, error) {
	return getBook(ctx, q, sqlGetBookByIDForUpdate, id)
}

// GetByISBN returns the book with the given ISBN, or nil if not found.
func (r *PostgresRepository) GetByISBN(ctx context.Context, q db.Querier, isbn string) (*domain.Book, error) {
	return getBook(ctx, q, sqlGetBookByISBN, isbn)
}

// List returns all books ordered by id.
func (r *PostgresRepository) List(ctx context.Context, q db.Querier) ([]*domain.Book, error) {
	books := []*domain.Book{}
	if err := sqlx.SelectContext(ctx, q, &books, sqlListBooks); err != nil {
		return nil, err
	}
	return books, nil
}

// ListAvailable returns the books currently marked available, ordered by id.
func (r *PostgresRepository) ListAvailable(ctx context.Context, q db.Querier) ([]*domain.Book, error) {
	books := []*domain.Book{}
	if err := sqlx.SelectContext(ctx, q, &books, sqlListAvailableBooks); err != nil {
		return nil, err
	}
	return books, nil
}

// Create persists the book and fills in the database-assigned ID, the default
// availability and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, q db.Querier, b *domain.Book) error {
	return q.QueryRowxContext(ctx, sqlInsertBook, b.Title, b.Author, b.ISBN).
		Scan(&b.ID, &b.Available, &b.CreatedAt)
}

// Update applies a partial update and returns the resulting book, or nil if
// the book does not exist. Nil params fields are left unchanged; the SQL is
// built from the present fields only.
func (r *PostgresRepository) Update(ctx context.Context, q db.Querier, id int64, params domain.UpdateParams) (*domain.Book, error) {
	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	argIdx := 1

	if params.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("titulo = $%d", argIdx))
		args = append(args, *params.Title)
		argIdx++
	}
	if params.Author != nil {
		setClauses = append(setClauses, fmt.Sprintf("autor = $%d", argIdx))
		args = append(args, *params.Author)
		argIdx++
	}
	if params.Available != nil {
		setClauses = append(setClauses, fmt.Sprintf("disponible = $%d", argIdx))
		args = append(args, *params.Available)
		argIdx++
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, q, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE libros
		SET    %s
		WHERE  id = $%d
		RETURNING id, titulo, autor, isbn, disponible, created_at`,
		strings.Join(setClauses, ", "), argIdx)

	var b domain.Book
	if err := q.QueryRowxContext(ctx, query, args...).StructScan(&b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// SetAvailability flips the book's availability flag.
func (r *PostgresRepository) SetAvailability(ctx context.Context, q db.Querier, id int64, available bool) error {
	_, err := q.ExecContext(ctx, sqlSetBookAvailability, id, available)
	return err
}

// Delete removes the book by id. Returns false when no row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, q db.Querier, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, sqlDeleteBook, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func getBook(ctx context.Context, q db.Querier, query string, arg any) (*domain.Book, error) {
	var b domain.Book
	if err := sqlx.GetContext(ctx, q, &b, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
