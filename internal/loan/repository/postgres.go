package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/loan/domain"
)

const (
	sqlGetLoanForUpdate = `
		SELECT id, usuario_id, libro_id, fecha_prestamo, fecha_devolucion, activo
		FROM   prestamos
		WHERE  id = $1
		FOR UPDATE`

	sqlGetLoanDetail = `
		SELECT p.id, p.usuario_id, p.libro_id, p.fecha_prestamo, p.fecha_devolucion, p.activo,
		       u.nombre AS usuario_nombre, l.titulo AS libro_titulo
		FROM   prestamos p
		JOIN   usuarios u ON u.id = p.usuario_id
		JOIN   libros   l ON l.id = p.libro_id
		WHERE  p.id = $1`

	sqlListLoans = `
		SELECT p.id, p.usuario_id, p.libro_id, p.fecha_prestamo, p.fecha_devolucion, p.activo,
		       u.nombre AS usuario_nombre, l.titulo AS libro_titulo
		FROM   prestamos p
		JOIN   usuarios u ON u.id = p.usuario_id
		JOIN   libros   l ON l.id = p.libro_id
		ORDER  BY p.id`

	sqlInsertLoan = `
		INSERT INTO prestamos (usuario_id, libro_id)
		VALUES ($1, $2)
		RETURNING id, fecha_prestamo, activo`

	sqlCloseLoan = `
		UPDATE prestamos
		SET    activo = FALSE, fecha_devolucion = $2
		WHERE  id = $1`

	sqlHasActiveLoanByUser = `
		SELECT EXISTS (SELECT 1 FROM prestamos WHERE usuario_id = $1 AND activo)`

	sqlHasActiveLoanByBook = `
		SELECT EXISTS (SELECT 1 FROM prestamos WHERE libro_id = $1 AND activo)`
)

// PostgresRepository is the Postgres-backed loan repository.
type PostgresRepository struct{}

// NewPostgres returns a loan repository over the prestamos table.
func NewPostgres() *PostgresRepository {
	return &PostgresRepository{}
}

var _ Repository = (*PostgresRepository)(nil)

// GetByIDForUpdate returns the loan for id, locking its row until the
// surrounding transaction ends. Returns nil if not found.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*domain.Loan, error) {
	var l domain.Loan
	if err := sqlx.GetContext(ctx, q, &l, sqlGetLoanForUpdate, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// GetDetail returns the loan joined with the borrower's name and the book's
// title, or nil if not found.
func (r *PostgresRepository) GetDetail(ctx context.Context, q db.Querier, id int64) (*domain.Detail, error) {
	var d domain.Detail
	if err := sqlx.GetContext(ctx, q, &d, sqlGetLoanDetail, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// List returns all loans, denormalized, ordered by id.
func (r *PostgresRepository) List(ctx context.Context, q db.Querier) ([]*domain.Detail, error) {
	loans := []*domain.Detail{}
	if err := sqlx.SelectContext(ctx, q, &loans, sqlListLoans); err != nil {
		return nil, err
	}
	return loans, nil
}

// Create persists the loan and fills in the database-assigned ID, the loan
// timestamp and the initial active flag.
func (r *PostgresRepository) Create(ctx context.Context, q db.Querier, l *domain.Loan) error {
	return q.QueryRowxContext(ctx, sqlInsertLoan, l.UserID, l.BookID).
		Scan(&l.ID, &l.LoanedAt, &l.Active)
}

// Close marks the loan returned at the given time.
func (r *PostgresRepository) Close(ctx context.Context, q db.Querier, id int64, returnedAt time.Time) error {
	_, err := q.ExecContext(ctx, sqlCloseLoan, id, returnedAt)
	return err
}

// HasActiveByUser reports whether the user has an outstanding loan.
func (r *PostgresRepository) HasActiveByUser(ctx context.Context, q db.Querier, userID int64) (bool, error) {
	return exists(ctx, q, sqlHasActiveLoanByUser, userID)
}

// HasActiveByBook reports whether the book is out on an active loan.
func (r *PostgresRepository) HasActiveByBook(ctx context.Context, q db.Querier, bookID int64) (bool, error) {
	return exists(ctx, q, sqlHasActiveLoanByBook, bookID)
}

func exists(ctx context.Context, q db.Querier, query string, arg any) (bool, error) {
	var found bool
	if err := sqlx.GetContext(ctx, q, &found, query, arg); err != nil {
		return false, err
	}
	return found, nil
}
