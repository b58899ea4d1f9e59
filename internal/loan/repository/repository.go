package repository

import (
	"context"
	"time"

	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/loan/domain"
)

// Repository defines persistence for loans. Methods take the Querier to run
// against; the loan service passes one transaction through every call of a
// create or return so the loan and book writes commit together.
type Repository interface {
	// GetByIDForUpdate locks the loan row for the rest of the transaction,
	// serializing concurrent returns of the same loan.
	GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*domain.Loan, error)
	// GetDetail returns the loan joined with the user's name and book's title,
	// or nil if not found.
	GetDetail(ctx context.Context, q db.Querier, id int64) (*domain.Detail, error)
	List(ctx context.Context, q db.Querier) ([]*domain.Detail, error)
	Create(ctx context.Context, q db.Querier, l *domain.Loan) error
	// Close marks the loan returned at the given time.
	Close(ctx context.Context, q db.Querier, id int64, returnedAt time.Time) error
	HasActiveByUser(ctx context.Context, q db.Querier, userID int64) (bool, error)
	HasActiveByBook(ctx context.Context, q db.Querier, bookID int64) (bool, error)
}
