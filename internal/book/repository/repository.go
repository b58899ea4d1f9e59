package repository

import (
	"context"

	"github.com/juanessaavedra/biblioteca-api/internal/book/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
)

// Repository defines persistence for books. Methods take the Querier to run
// against, so the same repository works on the pool and inside a transaction.
type Repository interface {
	GetByID(ctx context.Context, q db.Querier, id int64) (*domain.Book, error)
	// GetByIDForUpdate locks the book row for the rest of the transaction.
	// The loan service uses it to serialize availability checks per book.
	GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*domain.Book, error)
	GetByISBN(ctx context.Context, q db.Querier, isbn string) (*domain.Book, error)
	List(ctx context.Context, q db.Querier) ([]*domain.Book, error)
	ListAvailable(ctx context.Context, q db.Querier) ([]*domain.Book, error)
	Create(ctx context.Context, q db.Querier, b *domain.Book) error
	Update(ctx context.Context, q db.Querier, id int64, params domain.UpdateParams) (*domain.Book, error)
	SetAvailability(ctx context.Context, q db.Querier, id int64, available bool) error
	Delete(ctx context.Context, q db.Querier, id int64) (bool, error)
}
