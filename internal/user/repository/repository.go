package repository

import (
	"context"

	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/user/domain"
)

// Repository defines persistence for users. Methods take the Querier to run
// against, so the same repository works on the pool and inside a transaction.
type Repository interface {
	GetByID(ctx context.Context, q db.Querier, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, q db.Querier, email string) (*domain.User, error)
	List(ctx context.Context, q db.Querier) ([]*domain.User, error)
	Create(ctx context.Context, q db.Querier, u *domain.User) error
	Delete(ctx context.Context, q db.Querier, id int64) (bool, error)
}
