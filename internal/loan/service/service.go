// Package service implements the loan lifecycle: checking out a book and
// returning it. These are the only operations that touch two tables, so both
// run inside a single transaction with the book (or loan) row locked for the
// availability check.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	bookdomain "github.com/juanessaavedra/biblioteca-api/internal/book/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
	loandomain "github.com/juanessaavedra/biblioteca-api/internal/loan/domain"
	userdomain "github.com/juanessaavedra/biblioteca-api/internal/user/domain"
)

// Sentinel errors for the loan service; the handler maps them to HTTP
// statuses and wire messages.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrBookUnavailable = errors.New("book not available")
	ErrAlreadyReturned = errors.New("loan already returned")
)

// UserRepo is the minimal user repository needed by the loan service.
type UserRepo interface {
	GetByID(ctx context.Context, q db.Querier, id int64) (*userdomain.User, error)
}

// BookRepo is the minimal book repository needed by the loan service.
type BookRepo interface {
	GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*bookdomain.Book, error)
	SetAvailability(ctx context.Context, q db.Querier, id int64, available bool) error
}

// LoanRepo is the minimal loan repository needed by the loan service.
type LoanRepo interface {
	GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*loandomain.Loan, error)
	GetDetail(ctx context.Context, q db.Querier, id int64) (*loandomain.Detail, error)
	Create(ctx context.Context, q db.Querier, l *loandomain.Loan) error
	Close(ctx context.Context, q db.Querier, id int64, returnedAt time.Time) error
}

// Service orchestrates loan creation and return.
type Service struct {
	pool  *sqlx.DB
	users UserRepo
	books BookRepo
	loans LoanRepo
}

// New returns a Service with the given dependencies.
func New(pool *sqlx.DB, users UserRepo, books BookRepo, loans LoanRepo) *Service {
	return &Service{pool: pool, users: users, books: books, loans: loans}
}

// Create checks out the book for the user. The availability check, the loan
// insert and the book update commit as one unit; a partially applied loan is
// never observable. The book row is locked first, so two concurrent checkouts
// of the same book serialize and the loser sees disponible=false.
func (s *Service) Create(ctx context.Context, userID, bookID int64) (*loandomain.Detail, error) {
	var detail *loandomain.Detail
	err := db.WithinTx(ctx, s.pool, func(tx *sqlx.Tx) error {
		user, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		book, err := s.books.GetByIDForUpdate(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}
		if !book.Available {
			return ErrBookUnavailable
		}

		loan := &loandomain.Loan{UserID: userID, BookID: bookID}
		if err := s.loans.Create(ctx, tx, loan); err != nil {
			// The partial unique index on active loans is the backstop in
			// case the availability flag ever drifts out of sync.
			if db.IsUniqueViolation(err) {
				return ErrBookUnavailable
			}
			return err
		}

		if err := s.books.SetAvailability(ctx, tx, bookID, false); err != nil {
			return err
		}

		detail = &loandomain.Detail{Loan: *loan, UserName: user.Name, BookTitle: book.Title}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Return closes the loan and makes the book available again, as one unit.
// Returning an already-returned loan fails; RETURNED is terminal.
func (s *Service) Return(ctx context.Context, id int64) (*loandomain.Detail, error) {
	var detail *loandomain.Detail
	err := db.WithinTx(ctx, s.pool, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrLoanNotFound
		}
		if !loan.Active {
			return ErrAlreadyReturned
		}

		now := time.Now().UTC()
		if err := s.loans.Close(ctx, tx, id, now); err != nil {
			return err
		}
		if err := s.books.SetAvailability(ctx, tx, loan.BookID, true); err != nil {
			return err
		}

		detail, err = s.loans.GetDetail(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}
