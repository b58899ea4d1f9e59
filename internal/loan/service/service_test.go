package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	bookdomain "github.com/juanessaavedra/biblioteca-api/internal/book/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
	loandomain "github.com/juanessaavedra/biblioteca-api/internal/loan/domain"
	userdomain "github.com/juanessaavedra/biblioteca-api/internal/user/domain"
)

type memUsers struct {
	m map[int64]*userdomain.User
}

func (r *memUsers) GetByID(ctx context.Context, q db.Querier, id int64) (*userdomain.User, error) {
	return r.m[id], nil
}

type memBooks struct {
	m map[int64]*bookdomain.Book
}

func (r *memBooks) GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*bookdomain.Book, error) {
	return r.m[id], nil
}

func (r *memBooks) SetAvailability(ctx context.Context, q db.Querier, id int64, available bool) error {
	if b, ok := r.m[id]; ok {
		b.Available = available
	}
	return nil
}

type memLoans struct {
	m      map[int64]*loandomain.Loan
	nextID int64
	users  *memUsers
	books  *memBooks
}

func (r *memLoans) GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*loandomain.Loan, error) {
	return r.m[id], nil
}

func (r *memLoans) GetDetail(ctx context.Context, q db.Querier, id int64) (*loandomain.Detail, error) {
	l, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	d := &loandomain.Detail{Loan: *l}
	if u := r.users.m[l.UserID]; u != nil {
		d.UserName = u.Name
	}
	if b := r.books.m[l.BookID]; b != nil {
		d.BookTitle = b.Title
	}
	return d, nil
}

func (r *memLoans) Create(ctx context.Context, q db.Querier, l *loandomain.Loan) error {
	l.ID = r.nextID
	r.nextID++
	l.LoanedAt = time.Now().UTC()
	l.Active = true
	r.m[l.ID] = l
	return nil
}

func (r *memLoans) Close(ctx context.Context, q db.Querier, id int64, returnedAt time.Time) error {
	if l, ok := r.m[id]; ok {
		l.Active = false
		l.ReturnedAt = &returnedAt
	}
	return nil
}

type fixture struct {
	svc   *Service
	mock  sqlmock.Sqlmock
	users *memUsers
	books *memBooks
	loans *memLoans
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })
	pool := sqlx.NewDb(mockDB, "sqlmock")

	users := &memUsers{m: map[int64]*userdomain.User{
		1: {ID: 1, Name: "Ana", Email: "ana@example.com"},
	}}
	books := &memBooks{m: map[int64]*bookdomain.Book{
		1: {ID: 1, Title: "El Quijote", Author: "Cervantes", ISBN: "111", Available: true},
		2: {ID: 2, Title: "Rayuela", Author: "Cortázar", ISBN: "222", Available: false},
	}}
	loans := &memLoans{m: map[int64]*loandomain.Loan{}, nextID: 1, users: users, books: books}

	return &fixture{
		svc:   New(pool, users, books, loans),
		mock:  mock,
		users: users,
		books: books,
		loans: loans,
	}
}

func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	detail, err := f.svc.Create(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !detail.Active {
		t.Error("new loan should be active")
	}
	if detail.ReturnedAt != nil {
		t.Error("new loan should have no return timestamp")
	}
	if detail.UserName != "Ana" || detail.BookTitle != "El Quijote" {
		t.Errorf("detail = %+v, want denormalized names", detail)
	}
	if f.books.m[1].Available {
		t.Error("book should be unavailable after checkout")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("tx expectations: %v", err)
	}
}

func TestCreate_UserNotFound(t *testing.T) {
	f := newFixture(t)
	f.expectRollback()

	_, err := f.svc.Create(context.Background(), 99, 1)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if len(f.loans.m) != 0 {
		t.Error("no loan should be created")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("tx expectations: %v", err)
	}
}

func TestCreate_BookNotFound(t *testing.T) {
	f := newFixture(t)
	f.expectRollback()

	_, err := f.svc.Create(context.Background(), 1, 99)
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("err = %v, want ErrBookNotFound", err)
	}
}

func TestCreate_BookUnavailable(t *testing.T) {
	f := newFixture(t)
	f.expectRollback()

	_, err := f.svc.Create(context.Background(), 1, 2)
	if !errors.Is(err, ErrBookUnavailable) {
		t.Fatalf("err = %v, want ErrBookUnavailable", err)
	}
	if len(f.loans.m) != 0 {
		t.Error("no loan record should exist after a rejected checkout")
	}
}

func TestReturn_Success(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()
	detail, err := f.svc.Create(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.expectCommit()
	returned, err := f.svc.Return(context.Background(), detail.ID)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if returned.Active {
		t.Error("returned loan should be inactive")
	}
	if returned.ReturnedAt == nil {
		t.Error("returned loan should have a return timestamp")
	}
	if !f.books.m[1].Available {
		t.Error("book should be available again after return")
	}
	if returned.UserName != "Ana" || returned.BookTitle != "El Quijote" {
		t.Errorf("detail = %+v, want denormalized names", returned)
	}
}

func TestReturn_NotFound(t *testing.T) {
	f := newFixture(t)
	f.expectRollback()

	_, err := f.svc.Return(context.Background(), 42)
	if !errors.Is(err, ErrLoanNotFound) {
		t.Fatalf("err = %v, want ErrLoanNotFound", err)
	}
}

func TestReturn_Twice(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()
	detail, err := f.svc.Create(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.expectCommit()
	if _, err := f.svc.Return(context.Background(), detail.ID); err != nil {
		t.Fatalf("first Return: %v", err)
	}

	f.expectRollback()
	_, err = f.svc.Return(context.Background(), detail.ID)
	if !errors.Is(err, ErrAlreadyReturned) {
		t.Fatalf("second Return: err = %v, want ErrAlreadyReturned", err)
	}
}

func TestCreateThenReturn_RoundTrip(t *testing.T) {
	f := newFixture(t)

	f.expectCommit()
	detail, err := f.svc.Create(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.books.m[1].Available {
		t.Fatal("book should be unavailable while loaned")
	}

	f.expectCommit()
	if _, err := f.svc.Return(context.Background(), detail.ID); err != nil {
		t.Fatalf("Return: %v", err)
	}

	if !f.books.m[1].Available {
		t.Error("availability should be restored after the round trip")
	}
	if len(f.loans.m) != 1 {
		t.Fatalf("loan records = %d, want exactly 1", len(f.loans.m))
	}
	if f.loans.m[detail.ID].Active {
		t.Error("the single loan record should be inactive")
	}
}
