// Package handler exposes the /libros endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/juanessaavedra/biblioteca-api/internal/book/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/book/repository"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/httpapi"
)

// Error messages surfaced by the book endpoints; part of the API contract.
const (
	msgISBNExists     = "ISBN ya existe"
	msgBookNotFound   = "Libro no encontrado"
	msgBookDeleted    = "Libro eliminado"
	msgBookActiveLoan = "El libro tiene un préstamo activo"
	msgBookHasLoans   = "El libro tiene préstamos registrados"
	msgInvalidBody    = "JSON inválido"
)

// ActiveLoanChecker reports whether a book is referenced by an outstanding
// loan. Satisfied by the loan repository.
type ActiveLoanChecker interface {
	HasActiveByBook(ctx context.Context, q db.Querier, bookID int64) (bool, error)
}

// Handler serves the book CRUD endpoints.
type Handler struct {
	q     db.Querier
	books repository.Repository
	loans ActiveLoanChecker
	log   zerolog.Logger
}

// New returns a book handler backed by q.
func New(q db.Querier, books repository.Repository, loans ActiveLoanChecker, log zerolog.Logger) *Handler {
	return &Handler{q: q, books: books, loans: loans, log: log}
}

// Register mounts the book routes on r. The /libros/disponibles route is
// distinguished from /libros/{id} by the numeric id constraint.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/libros", h.list).Methods(http.MethodGet)
	r.HandleFunc("/libros", h.create).Methods(http.MethodPost)
	r.HandleFunc("/libros/disponibles", h.listAvailable).Methods(http.MethodGet)
	r.HandleFunc("/libros/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/libros/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context(), h.q)
	if err != nil {
		h.internalError(w, r, "list books", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, books)
}

func (h *Handler) listAvailable(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListAvailable(r.Context(), h.q)
	if err != nil {
		h.internalError(w, r, "list available books", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, books)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title  string `json:"titulo"`
		Author string `json:"autor"`
		ISBN   string `json:"isbn"`
	}
	if err := httpapi.DecodeJSON(r.Body, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	b := &domain.Book{Title: payload.Title, Author: payload.Author, ISBN: payload.ISBN}
	if err := b.Validate(); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.books.GetByISBN(r.Context(), h.q, b.ISBN)
	if err != nil {
		h.internalError(w, r, "check isbn", err)
		return
	}
	if existing != nil {
		httpapi.WriteError(w, http.StatusBadRequest, msgISBNExists)
		return
	}

	if err := h.books.Create(r.Context(), h.q, b); err != nil {
		if db.IsUniqueViolation(err) {
			httpapi.WriteError(w, http.StatusBadRequest, msgISBNExists)
			return
		}
		h.internalError(w, r, "create book", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var payload struct {
		Title     *string `json:"titulo"`
		Author    *string `json:"autor"`
		Available *bool   `json:"disponible"`
	}
	if err := httpapi.DecodeJSON(r.Body, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	params := domain.UpdateParams{Title: payload.Title, Author: payload.Author, Available: payload.Available}
	b, err := h.books.Update(r.Context(), h.q, id, params)
	if err != nil {
		h.internalError(w, r, "update book", err)
		return
	}
	if b == nil {
		httpapi.WriteError(w, http.StatusNotFound, msgBookNotFound)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	b, err := h.books.GetByID(r.Context(), h.q, id)
	if err != nil {
		h.internalError(w, r, "get book", err)
		return
	}
	if b == nil {
		httpapi.WriteError(w, http.StatusNotFound, msgBookNotFound)
		return
	}

	active, err := h.loans.HasActiveByBook(r.Context(), h.q, id)
	if err != nil {
		h.internalError(w, r, "check active loan", err)
		return
	}
	if active {
		httpapi.WriteError(w, http.StatusBadRequest, msgBookActiveLoan)
		return
	}

	if _, err := h.books.Delete(r.Context(), h.q, id); err != nil {
		// Returned loans still reference the book; the FK keeps history intact.
		if db.IsForeignKeyViolation(err) {
			httpapi.WriteError(w, http.StatusBadRequest, msgBookHasLoans)
			return
		}
		h.internalError(w, r, "delete book", err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, msgBookDeleted)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("book handler")
	httpapi.WriteError(w, http.StatusInternalServerError, httpapi.ErrorMessageInternal)
}
