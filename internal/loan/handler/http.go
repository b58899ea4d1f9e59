// Package handler exposes the /prestamos endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/httpapi"
	"github.com/juanessaavedra/biblioteca-api/internal/loan/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/loan/service"
)

// Error messages surfaced by the loan endpoints; part of the API contract.
const (
	msgMissingIDs      = "usuario_id y libro_id son requeridos"
	msgUserNotFound    = "Usuario no encontrado"
	msgBookNotFound    = "Libro no encontrado"
	msgBookUnavailable = "Libro no disponible"
	msgLoanNotFound    = "Préstamo no encontrado"
	msgAlreadyReturned = "Este préstamo ya fue devuelto"
	msgInvalidBody     = "JSON inválido"
)

// Service is the loan lifecycle the handler drives. Satisfied by
// service.Service.
type Service interface {
	Create(ctx context.Context, userID, bookID int64) (*domain.Detail, error)
	Return(ctx context.Context, id int64) (*domain.Detail, error)
}

// Lister is the read side of the loan repository the handler needs.
type Lister interface {
	List(ctx context.Context, q db.Querier) ([]*domain.Detail, error)
}

// Handler serves the loan endpoints.
type Handler struct {
	q     db.Querier
	loans Lister
	svc   Service
	log   zerolog.Logger
}

// New returns a loan handler backed by q and svc.
func New(q db.Querier, loans Lister, svc Service, log zerolog.Logger) *Handler {
	return &Handler{q: q, loans: loans, svc: svc, log: log}
}

// Register mounts the loan routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/prestamos", h.list).Methods(http.MethodGet)
	r.HandleFunc("/prestamos", h.create).Methods(http.MethodPost)
	r.HandleFunc("/prestamos/{id:[0-9]+}/devolver", h.returnLoan).Methods(http.MethodPut)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.List(r.Context(), h.q)
	if err != nil {
		h.internalError(w, r, "list loans", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, loans)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID int64 `json:"usuario_id"`
		BookID int64 `json:"libro_id"`
	}
	if err := httpapi.DecodeJSON(r.Body, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if payload.UserID == 0 || payload.BookID == 0 {
		httpapi.WriteError(w, http.StatusBadRequest, msgMissingIDs)
		return
	}

	detail, err := h.svc.Create(r.Context(), payload.UserID, payload.BookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpapi.WriteError(w, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, service.ErrBookNotFound):
			httpapi.WriteError(w, http.StatusNotFound, msgBookNotFound)
		case errors.Is(err, service.ErrBookUnavailable):
			httpapi.WriteError(w, http.StatusBadRequest, msgBookUnavailable)
		default:
			h.internalError(w, r, "create loan", err)
		}
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, detail)
}

func (h *Handler) returnLoan(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	detail, err := h.svc.Return(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoanNotFound):
			httpapi.WriteError(w, http.StatusNotFound, msgLoanNotFound)
		case errors.Is(err, service.ErrAlreadyReturned):
			httpapi.WriteError(w, http.StatusBadRequest, msgAlreadyReturned)
		default:
			h.internalError(w, r, "return loan", err)
		}
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("loan handler")
	httpapi.WriteError(w, http.StatusInternalServerError, httpapi.ErrorMessageInternal)
}
