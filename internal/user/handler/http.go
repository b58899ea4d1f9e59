// Package handler exposes the /usuarios endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/httpapi"
	"github.com/juanessaavedra/biblioteca-api/internal/user/domain"
	"github.com/juanessaavedra/biblioteca-api/internal/user/repository"
)

// Error messages surfaced by the user endpoints; part of the API contract.
const (
	msgEmailExists     = "Email ya existe"
	msgUserNotFound    = "Usuario no encontrado"
	msgUserDeleted     = "Usuario eliminado"
	msgUserActiveLoans = "El usuario tiene préstamos activos"
	msgUserHasLoans    = "El usuario tiene préstamos registrados"
	msgInvalidBody     = "JSON inválido"
)

// ActiveLoanChecker reports whether a user still has an outstanding loan.
// Satisfied by the loan repository.
type ActiveLoanChecker interface {
	HasActiveByUser(ctx context.Context, q db.Querier, userID int64) (bool, error)
}

// Handler serves the user CRUD endpoints.
type Handler struct {
	q     db.Querier
	users repository.Repository
	loans ActiveLoanChecker
	log   zerolog.Logger
}

// New returns a user handler backed by q.
func New(q db.Querier, users repository.Repository, loans ActiveLoanChecker, log zerolog.Logger) *Handler {
	return &Handler{q: q, users: users, loans: loans, log: log}
}

// Register mounts the user routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/usuarios", h.list).Methods(http.MethodGet)
	r.HandleFunc("/usuarios", h.create).Methods(http.MethodPost)
	r.HandleFunc("/usuarios/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), h.q)
	if err != nil {
		h.internalError(w, r, "list users", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string `json:"nombre"`
		Email string `json:"email"`
	}
	if err := httpapi.DecodeJSON(r.Body, &payload); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	u := &domain.User{Name: payload.Name, Email: payload.Email}
	if err := u.Validate(); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.users.GetByEmail(r.Context(), h.q, u.Email)
	if err != nil {
		h.internalError(w, r, "check email", err)
		return
	}
	if existing != nil {
		httpapi.WriteError(w, http.StatusBadRequest, msgEmailExists)
		return
	}

	if err := h.users.Create(r.Context(), h.q, u); err != nil {
		// Two concurrent creates can both pass the check above; the unique
		// constraint on email is the backstop.
		if db.IsUniqueViolation(err) {
			httpapi.WriteError(w, http.StatusBadRequest, msgEmailExists)
			return
		}
		h.internalError(w, r, "create user", err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	u, err := h.users.GetByID(r.Context(), h.q, id)
	if err != nil {
		h.internalError(w, r, "get user", err)
		return
	}
	if u == nil {
		httpapi.WriteError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	active, err := h.loans.HasActiveByUser(r.Context(), h.q, id)
	if err != nil {
		h.internalError(w, r, "check active loans", err)
		return
	}
	if active {
		httpapi.WriteError(w, http.StatusBadRequest, msgUserActiveLoans)
		return
	}

	if _, err := h.users.Delete(r.Context(), h.q, id); err != nil {
		// Returned loans still reference the user; the FK keeps history intact.
		if db.IsForeignKeyViolation(err) {
			httpapi.WriteError(w, http.StatusBadRequest, msgUserHasLoans)
			return
		}
		h.internalError(w, r, "delete user", err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, msgUserDeleted)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("user handler")
	httpapi.WriteError(w, http.StatusInternalServerError, httpapi.ErrorMessageInternal)
}
