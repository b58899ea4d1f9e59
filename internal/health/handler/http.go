// Package handler exposes the /health endpoint.
package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/juanessaavedra/biblioteca-api/internal/httpapi"
)

// Handler serves the liveness endpoint.
type Handler struct{}

// New returns a health handler.
func New() *Handler {
	return &Handler{}
}

// Register mounts the health route on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "API funcionando correctamente",
	})
}
