// Package server assembles the HTTP API: router, middleware and handlers.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	bookhandler "github.com/juanessaavedra/biblioteca-api/internal/book/handler"
	bookrepo "github.com/juanessaavedra/biblioteca-api/internal/book/repository"
	"github.com/juanessaavedra/biblioteca-api/internal/config"
	healthhandler "github.com/juanessaavedra/biblioteca-api/internal/health/handler"
	loanhandler "github.com/juanessaavedra/biblioteca-api/internal/loan/handler"
	loanrepo "github.com/juanessaavedra/biblioteca-api/internal/loan/repository"
	loanservice "github.com/juanessaavedra/biblioteca-api/internal/loan/service"
	"github.com/juanessaavedra/biblioteca-api/internal/metrics"
	"github.com/juanessaavedra/biblioteca-api/internal/server/middleware"
	userhandler "github.com/juanessaavedra/biblioteca-api/internal/user/handler"
	userrepo "github.com/juanessaavedra/biblioteca-api/internal/user/repository"
)

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// New wires repositories, the loan service, handlers and middleware into a
// ready-to-run server.
func New(cfg *config.Config, pool *sqlx.DB, log zerolog.Logger) *Server {
	router := NewRouter(pool, cfg.CORSOrigins(), metrics.New(), log)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// NewRouter builds the API router with all routes and middleware mounted.
func NewRouter(pool *sqlx.DB, corsOrigins []string, m *metrics.Metrics, log zerolog.Logger) *mux.Router {
	users := userrepo.NewPostgres()
	books := bookrepo.NewPostgres()
	loans := loanrepo.NewPostgres()
	loanSvc := loanservice.New(pool, users, books, loans)

	router := mux.NewRouter()
	router.Use(
		middleware.Logging(log),
		middleware.Metrics(m),
		middleware.CORS(corsOrigins),
	)

	healthhandler.New().Register(router)
	userhandler.New(pool, users, loans, log).Register(router)
	bookhandler.New(pool, books, loans, log).Register(router)
	loanhandler.New(pool, loans, loanSvc, log).Register(router)

	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	return router
}

// Start listens and serves until the server is shut down. It returns
// http.ErrServerClosed after a clean Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
