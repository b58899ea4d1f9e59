// server runs the library HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/juanessaavedra/biblioteca-api/internal/config"
	"github.com/juanessaavedra/biblioteca-api/internal/db"
	"github.com/juanessaavedra/biblioteca-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.Env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer pool.Close()

	srv := server.New(cfg, pool, log)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("http server stopped")
}
