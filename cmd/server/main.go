package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/robvecchiola/chess/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	srv := server.New(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx.Done())

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", cfg.Addr).Int("depth", cfg.AIDepth).Msg("listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := httpServer.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("exiting after server error")
	}
}
