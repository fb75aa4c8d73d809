package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	router "github.com/dkeye/Lobby/internal/adapters/http"
	"github.com/dkeye/Lobby/internal/adapters/rtc"
	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/auth"
	"github.com/dkeye/Lobby/internal/config"
	"github.com/dkeye/Lobby/internal/names"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	store, err := names.Open(ctx, cfg.Names)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close name store")
		}
	}()

	ice, err := rtc.ICEServers(cfg.ICEServers)
	if err != nil {
		return err
	}

	rooms := app.NewRoomManager(cfg.HistoryCapacity)
	o := &orch.Orchestrator{
		Registry:  app.NewRegistry(),
		Rooms:     rooms,
		Policy:    app.SimplePolicy{},
		Reclaimer: app.NewReclaimer(rooms, cfg.GracePeriod, app.RealScheduler),
		Names:     store,
	}
	tokens := auth.NewTokenService(cfg.Secret, cfg.TokenTTL)

	sessCtx, stopSessions := context.WithCancel(context.Background())
	defer stopSessions()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRouter(sessCtx, cfg, o, tokens, ice),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg conc.WaitGroup
	serveErr := make(chan error, 1)
	wg.Go(func() {
		log.Info().Str("addr", addr).Msg("Lobby server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err = <-serveErr:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	// hijacked websockets are not tracked by Shutdown
	o.Shutdown()
	stopSessions()
	wg.Wait()
	log.Info().Msg("Server exited gracefully")
	return err
}
