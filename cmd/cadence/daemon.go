package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fentz26/cadence/internal/audit"
	"github.com/fentz26/cadence/internal/config"
	"github.com/fentz26/cadence/internal/engine"
	"github.com/fentz26/cadence/internal/scheduler"
	"github.com/fentz26/cadence/internal/store"
)

var (
	listenAddr string
	dbPath     string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the Cadence daemon",
	Long:  `Starts the Cadence daemon which provides the HTTP API for meetings, tasks and the calendar.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides CADENCE_LISTEN_ADDR)")
	daemonCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides CADENCE_DB_PATH)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}

	recorder := audit.NewRecorder(s)
	sched := scheduler.New(s, cfg.SchedulerConfig(), log)
	service := engine.NewService(s, sched, recorder)
	server := engine.NewServer(service, s, cfg.ListenAddr, log)

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		err := server.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			s.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := s.Close(); err != nil {
		log.Error().Err(err).Msg("database close error")
	}

	log.Info().Msg("shutdown complete")
	return nil
}
