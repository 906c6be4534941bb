package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"travel-booking/internal/config"
	"travel-booking/internal/database"
	"travel-booking/internal/logger"
	"travel-booking/internal/server"
	"travel-booking/internal/storage"
	"travel-booking/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run wires the service and blocks until it stops. Deferred cleanup has
// finished by the time it returns.
func run(cfg *config.Config, log *zap.Logger) error {
	if err := database.Migrate(cfg.DB.URL(), cfg.MigrationsPath); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	db, err := database.New(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	media, err := storage.New(cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("creating storage: %w", err)
	}

	if cfg.Sweep.Schedule != "" {
		sw := sweeper.New(db, media, cfg.Buckets.All(), cfg.Sweep.Grace, log.Named("sweeper"))
		c, err := sw.Schedule(cfg.Sweep.Schedule, 10*time.Minute)
		if err != nil {
			return err
		}
		defer c.Stop()
	}

	// Create a new server instance
	srv := server.NewServer(cfg, db, media, log)

	// Create a listener on the desired address
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	return serve(srv, listener, stop, log)
}

// serve runs srv until it fails or a signal arrives on stop, in which case
// it shuts down gracefully.
func serve(srv *http.Server, listener net.Listener, stop <-chan os.Signal, log *zap.Logger) error {
	// Channel to receive errors from the server
	errChan := make(chan error, 1)

	go func() {
		log.Info("Server started", zap.String("addr", listener.Addr().String()))
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for an interrupt or server error
	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info("Initiating graceful shutdown", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not gracefully shut down the server: %w", err)
		}
		log.Info("Server gracefully stopped")
		return nil
	}
}
