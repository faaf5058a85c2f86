package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/maxodo98/osr-gtfs-flex/nav"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to the TOML configuration file")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stdout)
	srv := NewServer(config, logger)

	if err := Run(srv, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// NewServer wires the navigation service, metrics and rate limiting into an
// HTTP server
func NewServer(config Config, logger *slog.Logger) *http.Server {
	service := nav.NewService(config.Nav, logger)

	router := mux.NewRouter()
	service.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return &http.Server{
		Addr:         config.Port,
		Handler:      nav.RateLimit(config.RateLimit, router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// Run starts srv and shuts it down gracefully on SIGINT or SIGTERM
func Run(srv *http.Server, logger *slog.Logger) error {
	logger.Info("starting server", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
