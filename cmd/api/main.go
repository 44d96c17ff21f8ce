// cmd/api/main.go
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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	app "user-service/internal"
	"user-service/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "user-service",
		Short:         "HTTP service for managing user records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			applyFlags(cmd.Flags(), cfg)
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.String("port", "", "HTTP listen port (overrides SERVER_PORT)")
	fs.String("db-driver", "", "store backend: postgres, sqlite3 or memory (overrides DB_DRIVER)")
	fs.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	fs.Bool("seed", false, "insert fixture users into an empty store (overrides SEED_FIXTURES)")
	return cmd
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(fs *pflag.FlagSet, cfg *config.AppConfig) {
	if fs.Changed("port") {
		cfg.ServerPort, _ = fs.GetString("port")
	}
	if fs.Changed("db-driver") {
		cfg.DB.Driver, _ = fs.GetString("db-driver")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("seed") {
		cfg.SeedFixtures, _ = fs.GetBool("seed")
	}
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create and initialize the application
	application := app.NewApplication()
	if err := application.Initialize(ctx, cfg); err != nil {
		if application.Logger != nil {
			application.Logger.Error("Failed to initialize application", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}

	server := &http.Server{
		Addr:         ":" + application.Config.ServerPort,
		Handler:      application.HTTPHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		application.Logger.Info("Starting HTTP server", "port", application.Config.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err, ok := <-serverErr:
		if ok {
			application.Logger.Error("HTTP server failed to start", "error", err)
			runErr = err
		}
	}

	application.Logger.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error("HTTP server shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}

	// Drain deferred tasks and close the store
	if err := application.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error("Application shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		application.Logger.Info("Application gracefully stopped.")
	}
	return runErr
}
