package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/invsim/mdp-optimizer/internal/mdpd"
	"github.com/invsim/mdp-optimizer/pkg/logger"
)

// ServeOptions configure the HTTP daemon. Environment variables provide
// defaults; flags override them.
type ServeOptions struct {
	HTTPAddr string `env:"MDPD_HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"MDPD_LOG_LEVEL" envDefault:"info"`
}

// newServeCommand creates the serve subcommand: an HTTP daemon managing
// solver runs.
func newServeCommand() *cobra.Command {
	var (
		httpAddr string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the solver HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts ServeOptions
			if err := env.Parse(&opts); err != nil {
				return fmt.Errorf("parse env: %w", err)
			}
			if cmd.Flags().Changed("http-addr") {
				opts.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("log-level") {
				opts.LogLevel = logLevel
			}

			logger.SetDefault(logger.New(opts.LogLevel, os.Stdout))
			return serve(opts)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func serve(opts ServeOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := mdpd.NewRunStore()
	executor := mdpd.NewRunExecutor(store)

	srv := &http.Server{
		Addr:              opts.HTTPAddr,
		Handler:           mdpd.NewHTTPServer(store, executor).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", opts.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	return nil
}
