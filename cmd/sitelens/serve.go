package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sitelens/sitelens/internal/config"
	"github.com/sitelens/sitelens/internal/server"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		Long: `Run an HTTP service exposing the analysis pipeline. The service
accepts URLs, raw HTML, or screenshot references via POST /analyze
(synchronous) and POST /analyze/async (polling via GET /analyze/{id}).`,
		RunE: runServe,
	}

	serveCmd.Flags().StringP("addr", "a", config.DefaultListenAddr, "listen address for the HTTP service")
	serveCmd.Flags().String("api-key", "", "API key for the remote performance audit service")
	serveCmd.Flags().Bool("no-fallback", false, "disable the headless browser fallback for performance metrics")
	serveCmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header for HTML fetches")

	return serveCmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)

	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	// The service applies the global configuration to every request; the
	// per-site overrides of the config file are a CLI concern.
	orch := buildOrchestrator(cfg, config.SiteConfig{}, logger)

	server.Version = getVersion()
	srv := server.New(orch, server.WithLogger(logger))

	logger.Info("starting analysis service", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http service: %w", err)
	}
	return nil
}

// buildServeConfig creates a Config for the HTTP service from flags.
// The serve command has no targets; inputs arrive per request.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.ListenAddr, err = cmd.Flags().GetString("addr"); err != nil {
		return nil, fmt.Errorf("failed to get addr flag: %w", err)
	}
	if cfg.AuditAPIKey, err = cmd.Flags().GetString("api-key"); err != nil {
		return nil, fmt.Errorf("failed to get api-key flag: %w", err)
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, fmt.Errorf("failed to get user-agent flag: %w", err)
	}

	noFallback, err := cmd.Flags().GetBool("no-fallback")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-fallback flag: %w", err)
	}
	cfg.LocalFallback = !noFallback

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}
