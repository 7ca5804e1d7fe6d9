package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/handlers"
	"github.com/mlx-qa/mlx-e2e/internal/server"
	"github.com/mlx-qa/mlx-e2e/internal/services"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

func NewSandboxCommand(cfg *config.Configuration) *cobra.Command {
	sandboxCmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Serve an in-memory account, EMP and launcher API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSandbox(cfg); err != nil {
				return err
			}

			srv, err := newSandboxServer(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				zap.S().Infow("starting sandbox", "port", cfg.Sandbox.HTTPPort, "tls", cfg.Sandbox.TLS)
				errCh <- srv.Start(ctx)
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			srv.Stop(shutdownCtx)
			zap.S().Info("sandbox stopped")
			return nil
		},
	}

	sandboxCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	sandboxCmd.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file, written alongside stderr")
	sandboxCmd.Flags().StringVar(&cfg.Emp.Username, "emp-username", cfg.Emp.Username, "EMP basic auth user")
	sandboxCmd.Flags().StringVar(&cfg.Emp.Password, "emp-password", cfg.Emp.Password, "EMP basic auth password")
	registerSandboxFlags(sandboxCmd, cfg)

	return sandboxCmd
}

func newSandboxServer(cfg *config.Configuration) (*server.Server, error) {
	sandbox := services.NewSandbox(
		cfg.Sandbox.SigningKey,
		cfg.Sandbox.TokenTTL,
		services.WithSandboxLogger(zap.S().Named("sandbox")),
	)
	h := handlers.New(sandbox)

	return server.NewServer(cfg.Sandbox, func(router gin.IRouter) {
		h.Register(router, gin.Accounts{cfg.Emp.Username: cfg.Emp.Password})
	})
}

func validateSandbox(cfg *config.Configuration) error {
	if cfg.Sandbox.HTTPPort < 1 || cfg.Sandbox.HTTPPort > 65535 {
		return srvErrors.NewConfigurationError("invalid sandbox-http-port: %d", cfg.Sandbox.HTTPPort)
	}
	if cfg.Sandbox.ServerMode != server.DevServer && cfg.Sandbox.ServerMode != server.ProductionServer {
		return srvErrors.NewConfigurationError("invalid sandbox-mode: %s", cfg.Sandbox.ServerMode)
	}
	if cfg.Sandbox.TokenTTL <= 0 {
		return srvErrors.NewConfigurationError("invalid sandbox-token-ttl: %s", cfg.Sandbox.TokenTTL)
	}
	if cfg.Sandbox.SigningKey == "" {
		return srvErrors.NewConfigurationError("sandbox-signing-key cannot be empty")
	}
	if cfg.Emp.Username == "" || cfg.Emp.Password == "" {
		return srvErrors.NewConfigurationError("emp-username and emp-password must be set")
	}
	return nil
}
