package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/handlers"
	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/internal/server"
	"github.com/mlx-qa/mlx-e2e/internal/services"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
)

// Stack is the in-process sandbox the suite runs against when no real environment is targeted.
type Stack struct {
	srv *server.Server
	URL string
}

// NewSandboxStack serves a sandbox on a free loopback port and points the service URLs of cfg at it.
func NewSandboxStack(cfg *config.Configuration) (*Stack, error) {
	if cfg.Emp.Password == "" {
		cfg.Emp.Password = uuid.NewString()
	}

	sandbox := services.NewSandbox(cfg.Sandbox.SigningKey, cfg.Sandbox.TokenTTL, services.WithSandboxLogger(zap.S().Named("sandbox")))
	h := handlers.New(sandbox)

	srv, err := server.NewServer(cfg.Sandbox, func(router gin.IRouter) {
		h.Register(router, gin.Accounts{cfg.Emp.Username: cfg.Emp.Password})
	})
	if err != nil {
		return nil, err
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Errorw("sandbox stopped", "error", err)
		}
	}()

	s := &Stack{srv: srv, URL: fmt.Sprintf("%s://%s", srv.Scheme(), l.Addr().String())}
	cfg.Services.MlxURL = s.URL
	cfg.Services.EmpURL = s.URL
	cfg.Services.LauncherURL = s.URL + "/api/v2"
	cfg.Services.LauncherV1URL = s.URL + "/api/v1"

	return s, nil
}

func (s *Stack) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.srv.Stop(ctx)
}

func storedOwnerPassword(path string) (string, error) {
	owner, err := credentials.NewDiskStore(path).Get(models.RoleOwner)
	if err != nil {
		return "", err
	}
	return owner.Password, nil
}
