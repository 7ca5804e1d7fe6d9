package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/certificates"
)

const (
	ProductionServer string = "prod"
	DevServer        string = "dev"
)

type Server struct {
	srv *http.Server
}

func NewServer(cfg config.Sandbox, registerHandlerFn func(router gin.IRouter)) (*Server, error) {
	gin.SetMode(gin.DebugMode)
	if cfg.ServerMode == ProductionServer {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.TLS {
		tlsConfig, err := certificates.TLSConfig(time.Now().AddDate(1, 0, 0))
		if err != nil {
			return nil, fmt.Errorf("failed to generate server's certificates: %w", err)
		}
		srv.TLSConfig = tlsConfig
	}

	engine.Use(
		ginzap.Ginzap(zap.L(), time.RFC3339, true),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": models.Status{HTTPCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "endpoint not found"},
			"data":   gin.H{},
		})
	})

	registerHandlerFn(engine)

	return &Server{srv: srv}, nil
}

// Handler exposes the engine, for serving it from an httptest server.
func (r *Server) Handler() http.Handler {
	return r.srv.Handler
}

// Start starts the HTTP or HTTPS server based on TLS configuration.
func (r *Server) Start(ctx context.Context) error {
	if r.srv.TLSConfig != nil {
		return r.srv.ListenAndServeTLS("", "")
	}
	return r.srv.ListenAndServe()
}

func (r *Server) Stop(ctx context.Context) {
	if err := r.srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("server shutdown", "error", err)
	}
}

// Serve accepts connections on l until Stop is called.
func (r *Server) Serve(l net.Listener) error {
	if r.srv.TLSConfig != nil {
		return r.srv.ServeTLS(l, "", "")
	}
	return r.srv.Serve(l)
}

// Scheme is https when TLS is enabled.
func (r *Server) Scheme() string {
	if r.srv.TLSConfig != nil {
		return "https"
	}
	return "http"
}
