// Package server is the dashboard's HTTP surface: the auth proxy, the
// profile lookup used by the session bootstrap, and the bootstrap itself.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/auth"
	"github.com/nhle/study-dashboard/internal/model"
)

// Server serves the dashboard's own endpoints and relays auth calls to the
// backend.
type Server struct {
	backendURL string
	cfg        model.ServerConfig
	httpClient *http.Client
	bootstrap  *auth.Bootstrapper
	log        *zap.SugaredLogger
}

// New creates a Server from the application config.
func New(cfg *model.AppConfig, log *zap.SugaredLogger) *Server {
	return &Server{
		backendURL: cfg.Backend.BaseURL,
		cfg:        cfg.Server,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Backend.TimeoutSec) * time.Second},
		bootstrap:  auth.NewBootstrapper(cfg.Server.PublicOrigin, cfg.Server.CookieName, log),
		log:        log,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(RequestLogger(s.log))
	r.Use(gin.Recovery())

	authRoutes := r.Group("/api/auth")
	{
		authRoutes.GET("/profile", s.handleProfile)
		authRoutes.POST("/:suffix", s.handleAuthProxy)
	}

	dashboard := r.Group("/dashboard")
	dashboard.Use(Bootstrap(s.bootstrap, s.cfg.CookieName))
	{
		dashboard.GET("/session", s.handleSession)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("dashboard server listening", "addr", s.cfg.ListenAddr, "backend", s.backendURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down dashboard: %w", err)
		}
		return nil
	}
}

func (s *Server) handleSession(c *gin.Context) {
	res := BootstrapResult(c)
	session := res.Session()
	c.JSON(http.StatusOK, gin.H{
		"status":          res.Status,
		"isAuthenticated": session.IsAuthenticated,
		"token":           session.Token,
		"email":           session.Email,
	})
}
