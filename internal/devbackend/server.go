// Package devbackend is a self-contained implementation of the study
// backend API. It backs local development and the integration tests of
// the client packages.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/ai"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/server"
)

// Server serves the backend API.
type Server struct {
	store     Store
	tokens    *TokenIssuer
	denylist  Denylist
	responder ai.Responder
	log       *zap.SugaredLogger
}

// NewServer wires a Server from its parts.
func NewServer(
	st Store,
	tokens *TokenIssuer,
	denylist Denylist,
	responder ai.Responder,
	log *zap.SugaredLogger,
) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		store:     st,
		tokens:    tokens,
		denylist:  denylist,
		responder: responder,
		log:       log,
	}
}

// Open builds a Server from configuration: the SQLite store at
// DevBackend.DBPath, a Redis denylist when RedisAddr is set, and the AI
// responder. The returned close function releases the store and Redis.
func Open(ctx context.Context, cfg *model.AppConfig, log *zap.SugaredLogger) (*Server, func() error, error) {
	st, err := NewSQLiteStore(cfg.DevBackend.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{st.Close}

	var denylist Denylist = NewMemoryDenylist()
	if cfg.DevBackend.RedisAddr != "" {
		rd, err := NewRedisDenylist(ctx, cfg.DevBackend.RedisAddr)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		denylist = rd
		closers = append(closers, rd.Close)
	}

	tokens := NewTokenIssuer(cfg.DevBackend.JWTSecret, time.Duration(cfg.DevBackend.TokenTTLHours)*time.Hour)
	srv := NewServer(st, tokens, denylist, ai.New(cfg.AI), log)

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}
	return srv, closeAll, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(server.RequestLogger(s.log))
	r.Use(gin.Recovery())

	public := r.Group("/auth")
	{
		public.POST("/register", s.handleRegister)
		public.POST("/login", s.handleLogin)
	}

	private := r.Group("/")
	private.Use(s.authRequired())
	{
		private.POST("/auth/logout", s.handleLogout)
		private.GET("/auth/profile", s.handleProfile)

		private.GET("/objectives", s.listObjectives)
		private.POST("/objectives", s.createObjective)
		private.PATCH("/objectives/:id", s.updateObjective)
		private.DELETE("/objectives/:id", s.deleteObjective)

		private.GET("/tasks", s.listTasks)
		private.POST("/tasks", s.createTask)
		private.PATCH("/tasks/:id", s.updateTask)
		private.DELETE("/tasks/:id", s.deleteTask)

		private.GET("/notes", s.listNotes)
		private.POST("/notes", s.createNote)
		private.PATCH("/notes/:id", s.updateNote)
		private.DELETE("/notes/:id", s.deleteNote)
		private.POST("/notes/:id/summary", s.summarizeNote)

		private.GET("/chat/sessions", s.listChatSessions)
		private.POST("/chat/sessions", s.createChatSession)
		private.PATCH("/chat/sessions/:id", s.renameChatSession)
		private.DELETE("/chat/sessions/:id", s.deleteChatSession)
		private.POST("/chat/sessions/:id/messages", s.sendChatMessage)

		private.GET("/achievements", s.listAchievements)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("dev backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving dev backend: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down dev backend: %w", err)
		}
		return nil
	}
}

// writeError maps store and validation errors onto HTTP responses.
func (s *Server) writeError(c *gin.Context, err error) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Errorw("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
