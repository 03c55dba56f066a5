// Package api exposes the tracker over a small local JSON API for `jt serve`.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"jt-go/internal/config"
	"jt-go/internal/jt"
)

// shutdownTimeout bounds how long in-flight requests may run after the server is told to stop.
const shutdownTimeout = 10 * time.Second

// Server serves the JSON API. Handlers share the service and keep no state of
// their own, so requests are handled independently.
type Server struct {
	svc    *jt.JTService
	logger *slog.Logger
	engine *gin.Engine
}

// NewServer builds the gin engine with CORS and every route registered.
func NewServer(svc *jt.JTService, cfg config.ServerConfig, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLogger())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	s.engine.Use(cors.New(corsCfg))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.POST("/commands", s.handleCommand)
		v1.GET("/applications", s.listApplications)
		v1.GET("/applications/:id", s.getApplication)
		v1.GET("/facts", s.listFacts)
	}
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
