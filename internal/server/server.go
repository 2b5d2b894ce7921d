// internal/server/server.go
// Package server exposes the report views over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwiater/greenview/internal/logging"
	"github.com/mwiater/greenview/internal/source"
	"github.com/mwiater/greenview/internal/telemetry"
	"github.com/mwiater/greenview/internal/views"
)

// Options configures a Server.
type Options struct {
	Views        *views.Set
	Fetcher      source.Fetcher
	ManifestName string
	// DataDir is served under /data when the data source is local.
	DataDir     string
	Recorder    *telemetry.Recorder
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
}

// Server wires the gin router to the view loaders.
type Server struct {
	opts    Options
	limiter *RateLimiter
	router  *gin.Engine
}

// New builds the router. It does not start listening.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		opts:    opts,
		limiter: NewRateLimiter(opts.RateLimit, opts.RateBurst),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	router.Use(s.limiter.Middleware())

	router.GET("/", s.index)
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Recorder.Gatherer(), promhttp.HandlerOpts{})))
	router.GET("/api/manifest", s.manifest)
	router.GET("/api/views", s.listViews)
	router.GET("/api/views/:view", s.viewModel)
	router.GET("/reports/:view", s.reportPage)
	router.GET("/reports/:view/:index/snapshot.png", s.snapshot)
	if opts.DataDir != "" {
		router.Static("/data", opts.DataDir)
	}

	s.router = router
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.limiter.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("[SERVER] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.LogEvent("[SERVER] stopped")
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.LogDebug("[HTTP] %s %s status=%d elapsed=%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
