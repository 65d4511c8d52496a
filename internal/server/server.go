// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package server serves a validated data model over HTTP.

JSON endpoints expose the model wire form and per definition views, while
/docs renders the markdown documentation on request:

	GET /healthz
	GET /api/model
	GET /api/entities
	GET /api/entities/:name
	GET /api/entities/:name/referenced-by
	GET /api/objects/:name
	GET /api/enums/:name
	GET /docs
	GET /docs/:template

Unknown names answer 404 with {"error": "..."}. Every response carries an
X-Request-ID header.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/gops/agent"

	"github.com/woozymasta/dmdoc/format/markdown"
	"github.com/woozymasta/dmdoc/model"
)

const (
	// DefaultListen is the listen address used when none is configured.
	DefaultListen = ":8080"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Options configures the server.
type Options struct {
	// Listen is the TCP address, DefaultListen when empty.
	Listen string
	// Gops starts the gops diagnostics agent while serving.
	Gops bool
	// Markdown is the base rendering setup of /docs.
	Markdown markdown.Options
	// Logger receives request logs, nil discards them.
	Logger *slog.Logger
}

// Server serves one validated model.
type Server struct {
	validated *model.Validated
	opt       Options
	logger    *slog.Logger
	engine    *gin.Engine
}

// New builds a Server with all routes registered.
func New(v *model.Validated, opt Options) *Server {
	if opt.Listen == "" {
		opt.Listen = DefaultListen
	}

	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		validated: v,
		opt:       opt,
		logger:    logger,
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestID(), requestLog(logger))
	s.routes()
	return s
}

// routes registers all endpoints.
func (s *Server) routes() {
	r := s.engine

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.GET("/model", s.getModel)
		api.GET("/entities", s.listEntities)
		api.GET("/entities/:name", s.getEntity)
		api.GET("/entities/:name/referenced-by", s.getReferencedBy)
		api.GET("/objects/:name", s.getObject)
		api.GET("/enums/:name", s.getEnum)
	}

	r.GET("/docs", s.getDocs)
	r.GET("/docs/:template", s.getDocs)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.opt.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("%w: %w", ErrGops, err)
		}
		defer agent.Close()

		s.logger.Debug("gops agent started")
	}

	srv := &http.Server{
		Addr:              s.opt.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	s.logger.Info("serving documentation", "listen", s.opt.Listen, "model", s.validated.Model().ID)

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("%w %s: %w", ErrListen, s.opt.Listen, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down documentation server")
	return srv.Shutdown(shutdownCtx)
}
