// Package web exposes the evaluation triggers over HTTP. It mirrors the
// CLI surface: trigger a run, read the run history, list dataset examples.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jdgilhuly/agent_evals/pkg/config"
	"github.com/jdgilhuly/agent_evals/pkg/dataset"
	"github.com/jdgilhuly/agent_evals/pkg/service"
)

// Server is the HTTP trigger endpoint for evaluation runs.
type Server struct {
	runner     *service.Runner
	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer builds the HTTP server around an evaluation runner.
func NewServer(runner *service.Runner, cfg config.ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		runner: runner,
		engine: engine,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/run-handoff-eval", s.runHandler(dataset.KindHandoff))
	api.POST("/run-tool-eval", s.runHandler(dataset.KindToolCall))
	api.GET("/history", s.handleHistory)
	api.GET("/examples", s.handleExamples)
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	log.Printf("eval server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route tree (used by tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}
