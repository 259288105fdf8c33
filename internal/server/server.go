package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/export"
	"docpipe/internal/llm"
	"docpipe/internal/pipeline"
	"docpipe/internal/repository"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Pipeline    *pipeline.Pipeline
	Documents   repository.DocumentRepository
	Artifacts   *repository.ArtifactWriter
	Exporter    *export.Service
	LLMClient   llm.RecordExtractor // nil when no delegated extractor is configured
	DefaultMode constants.ExtractionMode
	LLMModel    string // reported by /health
}

type Server struct {
	logger *zap.Logger
	deps   Deps
	http   *http.Server
}

func New(addr string, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{logger: logger, deps: deps}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.POST("/extract", s.postExtract)
	r.GET("/documents", s.listDocuments)
	r.GET("/documents/:id", s.getDocument)
	r.GET("/export.xlsx", s.exportXLSX)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.New().String()
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), reqID))
		c.Header("X-Request-ID", reqID)
		c.Next()
		s.logger.Info("http.request",
			zap.String("req_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
	}
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "docpipe",
		"endpoints": []string{
			"POST /extract",
			"GET /documents",
			"GET /documents/:id",
			"GET /export.xlsx",
			"GET /health",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   s.deps.DefaultMode,
		"model":  s.deps.LLMModel,
	})
}
