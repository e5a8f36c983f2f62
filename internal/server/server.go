package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mgpai22/cuepoint/internal/captions"
	"github.com/mgpai22/cuepoint/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server exposes one caption Source to a playback host over HTTP.
type Server struct {
	source *captions.Source
	logger *logging.Logger
	engine *gin.Engine
}

// JSON body of GET /v1/captions
type captionResponse struct {
	ID            string          `json:"id,omitempty"`
	Begin         int64           `json:"begin"`
	End           int64           `json:"end"`
	Content       []string        `json:"content"`
	Styles        captions.Styles `json:"styles"`
	RenderContext any             `json:"render_context,omitempty"`
}

func New(source *captions.Source, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		source: source,
		logger: logger,
		engine: engine,
	}

	engine.GET("/healthz", s.healthHandler)

	v1 := engine.Group("/v1")
	v1.GET("/session", s.sessionHandler)
	v1.GET("/entries", s.entriesHandler)
	v1.GET("/captions", s.captionsHandler)
	v1.POST("/deinit", s.deinitHandler)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Serving captions", "addr", addr, "session", s.source.ID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) sessionHandler(c *gin.Context) {
	body := gin.H{
		"id":      s.source.ID(),
		"state":   s.source.State().String(),
		"entries": len(s.source.Entries()),
	}
	if url := s.source.Origin().URL; url != "" {
		body["url"] = url
	}
	if err := s.source.Err(); err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) entriesHandler(c *gin.Context) {
	if !s.ready(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": s.source.Entries()})
}

func (s *Server) captionsHandler(c *gin.Context) {
	raw, ok := c.GetQuery("t")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing t", "status": "error"})
		return
	}
	elapsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid t", "status": "error"})
		return
	}

	if !s.ready(c) {
		return
	}

	var renderContext any
	if rc, ok := c.GetQuery("context"); ok {
		renderContext = rc
	}

	payload := s.source.Query(elapsed, renderContext)
	if payload == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, captionResponse{
		ID:            payload.Entry.ID,
		Begin:         payload.Entry.Begin,
		End:           payload.Entry.End,
		Content:       payload.Content,
		Styles:        payload.Styles,
		RenderContext: payload.RenderContext,
	})
}

func (s *Server) deinitHandler(c *gin.Context) {
	s.source.Deinit()
	c.JSON(http.StatusOK, gin.H{"state": s.source.State().String()})
}

// writes an error response unless the source can answer queries
func (s *Server) ready(c *gin.Context) bool {
	switch state := s.source.State(); state {
	case captions.StateReady:
		return true
	case captions.StateTornDown:
		c.JSON(http.StatusGone, gin.H{"error": "Session ended", "state": state.String()})
	case captions.StateFailed:
		body := gin.H{"error": "Captions unavailable", "state": state.String()}
		if err := s.source.Err(); err != nil {
			body["cause"] = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, body)
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Captions not ready", "state": state.String()})
	}
	return false
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugw("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
