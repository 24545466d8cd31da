// Package api exposes the tracker session over HTTP
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/khrees2412/pipeliner/internal/tracker"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires every route onto a fresh gin engine
func NewRouter(session *tracker.Session, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	h := NewHandler(session, log)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		api.GET("/jobs", h.ListJobs)
		api.POST("/jobs", h.CreateJob)
		api.POST("/jobs/extract", h.ExtractJob)
		api.GET("/jobs/:id", h.GetJob)
		api.PUT("/jobs/:id", h.UpdateJob)
		api.DELETE("/jobs/:id", h.DeleteJob)
		api.PATCH("/jobs/:id/status", h.SetStatus)

		api.POST("/jobs/:id/stages", h.AddStage)
		api.PATCH("/jobs/:id/stages/:stageId", h.UpdateStage)
		api.DELETE("/jobs/:id/stages/:stageId", h.RemoveStage)

		api.GET("/dashboard", h.Dashboard)
		api.GET("/calendar", h.Calendar)

		api.POST("/inbox/scan", h.ScanInbox)
		api.POST("/inbox/apply", h.ApplySuggestion)
	}
	return r
}

// Serve runs the API on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
