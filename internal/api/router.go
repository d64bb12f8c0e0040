// Package api serves the model compiler over HTTP. Every request carries
// its own input tree; the server keeps no state between requests.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter returns the gin engine with every route registered.
func NewRouter(log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log))

	r.GET("/healthz", HealthHandler())

	v1 := r.Group("/v1")
	{
		v1.POST("/sql", SQLHandler())
		v1.POST("/schemas", SchemasHandler())
		v1.POST("/schemas/entity", EntitySchemaHandler())
		v1.POST("/schemas/relation", RelationSchemaHandler())
		v1.POST("/tables", TablesHandler())
		v1.POST("/tables/:name/unique", UniqueColumnsHandler())
		v1.POST("/resolve/:form/:name", ResolveHandler())
		v1.GET("/naming/:name", NamingHandler())
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
