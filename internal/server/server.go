// Package server exposes the translation engine over an interactive web UI
// and a small JSON API, in the style of the hosted demo it replaces.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/telvox/telugutoenglish/internal/engine"
	"codeberg.org/telvox/telugutoenglish/internal/speech"
)

// Config holds server configuration
type Config struct {
	Port         int
	AudioDir     string // directory for synthesized speech files
	SpeechFormat string // "mp3" or "wav"
	RateLimit    int    // API requests per minute per client IP, 0 disables
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Port:         7860,
		SpeechFormat: "mp3",
		RateLimit:    30,
	}
}

// Server serves the translation UI and API. The engine handle is set once at
// construction and shared read-only by every request goroutine.
type Server struct {
	engine engine.Engine
	speech speech.Provider // nil when speech synthesis is disabled
	config *Config
	router *gin.Engine
}

// New creates a server around an already-initialized engine
func New(eng engine.Engine, speechProvider speech.Provider, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		engine: eng,
		speech: speechProvider,
		config: config,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(corsConfig())
	router.Use(requestID())

	router.MaxMultipartMemory = 10 << 20 // MB : 10 MB

	router.GET("/", s.handleIndex)
	router.GET("/healthz", s.handleHealth)
	router.GET("/audio/:name", s.handleAudioFile)

	api := router.Group("/api")
	if s.config.RateLimit > 0 {
		api.Use(NewRateLimiter(s.config.RateLimit, time.Minute).RateLimit())
	}
	api.POST("/translate", s.handleTranslate)
	api.POST("/translate/audio", s.handleTranslateAudio)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "not_found",
			"message": "no such route",
		})
	})

	return router
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run binds the configured port and serves until ctx is cancelled, then
// drains in-flight requests and releases the port.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	fmt.Printf("Serving Telugu to English translation on http://localhost:%d\n", s.config.Port)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func corsConfig() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		AllowOrigins:  []string{"*"},
		MaxAge:        12 * time.Hour,
	})
}
