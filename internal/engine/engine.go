// Package engine provides Telugu to English translation engines backed by
// remote model APIs. An engine is constructed once at startup and is safe
// for concurrent use by any number of sessions afterwards.
package engine

import (
	"context"
	"errors"
	"fmt"
)

// ErrEngineUnavailable indicates the engine is not ready to serve: missing
// credentials, failed initialization, or an open circuit breaker.
var ErrEngineUnavailable = errors.New("translation engine unavailable")

// ErrInvalidInput indicates the request failed input validation.
var ErrInvalidInput = errors.New("invalid input")

// TranslationError wraps an inference-time failure from the underlying model API.
type TranslationError struct {
	Engine string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("%s translation failed: %v", e.Engine, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Engine defines the interface for translation engines
type Engine interface {
	// TranslateText translates Telugu text to English
	TranslateText(ctx context.Context, text string) (string, error)

	// TranslateAudio translates spoken Telugu in an audio file to English text
	TranslateAudio(ctx context.Context, audioPath string) (string, error)

	// Name returns the engine name
	Name() string

	// IsAvailable checks if the engine is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for translation engines
type Config struct {
	OpenAIKey      string
	ChatModel      string // model for text translation
	WhisperModel   string // model for audio translation
	MaxChunkTokens int    // per-request token budget for long text

	// Gemini fallback settings
	GeminiKey   string
	GeminiModel string
}

// DefaultConfig returns default engine configuration
func DefaultConfig() *Config {
	return &Config{
		ChatModel:      "gpt-4o-mini",
		WhisperModel:   "whisper-1",
		MaxChunkTokens: 750,
		GeminiModel:    "gemini-2.0-flash",
	}
}

// NewEngine creates the translation engine from configuration. When a Gemini
// key is configured the OpenAI engine is wrapped with a Gemini fallback for
// text translation.
func NewEngine(ctx context.Context, config *Config) (Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	primary, err := NewOpenAIEngine(config)
	if err != nil {
		return nil, err
	}

	if config.GeminiKey == "" {
		return primary, nil
	}

	fallback, err := NewGeminiEngine(ctx, config.GeminiKey, config.GeminiModel)
	if err != nil {
		fmt.Printf("Warning: Gemini fallback not available: %v\n", err)
		return primary, nil
	}

	return NewEngineWithFallback(primary, fallback), nil
}

// EngineWithFallback wraps a primary engine with a fallback option
type EngineWithFallback struct {
	primary  Engine
	fallback Engine
}

// NewEngineWithFallback creates an engine that falls back to secondary if primary fails
func NewEngineWithFallback(primary, fallback Engine) Engine {
	return &EngineWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// TranslateText tries the primary engine first, falls back to secondary on error.
// Validation errors are final: the fallback would reject the same input.
func (e *EngineWithFallback) TranslateText(ctx context.Context, text string) (string, error) {
	result, err := e.primary.TranslateText(ctx, text)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return "", err
	}

	fmt.Printf("Primary engine (%s) failed: %v. Falling back to %s\n",
		e.primary.Name(), err, e.fallback.Name())

	return e.fallback.TranslateText(ctx, text)
}

// TranslateAudio delegates to the primary engine only; fallback engines are text-only
func (e *EngineWithFallback) TranslateAudio(ctx context.Context, audioPath string) (string, error) {
	return e.primary.TranslateAudio(ctx, audioPath)
}

// Name returns the engine name
func (e *EngineWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", e.primary.Name(), e.fallback.Name())
}

// IsAvailable checks if at least one engine is available
func (e *EngineWithFallback) IsAvailable() error {
	primaryErr := e.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := e.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both engines unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
