// Package speech synthesizes spoken English from translated text using the
// OpenAI text-to-speech API. Synthesized files are transient artifacts cached
// by content hash so repeat translations do not re-bill the TTS endpoint.
package speech

import (
	"context"
	"fmt"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for speech providers
type Config struct {
	Provider     string // Provider name: "openai"
	OutputDir    string // Directory for output files
	OutputFormat string // Output format: "mp3" or "wav"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Cache settings
	CacheDir    string
	EnableCache bool
}

// DefaultConfig returns default speech configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:     "openai",
		OutputDir:    "./",
		OutputFormat: "mp3",
		OpenAIModel:  "gpt-4o-mini-tts",
		OpenAIVoice:  "alloy",
		OpenAISpeed:  1.0,
		OpenAIInstruction: "You are reading an English translation aloud. " +
			"Speak clearly at a natural pace.",
	}
}

// NewProvider creates the appropriate speech provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
}
