package engine

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/telvox/telugutoenglish/internal/telugu"
)

// GeminiEngine implements text translation on the Gemini API. It serves as a
// fallback when the primary engine is failing; it does not handle audio.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates a new Gemini translation engine
func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrEngineUnavailable)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEngine{
		client: client,
		model:  model,
	}, nil
}

// TranslateText translates Telugu text to English
func (e *GeminiEngine) TranslateText(ctx context.Context, text string) (string, error) {
	if err := telugu.ValidateText(text); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	prompt := fmt.Sprintf("Translate the following Telugu text into natural, fluent English. "+
		"Respond with only the English translation, nothing else.\n\n%s", text)

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &TranslationError{Engine: e.Name(), Err: fmt.Errorf("Gemini API error: %w", err)}
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", &TranslationError{Engine: e.Name(), Err: fmt.Errorf("no translation returned")}
	}

	return translation, nil
}

// TranslateAudio is not supported by the Gemini fallback engine
func (e *GeminiEngine) TranslateAudio(ctx context.Context, audioPath string) (string, error) {
	return "", &TranslationError{Engine: e.Name(), Err: fmt.Errorf("audio translation not supported")}
}

// Name returns the engine name
func (e *GeminiEngine) Name() string {
	return "gemini"
}

// IsAvailable checks if the Gemini engine is configured
func (e *GeminiEngine) IsAvailable() error {
	if e.client == nil {
		return fmt.Errorf("Gemini client not initialized")
	}
	return nil
}
