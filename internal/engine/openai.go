package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"codeberg.org/telvox/telugutoenglish/internal/chunk"
	"codeberg.org/telvox/telugutoenglish/internal/telugu"
)

// OpenAIEngine implements Engine on the OpenAI API: chat completions for
// text translation and the Whisper translation endpoint for audio.
type OpenAIEngine struct {
	config  *Config
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
	cache   *Cache
}

// NewOpenAIEngine creates a new OpenAI translation engine
func NewOpenAIEngine(config *Config) (*OpenAIEngine, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", ErrEngineUnavailable)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &OpenAIEngine{
		config:  config,
		client:  openai.NewClient(config.OpenAIKey),
		breaker: breaker,
		cache:   NewCache(),
	}, nil
}

// TranslateText translates Telugu text to English. Long input is split into
// chunks which are translated concurrently and joined in input order.
func (e *OpenAIEngine) TranslateText(ctx context.Context, text string) (string, error) {
	if err := telugu.ValidateText(text); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}

	chunks := chunk.SplitByTokens(text, e.config.MaxChunkTokens)

	translated := make([]string, len(chunks))
	chunkErrs := make([]error, len(chunks))

	var wg sync.WaitGroup
	wg.Add(len(chunks))

	for i, c := range chunks {
		go func(index int, chunkText string) {
			defer wg.Done()
			translated[index], chunkErrs[index] = e.translateChunk(ctx, chunkText)
		}(i, c)
	}

	wg.Wait()

	for i, err := range chunkErrs {
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	result := strings.Join(translated, " ")
	e.cache.Add(text, result)
	return result, nil
}

// translateChunk translates a single chunk of Telugu text
func (e *OpenAIEngine) translateChunk(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a professional Telugu-to-English translator. " +
					"Translate the Telugu text provided by the user into natural, fluent English. " +
					"Respond with only the English translation, nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.3,
	}

	resp, err := e.execute(func() (any, error) {
		return e.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return "", err
	}

	completion := resp.(openai.ChatCompletionResponse)
	if len(completion.Choices) == 0 {
		return "", &TranslationError{Engine: e.Name(), Err: fmt.Errorf("no translation returned")}
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// TranslateAudio translates spoken Telugu in an audio file directly to
// English text using the Whisper translation task.
func (e *OpenAIEngine) TranslateAudio(ctx context.Context, audioPath string) (string, error) {
	req := openai.AudioRequest{
		Model:    e.config.WhisperModel,
		FilePath: audioPath,
	}

	resp, err := e.execute(func() (any, error) {
		return e.client.CreateTranslation(ctx, req)
	})
	if err != nil {
		return "", err
	}

	translation := strings.TrimSpace(resp.(openai.AudioResponse).Text)
	if translation == "" {
		return "", &TranslationError{Engine: e.Name(), Err: fmt.Errorf("no speech recognized in audio")}
	}

	return translation, nil
}

// execute runs an API call through the circuit breaker and maps breaker and
// API failures onto the engine error taxonomy.
func (e *OpenAIEngine) execute(call func() (any, error)) (any, error) {
	resp, err := e.breaker.Execute(call)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: too many upstream failures, retry later", ErrEngineUnavailable)
		}
		return nil, &TranslationError{Engine: e.Name(), Err: fmt.Errorf("OpenAI API error: %w", err)}
	}
	return resp, nil
}

// Name returns the engine name
func (e *OpenAIEngine) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is usable right now
func (e *OpenAIEngine) IsAvailable() error {
	if e.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	if e.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker open after repeated upstream failures")
	}
	return nil
}
