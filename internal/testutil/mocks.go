// Package testutil provides shared mocks for handler and processor tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MockEngine mocks the translation engine
type MockEngine struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	AudioResult  string
	AudioErr     error
	AvailableErr error
	Calls        []string
}

// TranslateText mocks text translation
func (m *MockEngine) TranslateText(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("TranslateText: %s", text))
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return "mock translation", nil
}

// TranslateAudio mocks audio translation
func (m *MockEngine) TranslateAudio(ctx context.Context, audioPath string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("TranslateAudio: %s", audioPath))
	m.mu.Unlock()

	if m.AudioErr != nil {
		return "", m.AudioErr
	}
	if m.AudioResult != "" {
		return m.AudioResult, nil
	}
	return "mock audio translation", nil
}

// Name returns the mock engine name
func (m *MockEngine) Name() string {
	return "mock"
}

// IsAvailable mocks the availability check
func (m *MockEngine) IsAvailable() error {
	return m.AvailableErr
}

// CallCount returns the number of recorded calls
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSpeechProvider mocks the text-to-speech provider
type MockSpeechProvider struct {
	mu          sync.Mutex
	GenerateErr error
	AudioData   []byte
	Calls       []string
}

// GenerateAudio mocks speech synthesis by writing placeholder audio data
func (m *MockSpeechProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("GenerateAudio: %s -> %s", text, outputFile))
	m.mu.Unlock()

	if m.GenerateErr != nil {
		return m.GenerateErr
	}

	data := m.AudioData
	if data == nil {
		data = []byte("mock audio data")
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the mock provider name
func (m *MockSpeechProvider) Name() string {
	return "mock"
}

// IsAvailable mocks the availability check
func (m *MockSpeechProvider) IsAvailable() error {
	return nil
}
