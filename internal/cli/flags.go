package cli

import (
	"os"
	"path/filepath"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Port       int
	OutputDir  string
	ListModels bool
	RateLimit  int

	// Engine flags
	ChatModel      string
	WhisperModel   string
	MaxChunkTokens int

	// Speech synthesis flags
	SkipSpeech        bool
	SpeechModel       string
	SpeechVoice       string
	SpeechSpeed       float64
	SpeechFormat      string
	SpeechInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Port:           7860,
		OutputDir:      DefaultOutputDir(),
		RateLimit:      30,
		ChatModel:      "gpt-4o-mini",
		WhisperModel:   "whisper-1",
		MaxChunkTokens: 750,
		SpeechModel:    "gpt-4o-mini-tts",
		SpeechVoice:    "alloy",
		SpeechSpeed:    1.0,
		SpeechFormat:   "mp3",
	}
}

// DefaultOutputDir returns the default directory for synthesized audio files
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "telugutoenglish", "audio")
	}
	return filepath.Join(home, ".local", "state", "telugutoenglish", "audio")
}
