package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/telvox/telugutoenglish/internal/cli"
	"codeberg.org/telvox/telugutoenglish/internal/engine"
	"codeberg.org/telvox/telugutoenglish/internal/models"
	"codeberg.org/telvox/telugutoenglish/internal/server"
	"codeberg.org/telvox/telugutoenglish/internal/speech"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The engine is fully initialized here, before any request can be
	// accepted, and is shared read-only afterwards.
	engineConfig := &engine.Config{
		OpenAIKey:      cli.GetOpenAIKey(),
		ChatModel:      flags.ChatModel,
		WhisperModel:   flags.WhisperModel,
		MaxChunkTokens: flags.MaxChunkTokens,
		GeminiKey:      cli.GetGeminiKey(),
	}

	eng, err := engine.NewEngine(ctx, engineConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize translation engine: %w", err)
	}
	fmt.Printf("Translation engine ready: %s\n", eng.Name())

	speechProvider := setupSpeech(flags)

	// One-shot CLI mode
	if len(args) > 0 {
		return translateOnce(ctx, eng, speechProvider, flags, args[0])
	}

	// Serve the web UI
	srv := server.New(eng, speechProvider, &server.Config{
		Port:         flags.Port,
		AudioDir:     flags.OutputDir,
		SpeechFormat: flags.SpeechFormat,
		RateLimit:    flags.RateLimit,
	})

	return srv.Run(ctx)
}

// setupSpeech creates the TTS provider, or returns nil when synthesis is
// disabled or misconfigured. Speech is an enhancement; its absence never
// blocks translation.
func setupSpeech(flags *cli.Flags) speech.Provider {
	if flags.SkipSpeech {
		return nil
	}

	provider, err := speech.NewProvider(&speech.Config{
		Provider:          "openai",
		OutputDir:         flags.OutputDir,
		OutputFormat:      flags.SpeechFormat,
		OpenAIKey:         cli.GetOpenAIKey(),
		OpenAIModel:       flags.SpeechModel,
		OpenAIVoice:       flags.SpeechVoice,
		OpenAISpeed:       flags.SpeechSpeed,
		OpenAIInstruction: flags.SpeechInstruction,
		CacheDir:          filepath.Join(flags.OutputDir, "cache"),
		EnableCache:       true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: speech synthesis disabled: %v\n", err)
		return nil
	}
	return provider
}

// translateOnce translates a single text argument and prints the result
func translateOnce(ctx context.Context, eng engine.Engine, speechProvider speech.Provider, flags *cli.Flags, text string) error {
	fmt.Printf("Translating: %s\n", text)

	translation, err := eng.TranslateText(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("Translation: %s\n", translation)

	if speechProvider == nil {
		return nil
	}

	if err := os.MkdirAll(flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	outputFile := filepath.Join(flags.OutputDir,
		fmt.Sprintf("translated_audio_%s.%s", timestamp, flags.SpeechFormat))

	if err := speechProvider.GenerateAudio(ctx, translation, outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: speech synthesis failed: %v\n", err)
		return nil
	}

	fmt.Printf("Spoken translation saved to: %s\n", outputFile)
	return nil
}
