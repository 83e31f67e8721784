package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/telvox/telugutoenglish/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "telugutoenglish [text]",
		Short: "Telugu to English Translation Service",
		Long: `telugutoenglish translates Telugu text and speech to English.

Without arguments it serves an interactive web UI on the configured port.
With a text argument it translates once on the command line and exits.
Translation uses the OpenAI API; translated audio responses are spoken
back using OpenAI text-to-speech.

Examples:
  telugutoenglish                       # Serve the web UI on port 7860
  telugutoenglish "నమస్కారం"            # Translate one string via CLI
  telugutoenglish --port 8080           # Serve on a different port
  telugutoenglish --skip-speech         # Disable speech synthesis`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.telugutoenglish.yaml)")

	// Local flags
	cmd.Flags().IntVarP(&flags.Port, "port", "p", flags.Port, "Port for the web UI")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Directory for synthesized audio files")
	cmd.Flags().IntVar(&flags.RateLimit, "rate-limit", flags.RateLimit, "API requests per minute per client (0 disables)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Engine flags
	cmd.Flags().StringVar(&flags.ChatModel, "openai-model", flags.ChatModel, "OpenAI model for text translation")
	cmd.Flags().StringVar(&flags.WhisperModel, "whisper-model", flags.WhisperModel, "OpenAI model for audio translation")
	cmd.Flags().IntVar(&flags.MaxChunkTokens, "max-chunk-tokens", flags.MaxChunkTokens, "Token budget per translation chunk for long text")

	// Speech synthesis flags
	cmd.Flags().BoolVar(&flags.SkipSpeech, "skip-speech", false, "Skip speech synthesis of translated text")
	cmd.Flags().StringVar(&flags.SpeechModel, "speech-model", flags.SpeechModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.SpeechVoice, "speech-voice", flags.SpeechVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")
	cmd.Flags().Float64Var(&flags.SpeechSpeed, "speech-speed", flags.SpeechSpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.Flags().StringVarP(&flags.SpeechFormat, "format", "f", flags.SpeechFormat, "Audio format (wav or mp3)")
	cmd.Flags().StringVar(&flags.SpeechInstruction, "speech-instruction", "", "Voice instructions for the gpt-4o-mini-tts model")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.rate_limit", cmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("engine.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("engine.whisper_model", cmd.Flags().Lookup("whisper-model"))
	viper.BindPFlag("engine.max_chunk_tokens", cmd.Flags().Lookup("max-chunk-tokens"))
	viper.BindPFlag("speech.model", cmd.Flags().Lookup("speech-model"))
	viper.BindPFlag("speech.voice", cmd.Flags().Lookup("speech-voice"))
	viper.BindPFlag("speech.speed", cmd.Flags().Lookup("speech-speed"))
	viper.BindPFlag("speech.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("speech.instruction", cmd.Flags().Lookup("speech-instruction"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// API keys may be provided through a .env file in the working directory
	if err := godotenv.Load(".env"); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env")
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".telugutoenglish" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".telugutoenglish")
	}

	// Environment variables
	viper.SetEnvPrefix("TELUGUTOENGLISH")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("engine.openai_key")
}

// GetGeminiKey retrieves the Gemini API key used by the fallback engine
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("engine.gemini_key")
}
