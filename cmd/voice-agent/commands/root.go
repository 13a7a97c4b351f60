// Package commands implements the voice-agent command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-voice-agent/internal/config"
	"github.com/teslashibe/go-voice-agent/internal/log"
	"github.com/teslashibe/go-voice-agent/pkg/agent"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// errReported marks a failure that has already been printed to the user.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "voice-agent",
	Short: "Push-to-talk voice assistant",
	Long: `voice-agent - a push-to-talk voice assistant in the terminal.

Press Enter to record five seconds of speech, or type a message instead.
Speech is transcribed locally with Whisper, answered by Perplexity Sonar,
and spoken back with Kokoro TTS. Type 'quit' or press Ctrl-C to exit.

Environment:
  PPLX_API_KEY                 Perplexity API key (required)
  VOICE_AGENT_WHISPER_MODEL    tiny, base, small, medium or large (default base)
  VOICE_AGENT_VOICE            Kokoro voice (default af_heart)
  VOICE_AGENT_RECORD_SECONDS   capture window in seconds (default 5)
  VOICE_AGENT_MODELS_DIR       model download cache
  VOICE_AGENT_AUDIO_BACKEND    auto, portaudio or mock
  VOICE_AGENT_SYSTEM_PROMPT    replaces the built-in assistant instruction
  LOG_LEVEL                    debug, info, warn or error (default warn)`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd.Context(), cmd.OutOrStdout())
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		}
		return 1
	}
	return 0
}

func runAgent(ctx context.Context, out io.Writer) error {
	printTitle(out)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "❌ Configuration Error: %v\n", err)
		return errReported
	}
	log.Init(config.LogLevel())

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := agent.New(cfg, agent.WithOutput(out), agent.WithLogger(log.L()))
	defer a.Close()

	if err := a.Initialize(ctx); err != nil {
		if voice.IsConfigurationError(err) {
			fmt.Fprintf(out, "❌ Configuration Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "❌ Initialization Error: %v\n", err)
		}
		return errReported
	}

	return a.Run(ctx)
}

func printTitle(out io.Writer) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "  🗣️  Voice Agent with Kokoro TTS & Perplexity Sonar")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
}
