package dialogue

import (
	"context"
	"io"
	"log/slog"

	"github.com/teslashibe/go-voice-agent/pkg/inference"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// ProviderFactory builds the chat provider at Load time.
type ProviderFactory func(ctx context.Context, cfg voice.Config) (inference.Provider, error)

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithProviderFactory replaces the default OpenAI-compatible client.
func WithProviderFactory(f ProviderFactory) Option {
	return func(e *Engine) { e.newProvider = f }
}

// WithProvider uses p directly.
func WithProvider(p inference.Provider) Option {
	return func(e *Engine) {
		e.newProvider = func(context.Context, voice.Config) (inference.Provider, error) { return p, nil }
	}
}

// WithOutput sets where status lines are printed.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// ClientFactory returns the default factory: an inference.Client bound to
// the configured endpoint, model, temperature and credential.
func ClientFactory(logger *slog.Logger) ProviderFactory {
	return func(_ context.Context, cfg voice.Config) (inference.Provider, error) {
		opts := []inference.Option{
			inference.WithAPIKey(cfg.APIKey),
			inference.WithModel(cfg.LLMModel),
			inference.WithTemperature(cfg.Temperature),
		}
		if cfg.LLMBaseURL != "" {
			opts = append(opts, inference.WithBaseURL(cfg.LLMBaseURL))
		}
		if logger != nil {
			opts = append(opts, inference.WithLogger(logger))
		}
		return inference.NewClient(opts...)
	}
}
