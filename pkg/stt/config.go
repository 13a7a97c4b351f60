package stt

import (
	"io"
	"log/slog"

	"github.com/teslashibe/go-voice-agent/pkg/audioio"
	"github.com/teslashibe/go-voice-agent/pkg/models"
)

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithRecognizerFactory replaces the default Whisper recognizer.
func WithRecognizerFactory(f RecognizerFactory) Option {
	return func(e *Engine) { e.newRecognizer = f }
}

// WithSource uses src for capture instead of opening the default device.
func WithSource(src audioio.Source) Option {
	return func(e *Engine) {
		e.newSource = func(audioio.Config) (audioio.Source, error) { return src, nil }
	}
}

// WithModelManager sets the cache used to resolve model bundles.
func WithModelManager(m *models.Manager) Option {
	return func(e *Engine) { e.manager = m }
}

// WithOutput sets where status lines are printed.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}
