package tts

import (
	"io"
	"log/slog"

	"github.com/teslashibe/go-voice-agent/pkg/audioio"
	"github.com/teslashibe/go-voice-agent/pkg/models"
)

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithSynthesizerFactory replaces the default Kokoro synthesizer.
func WithSynthesizerFactory(f SynthesizerFactory) Option {
	return func(e *Engine) { e.newSynth = f }
}

// WithSink plays through sink instead of opening the default device.
func WithSink(sink audioio.Sink) Option {
	return func(e *Engine) {
		e.newSink = func(audioio.Config) (audioio.Sink, error) { return sink, nil }
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

// WithSegmentHook registers fn to run after each segment has played.
func WithSegmentHook(fn func(*Segment)) Option {
	return func(e *Engine) { e.onSegment = fn }
}
