package agent

import (
	"io"
	"log/slog"

	"github.com/teslashibe/go-voice-agent/pkg/models"
)

// Option is a functional option for configuring the Agent.
type Option func(*Agent)

// WithListener replaces the speech capture and transcription engine.
func WithListener(l Listener) Option {
	return func(a *Agent) { a.listener = l }
}

// WithResponder replaces the dialogue engine.
func WithResponder(r Responder) Option {
	return func(a *Agent) { a.responder = r }
}

// WithSpeaker replaces the speech synthesis engine.
func WithSpeaker(s Speaker) Option {
	return func(a *Agent) { a.speaker = s }
}

// WithInput sets where user lines are read from (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(a *Agent) { a.in = r }
}

// WithOutput sets where the conversation is printed (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *Agent) { a.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithModelManager sets the model cache shared by the default engines.
func WithModelManager(m *models.Manager) Option {
	return func(a *Agent) { a.manager = m }
}
