// Package dialogue turns one user utterance into a streamed assistant reply.
//
// Every turn sends the fixed system prompt and the utterance, nothing else.
// The engine keeps no history between turns.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/iterator"

	"github.com/teslashibe/go-voice-agent/pkg/inference"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Engine streams replies from a chat provider.
type Engine struct {
	cfg    voice.Config
	out    io.Writer
	logger *slog.Logger

	newProvider ProviderFactory

	mu       sync.Mutex
	provider inference.Provider
}

// NewEngine creates an unloaded engine.
func NewEngine(cfg voice.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "dialogue.engine")

	if e.newProvider == nil {
		e.newProvider = ClientFactory(e.logger)
	}
	return e
}

// Load builds the provider. No request is made, so a bad credential is
// only reported by the first Stream.
func (e *Engine) Load(ctx context.Context) error {
	fmt.Fprintf(e.out, "🤖 Initializing LLM (%s)...\n", e.cfg.LLMModel)

	p, err := e.newProvider(ctx, e.cfg)
	if err != nil {
		if errors.Is(err, inference.ErrNoAPIKey) {
			return &voice.ConfigurationError{Field: "APIKey", Err: voice.ErrMissingAPIKey}
		}
		return fmt.Errorf("dialogue: load: %w", err)
	}

	e.mu.Lock()
	e.provider = p
	e.mu.Unlock()

	fmt.Fprintln(e.out, "✅ LLM ready!")
	e.logger.Info("dialogue ready", "provider", p.Name(), "model", e.cfg.LLMModel)
	return nil
}

// Loaded reports whether Load has succeeded.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.provider != nil
}

// Messages returns the request messages for one turn.
func (e *Engine) Messages(userText string) []inference.Message {
	return inference.Turn(e.cfg.SystemPrompt, userText)
}

// Stream issues one streaming request for userText.
func (e *Engine) Stream(ctx context.Context, userText string) (*ReplyStream, error) {
	e.mu.Lock()
	p := e.provider
	e.mu.Unlock()

	if p == nil {
		return nil, fmt.Errorf("dialogue: stream: %w", voice.ErrEngineNotLoaded)
	}

	s, err := p.Stream(ctx, &inference.ChatRequest{Messages: e.Messages(userText)})
	if err != nil {
		return nil, &voice.TransportError{Op: "request", Err: err}
	}

	e.logger.Debug("stream opened", "chars", len(userText))
	return &ReplyStream{stream: s, start: time.Now(), logger: e.logger}, nil
}

// GetResponse drains a reply, writing each fragment to echo as it arrives.
// It returns the concatenated fragments. On a mid-stream failure the
// partial text is returned with the error.
func (e *Engine) GetResponse(ctx context.Context, userText string, echo io.Writer) (string, error) {
	rs, err := e.Stream(ctx, userText)
	if err != nil {
		return "", err
	}
	defer rs.Close()

	var b strings.Builder
	for {
		frag, err := rs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
		if echo != nil {
			io.WriteString(echo, frag)
		}
	}
	return b.String(), nil
}

// Close releases the provider.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.provider == nil {
		return nil
	}
	err := e.provider.Close()
	e.provider = nil
	return err
}

// ReplyStream is a finite, pull-based sequence of reply fragments.
// It is not restartable.
type ReplyStream struct {
	stream inference.Stream
	start  time.Time
	logger *slog.Logger

	fragments int
	done      bool
	err       error
}

// Next returns the next non-empty fragment, or iterator.Done after the
// last one. A transport failure is returned as *voice.TransportError and
// repeated on later calls.
func (r *ReplyStream) Next() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.done {
		return "", iterator.Done
	}

	for {
		chunk, err := r.stream.Recv()
		if err != nil {
			r.err = &voice.TransportError{Op: "stream", Err: err}
			r.stream.Close()
			return "", r.err
		}

		if chunk.Delta != "" {
			if r.fragments == 0 {
				r.logger.Debug("first fragment", "latency_ms", time.Since(r.start).Milliseconds())
			}
			r.fragments++
			if chunk.Done {
				r.finish()
			}
			return chunk.Delta, nil
		}

		if chunk.Done {
			r.finish()
			return "", iterator.Done
		}
	}
}

func (r *ReplyStream) finish() {
	r.done = true
	r.stream.Close()
	r.logger.Debug("stream done",
		"fragments", r.fragments,
		"latency_ms", time.Since(r.start).Milliseconds(),
	)
}

// Close abandons the stream.
func (r *ReplyStream) Close() error {
	r.done = true
	return r.stream.Close()
}
