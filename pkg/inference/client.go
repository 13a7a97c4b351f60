package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/packages/ssestream"
)

const providerClient = "client"

// Client streams completions from any OpenAI-compatible API
// (Perplexity, OpenAI, Together, Groq, vLLM, etc.).
type Client struct {
	oai    openai.Client
	config *Config
	logger *slog.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a new inference client.
// The credential is not checked against the server until the first request.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/") + "/"),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.HTTPClient))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		oai:    openai.NewClient(reqOpts...),
		config: cfg,
		logger: logger.With("component", "inference.client"),
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerClient
}

// Stream starts a streaming chat completion.
func (c *Client) Stream(ctx context.Context, req *ChatRequest) (Stream, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	params := c.buildParams(req)

	c.logger.Debug("stream request",
		"model", params.Model,
		"messages", len(req.Messages),
	)

	return &clientStream{
		stream: c.oai.Chat.Completions.NewStreaming(ctx, params),
		logger: c.logger,
	}, nil
}

// Close releases resources. The underlying HTTP client is shared.
func (c *Client) Close() error {
	return nil
}

func (c *Client) buildParams(req *ChatRequest) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	temp := req.Temperature
	if temp == 0 {
		temp = c.config.Temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, toOpenAIMessage(m))
	}

	params := openai.ChatCompletionNewParams{
		Messages:    msgs,
		Model:       model,
		Temperature: param.NewOpt(temp),
	}
	if maxTokens > 0 {
		params.MaxTokens = param.NewOpt(int64(maxTokens))
	}
	return params
}

func toOpenAIMessage(m Message) openai.ChatCompletionMessageParamUnion {
	switch m.Role {
	case RoleSystem:
		return openai.SystemMessage(m.Content)
	case RoleAssistant:
		return openai.AssistantMessage(m.Content)
	default:
		return openai.UserMessage(m.Content)
	}
}

// clientStream adapts the SSE decoder to the Stream interface.
type clientStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	done   bool
}

// Recv returns the next non-empty chunk.
func (s *clientStream) Recv() (*StreamChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.done {
		return &StreamChunk{Done: true}, nil
	}

	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]
		if choice.Delta.Content == "" && choice.FinishReason == "" {
			continue
		}

		if choice.FinishReason != "" {
			s.done = true
		}
		return &StreamChunk{
			Delta:        choice.Delta.Content,
			FinishReason: choice.FinishReason,
			Done:         s.done,
		}, nil
	}

	if err := s.stream.Err(); err != nil {
		return nil, convertError(err)
	}

	s.done = true
	return &StreamChunk{Done: true}, nil
}

// Close stops the stream.
func (s *clientStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.stream.Close()
}

// convertError maps SDK errors onto this package's error types.
func convertError(err error) error {
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		msg := oaiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(oaiErr.RawJSON())
		}
		return &APIError{
			StatusCode: oaiErr.StatusCode,
			Message:    msg,
			Code:       oaiErr.Code,
			Provider:   providerClient,
		}
	}
	return WrapError(providerClient, fmt.Errorf("stream: %w", err))
}
