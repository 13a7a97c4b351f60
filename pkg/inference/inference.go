// Package inference streams chat completions from an OpenAI-compatible API.
//
// The default endpoint is Perplexity. Any server speaking the
// chat/completions SSE protocol works by overriding the base URL.
//
//	client, _ := inference.NewClient(
//	    inference.WithAPIKey(os.Getenv("PPLX_API_KEY")),
//	    inference.WithModel("sonar"),
//	)
//	defer client.Close()
//
//	stream, _ := client.Stream(ctx, &inference.ChatRequest{
//	    Messages: inference.Turn("Be brief.", "Hello!"),
//	})
//	defer stream.Close()
//	for {
//	    chunk, err := stream.Recv()
//	    if err != nil || chunk.Done {
//	        break
//	    }
//	    fmt.Print(chunk.Delta)
//	}
package inference

import "context"

// Provider is a streaming chat completion backend.
type Provider interface {
	// Stream starts a streaming completion. Request failures may surface
	// on the first Recv rather than here.
	Stream(ctx context.Context, req *ChatRequest) (Stream, error)

	// Name identifies the provider in logs and errors.
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}

// Stream is a streaming response for real-time output.
type Stream interface {
	// Recv returns the next chunk. A chunk with Done set ends the stream.
	Recv() (*StreamChunk, error)

	// Close stops the stream and releases resources.
	Close() error
}

// StreamChunk is a piece of a streaming response.
type StreamChunk struct {
	// Delta is the incremental text content. It may be empty.
	Delta string

	// FinishReason indicates why generation stopped (stop, length).
	FinishReason string

	// Done is true when the stream is complete.
	Done bool
}

// ChatRequest for chat completions.
type ChatRequest struct {
	// Messages is the conversation sent for this turn.
	Messages []Message

	// Model overrides the default model.
	Model string

	// MaxTokens limits the response length. Zero leaves it to the server.
	MaxTokens int

	// Temperature overrides the default when non-zero.
	Temperature float64
}
