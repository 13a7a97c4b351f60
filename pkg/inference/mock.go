package inference

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
type Mock struct {
	// StreamFunc is called when Stream is invoked.
	StreamFunc func(ctx context.Context, req *ChatRequest) (Stream, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method  string
	Request *ChatRequest
	Time    time.Time
}

// NewMock creates a mock provider that streams the given fragments in order.
// With no fragments it streams "Mock response".
func NewMock(fragments ...string) *Mock {
	if len(fragments) == 0 {
		fragments = []string{"Mock response"}
	}
	return &Mock{
		StreamFunc: func(ctx context.Context, req *ChatRequest) (Stream, error) {
			return NewMockStream(fragments...), nil
		},
	}
}

// Stream calls StreamFunc and records the call.
func (m *Mock) Stream(ctx context.Context, req *ChatRequest) (Stream, error) {
	m.record("Stream", req)
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}
	return NewMockStream(), nil
}

// Name returns "mock".
func (m *Mock) Name() string {
	return "mock"
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close", nil)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method string, req *ChatRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:  method,
		Request: req,
		Time:    time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// LastCall returns the most recent call, or nil if none.
func (m *Mock) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// WithError returns a mock whose Stream always fails with err.
func WithError(err error) *Mock {
	return &Mock{
		StreamFunc: func(ctx context.Context, req *ChatRequest) (Stream, error) {
			return nil, err
		},
	}
}

// WithStreamError returns a mock whose stream yields fragments and then
// fails with err, as a dropped connection would.
func WithStreamError(err error, fragments ...string) *Mock {
	return &Mock{
		StreamFunc: func(ctx context.Context, req *ChatRequest) (Stream, error) {
			s := NewMockStream(fragments...)
			s.Err = err
			return s, nil
		},
	}
}

// MockStream yields fixed fragments and then either Done or Err.
type MockStream struct {
	Fragments []string
	Err       error

	mu     sync.Mutex
	pos    int
	closed bool
}

// NewMockStream creates a stream over the given fragments.
func NewMockStream(fragments ...string) *MockStream {
	return &MockStream{Fragments: fragments}
}

// Recv returns the next fragment.
func (s *MockStream) Recv() (*StreamChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.pos < len(s.Fragments) {
		s.pos++
		return &StreamChunk{Delta: s.Fragments[s.pos-1]}, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return &StreamChunk{FinishReason: "stop", Done: true}, nil
}

// Close marks the stream closed.
func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var (
	_ Provider = (*Mock)(nil)
	_ Stream   = (*MockStream)(nil)
)
