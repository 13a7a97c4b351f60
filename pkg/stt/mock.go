package stt

import (
	"context"
	"sync"
	"time"
)

// MockRecognizer implements Recognizer for testing.
type MockRecognizer struct {
	// TranscribeFunc is called when Transcribe is invoked.
	TranscribeFunc func(ctx context.Context, samples []float32, sampleRate int) (string, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method     string
	Samples    int
	SampleRate int
	Time       time.Time
}

// NewMockRecognizer creates a mock that always returns text.
func NewMockRecognizer(text string) *MockRecognizer {
	return &MockRecognizer{
		TranscribeFunc: func(ctx context.Context, samples []float32, sampleRate int) (string, error) {
			return text, nil
		},
	}
}

// NewMockRecognizerWithError creates a mock that always fails.
func NewMockRecognizerWithError(err error) *MockRecognizer {
	return &MockRecognizer{
		TranscribeFunc: func(ctx context.Context, samples []float32, sampleRate int) (string, error) {
			return "", err
		},
	}
}

// Transcribe calls TranscribeFunc and records the call.
func (m *MockRecognizer) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	m.record(MockCall{Method: "Transcribe", Samples: len(samples), SampleRate: sampleRate})
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, samples, sampleRate)
	}
	return "", nil
}

// Name returns "mock".
func (m *MockRecognizer) Name() string {
	return "mock"
}

// Close calls CloseFunc and records the call.
func (m *MockRecognizer) Close() error {
	m.record(MockCall{Method: "Close"})
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockRecognizer) record(c MockCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Time = time.Now()
	m.calls = append(m.calls, c)
}

// Calls returns all recorded calls.
func (m *MockRecognizer) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of calls to a specific method.
func (m *MockRecognizer) CallCount(method string) int {
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
func (m *MockRecognizer) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	c := m.calls[len(m.calls)-1]
	return &c
}

// Reset clears all recorded calls.
func (m *MockRecognizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ Recognizer = (*MockRecognizer)(nil)
