package tts

import (
	"context"
	"sync"
	"time"

	"google.golang.org/api/iterator"
)

// Mock implements Synthesizer for testing.
type Mock struct {
	// SynthesizeFunc returns the segments for text.
	// If nil, each sentence becomes one segment of silence.
	SynthesizeFunc func(ctx context.Context, text string) ([]*Segment, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	// Rate is the sample rate of generated segments (default 24000).
	Rate int

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Text   string
	Time   time.Time
}

// NewMock creates a mock that speaks each sentence as silence,
// roughly 20ms per character.
func NewMock() *Mock {
	m := &Mock{Rate: 24000}
	m.SynthesizeFunc = func(ctx context.Context, text string) ([]*Segment, error) {
		var segs []*Segment
		for _, s := range SplitSentences(text, 0) {
			segs = append(segs, &Segment{
				Text:       s,
				Samples:    make([]float32, len([]rune(s))*m.Rate/50),
				SampleRate: m.Rate,
			})
		}
		return segs, nil
	}
	return m
}

// Synthesize calls SynthesizeFunc and records the call.
func (m *Mock) Synthesize(ctx context.Context, text string) (SegmentIterator, error) {
	m.recordCall("Synthesize", text)
	if m.SynthesizeFunc == nil {
		return &sliceIterator{}, nil
	}
	segs, err := m.SynthesizeFunc(ctx, text)
	if err != nil {
		return nil, err
	}
	return &sliceIterator{segs: segs}, nil
}

// SampleRate returns Rate.
func (m *Mock) SampleRate() int {
	if m.Rate == 0 {
		return 24000
	}
	return m.Rate
}

// Name returns "mock".
func (m *Mock) Name() string {
	return "mock"
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.recordCall("Close", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) recordCall(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Text:   text,
		Time:   time.Now(),
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

// WithError returns a mock whose Synthesize always fails.
func WithError(err error) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) ([]*Segment, error) {
			return nil, err
		},
	}
}

// WithSegments returns a mock that yields segs for any text.
func WithSegments(segs ...*Segment) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) ([]*Segment, error) {
			return segs, nil
		},
	}
}

type sliceIterator struct {
	segs   []*Segment
	pos    int
	closed bool
}

func (it *sliceIterator) Next() (*Segment, error) {
	if it.closed {
		return nil, ErrIteratorClosed
	}
	if it.pos >= len(it.segs) {
		return nil, iterator.Done
	}
	it.pos++
	return it.segs[it.pos-1], nil
}

func (it *sliceIterator) Close() error {
	it.closed = true
	return nil
}

var (
	_ Synthesizer     = (*Mock)(nil)
	_ SegmentIterator = (*sliceIterator)(nil)
)
