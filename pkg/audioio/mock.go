package audioio

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
)

// MockSource is a mock audio source for testing.
// It generates synthetic audio (silence, a sine wave, or fixed samples)
// without waiting on a clock.
type MockSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	closed  bool

	// Stats
	starts atomic.Int64

	// Synthetic audio generation
	phase     float64
	frequency float64 // Hz, 0 = silence
	amplitude float64 // 0.0 to 1.0
	fixture   []float32
	fixPos    int
}

// MockSourceOption configures a MockSource.
type MockSourceOption func(*MockSource)

// WithSineWave configures the mock to generate a sine wave.
func WithSineWave(frequency, amplitude float64) MockSourceOption {
	return func(m *MockSource) {
		m.frequency = frequency
		m.amplitude = amplitude
	}
}

// WithSamples configures the mock to replay samples, then silence.
func WithSamples(samples []float32) MockSourceOption {
	return func(m *MockSource) {
		m.fixture = samples
	}
}

// NewMockSource creates a new mock audio source.
func NewMockSource(cfg Config, logger *slog.Logger, opts ...MockSourceOption) *MockSource {
	if logger == nil {
		logger = slog.Default()
	}

	m := &MockSource{
		cfg:       cfg,
		logger:    logger,
		frequency: 0, // Silence by default
		amplitude: 0.5,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start begins generating audio.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	if m.running {
		return nil
	}

	m.running = true
	m.starts.Add(1)
	m.logger.Debug("mock audio source started",
		"sample_rate", m.cfg.SampleRate,
		"frequency", m.frequency,
	)

	return nil
}

// Stop halts audio generation.
func (m *MockSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false
	m.logger.Debug("mock audio source stopped")

	return nil
}

// Read returns the next generated buffer.
func (m *MockSource) Read(ctx context.Context) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return Buffer{}, io.EOF
	}

	buf := m.generateChunk()
	return buf, nil
}

// generateChunk must be called with mutex held.
func (m *MockSource) generateChunk() Buffer {
	frames := m.cfg.BufferSize()
	samples := make([]float32, frames*m.cfg.Channels)

	switch {
	case m.fixPos < len(m.fixture):
		m.fixPos += copy(samples, m.fixture[m.fixPos:])
	case m.frequency > 0:
		for i := 0; i < frames; i++ {
			s := float32(m.amplitude * math.Sin(2*math.Pi*m.frequency*m.phase/float64(m.cfg.SampleRate)))
			for ch := 0; ch < m.cfg.Channels; ch++ {
				samples[i*m.cfg.Channels+ch] = s
			}
			m.phase++
			if m.phase >= float64(m.cfg.SampleRate) {
				m.phase = 0
			}
		}
	}
	// else: samples are already zero (silence)

	return Buffer{
		Samples:    samples,
		SampleRate: m.cfg.SampleRate,
		Channels:   m.cfg.Channels,
	}
}

// Config returns the audio configuration.
func (m *MockSource) Config() Config {
	return m.cfg
}

// Name returns "mock".
func (m *MockSource) Name() string {
	return string(BackendMock)
}

// Close releases resources.
func (m *MockSource) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	return m.Stop()
}

// Starts returns how many times capture was started.
func (m *MockSource) Starts() int {
	return int(m.starts.Load())
}

// Running reports whether the source is capturing.
func (m *MockSource) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

var _ Source = (*MockSource)(nil)

// MockSink is a mock audio sink for testing.
// It keeps every written buffer and counts flushes.
type MockSink struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	closed  bool
	starts  int
	flushes int
	written []Buffer
	pending int // buffers written since the last flush

	// OnFlush, if set, is called at the end of each Flush with the number of
	// buffers played so far.
	OnFlush func(played int)
}

// NewMockSink creates a new mock audio sink.
func NewMockSink(cfg Config, logger *slog.Logger) *MockSink {
	if logger == nil {
		logger = slog.Default()
	}

	return &MockSink{
		cfg:    cfg,
		logger: logger,
	}
}

// Start begins accepting audio.
func (m *MockSink) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	if !m.running {
		m.running = true
		m.starts++
		m.logger.Debug("mock audio sink started")
	}
	return nil
}

// Stop halts audio acceptance.
func (m *MockSink) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	return nil
}

// Write accepts a buffer.
func (m *MockSink) Write(ctx context.Context, buf Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !m.running {
		return io.ErrClosedPipe
	}

	m.written = append(m.written, buf)
	m.pending++
	return nil
}

// Flush marks all written buffers as played.
func (m *MockSink) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.flushes++
	m.pending = 0
	played := len(m.written)
	fn := m.OnFlush
	m.mu.Unlock()

	if fn != nil {
		fn(played)
	}
	return nil
}

// Clear discards buffers written since the last flush.
func (m *MockSink) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.written = m.written[:len(m.written)-m.pending]
	m.pending = 0
	return nil
}

// Config returns the audio configuration.
func (m *MockSink) Config() Config {
	return m.cfg
}

// Name returns "mock".
func (m *MockSink) Name() string {
	return string(BackendMock)
}

// Close releases resources.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.running = false
	return nil
}

// Written returns a copy of every buffer written so far.
func (m *MockSink) Written() []Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Buffer, len(m.written))
	copy(out, m.written)
	return out
}

// Flushes returns how many times Flush was called.
func (m *MockSink) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Starts returns how many times playback was started.
func (m *MockSink) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Running reports whether the sink is accepting audio.
func (m *MockSink) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

var _ Sink = (*MockSink)(nil)
