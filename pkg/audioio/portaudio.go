package audioio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// portAudioSource captures from the default input device with a blocking
// PortAudio stream.
type portAudioSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []float32
	running bool
	closed  bool
}

func newPortAudioSource(cfg Config, logger *slog.Logger) (*portAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	return &portAudioSource{
		cfg:    cfg,
		logger: logger.With("component", "audioio.portaudio.source"),
		buf:    make([]float32, cfg.BufferSize()*cfg.Channels),
	}, nil
}

// Start opens and starts the default input stream.
func (s *portAudioSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(
		s.cfg.Channels, // input channels
		0,              // output channels
		float64(s.cfg.SampleRate),
		s.cfg.BufferSize(),
		s.buf,
	)
	if err != nil {
		return fmt.Errorf("portaudio: open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("portaudio: start input stream: %w", err)
	}

	s.stream = stream
	s.running = true
	s.logger.Debug("input stream started", "sample_rate", s.cfg.SampleRate)
	return nil
}

// Stop stops and closes the input stream.
func (s *portAudioSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	err := s.stream.Stop()
	if cerr := s.stream.Close(); err == nil {
		err = cerr
	}
	s.stream = nil
	s.logger.Debug("input stream stopped")
	return err
}

// Read blocks until one device buffer has been captured.
func (s *portAudioSource) Read(ctx context.Context) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Buffer{}, io.EOF
	}

	if err := s.stream.Read(); err != nil {
		if !errors.Is(err, portaudio.InputOverflowed) {
			return Buffer{}, err
		}
		s.logger.Debug("input overflowed, samples dropped")
	}

	samples := make([]float32, len(s.buf))
	copy(samples, s.buf)
	return Buffer{
		Samples:    samples,
		SampleRate: s.cfg.SampleRate,
		Channels:   s.cfg.Channels,
	}, nil
}

// Config returns the audio configuration.
func (s *portAudioSource) Config() Config {
	return s.cfg
}

// Name returns "portaudio".
func (s *portAudioSource) Name() string {
	return string(BackendPortAudio)
}

// Close stops capture and releases PortAudio.
func (s *portAudioSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.Stop()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

// portAudioSink plays to the default output device with a blocking
// PortAudio stream.
type portAudioSink struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []float32
	running bool
	closed  bool
}

func newPortAudioSink(cfg Config, logger *slog.Logger) (*portAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	return &portAudioSink{
		cfg:    cfg,
		logger: logger.With("component", "audioio.portaudio.sink"),
		buf:    make([]float32, cfg.BufferSize()*cfg.Channels),
	}, nil
}

// Start opens and starts the default output stream.
func (s *portAudioSink) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(
		0,              // input channels
		s.cfg.Channels, // output channels
		float64(s.cfg.SampleRate),
		s.cfg.BufferSize(),
		s.buf,
	)
	if err != nil {
		return fmt.Errorf("portaudio: open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("portaudio: start output stream: %w", err)
	}

	s.stream = stream
	s.running = true
	s.logger.Debug("output stream started", "sample_rate", s.cfg.SampleRate)
	return nil
}

// Stop stops and closes the output stream. Pending audio is drained by
// PortAudio before the stream stops.
func (s *portAudioSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	err := s.stream.Stop()
	if cerr := s.stream.Close(); err == nil {
		err = cerr
	}
	s.stream = nil
	s.logger.Debug("output stream stopped")
	return err
}

// Write copies buf into the device, one device buffer at a time. The final
// partial buffer is padded with silence.
func (s *portAudioSink) Write(ctx context.Context, buf Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.running {
		return io.ErrClosedPipe
	}

	for off := 0; off < len(buf.Samples); {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(s.buf, buf.Samples[off:])
		clear(s.buf[n:])
		if err := s.stream.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			return err
		}
		off += n
	}
	return nil
}

// Flush waits out the device's output latency so the last written buffer
// has been heard when it returns.
func (s *portAudioSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	var latency time.Duration
	if s.stream != nil {
		latency = s.stream.Info().OutputLatency
	}
	s.mu.Unlock()

	if latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(latency):
		return nil
	}
}

// Clear is a no-op: writes are blocking, so nothing is queued in process.
func (s *portAudioSink) Clear() error {
	return nil
}

// Config returns the audio configuration.
func (s *portAudioSink) Config() Config {
	return s.cfg
}

// Name returns "portaudio".
func (s *portAudioSink) Name() string {
	return string(BackendPortAudio)
}

// Close stops playback and releases PortAudio.
func (s *portAudioSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.Stop()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

var (
	_ Source = (*portAudioSource)(nil)
	_ Sink   = (*portAudioSink)(nil)
)
