package audioio

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Source captures audio from a microphone or other input device.
type Source interface {
	// Start begins audio capture.
	// After calling Start, audio is available via Read.
	Start(ctx context.Context) error

	// Stop halts audio capture.
	// It is safe to call Stop multiple times.
	Stop() error

	// Read reads the next device buffer, blocking until it is full.
	// Returns io.EOF when the source is stopped.
	Read(ctx context.Context) (Buffer, error)

	// Config returns the current audio configuration.
	Config() Config

	// Name returns the backend name (e.g., "portaudio", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the source cannot be restarted.
	io.Closer
}

// Record captures exactly d worth of audio from src.
// It starts the source, reads until the window is full, and stops it again,
// so the device is held only for the duration of the call. Stereo captures
// are downmixed to mono.
func Record(ctx context.Context, src Source, d time.Duration) (Buffer, error) {
	cfg := src.Config()
	want := FramesFor(d, cfg.SampleRate) * cfg.Channels

	if err := src.Start(ctx); err != nil {
		return Buffer{}, fmt.Errorf("audioio: start %s source: %w", src.Name(), err)
	}
	defer src.Stop()

	out := Buffer{
		Samples:    make([]float32, 0, want),
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	}
	for len(out.Samples) < want {
		chunk, err := src.Read(ctx)
		if err != nil {
			return Buffer{}, fmt.Errorf("audioio: read %s source: %w", src.Name(), err)
		}
		need := want - len(out.Samples)
		if len(chunk.Samples) > need {
			chunk.Samples = chunk.Samples[:need]
		}
		out.Samples = append(out.Samples, chunk.Samples...)
	}

	if out.Channels == 2 {
		out.Samples = StereoToMono(out.Samples)
		out.Channels = 1
	}
	return out, nil
}
