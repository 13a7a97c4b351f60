package audioio

import (
	"context"
	"fmt"
	"io"
)

// Sink plays audio to a speaker or other output device.
type Sink interface {
	// Start begins audio playback.
	// After calling Start, audio can be written via Write.
	Start(ctx context.Context) error

	// Stop halts audio playback.
	// It is safe to call Stop multiple times.
	Stop() error

	// Write sends a buffer to the output device.
	// This blocks while the device buffer is full.
	Write(ctx context.Context, buf Buffer) error

	// Flush waits for all written audio to be played.
	Flush(ctx context.Context) error

	// Clear discards all buffered audio immediately.
	Clear() error

	// Config returns the current audio configuration.
	Config() Config

	// Name returns the backend name (e.g., "portaudio", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the sink cannot be restarted.
	io.Closer
}

// Play writes buf to sink and blocks until it has been played.
// Buffers at a different rate than the sink are resampled first.
func Play(ctx context.Context, sink Sink, buf Buffer) error {
	cfg := sink.Config()
	if buf.SampleRate != 0 && buf.SampleRate != cfg.SampleRate {
		samples, err := Resample(buf.Samples, buf.SampleRate, cfg.SampleRate)
		if err != nil {
			return err
		}
		buf = Buffer{Samples: samples, SampleRate: cfg.SampleRate, Channels: buf.Channels}
	}

	if err := sink.Write(ctx, buf); err != nil {
		return fmt.Errorf("audioio: write %s sink: %w", sink.Name(), err)
	}
	if err := sink.Flush(ctx); err != nil {
		return fmt.Errorf("audioio: flush %s sink: %w", sink.Name(), err)
	}
	return nil
}
