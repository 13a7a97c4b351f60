// Package audioio provides audio capture and playback on the default
// system devices.
//
// This package supports two backends:
//   - PortAudio - cross-platform default input/output devices
//   - Mock - CI/Testing without hardware
//
// Capture and playback are blocking: Record returns once the requested
// duration has been read, Play returns once the buffer has been heard.
package audioio

import (
	"fmt"
	"slices"
	"time"
)

// Backend represents the audio backend type.
type Backend string

const (
	// BackendAuto automatically selects the best available backend.
	BackendAuto Backend = "auto"
	// BackendPortAudio uses PortAudio for cross-platform audio I/O.
	BackendPortAudio Backend = "portaudio"
	// BackendMock uses a mock implementation for testing.
	BackendMock Backend = "mock"
)

// Config holds audio configuration.
type Config struct {
	// Backend specifies which audio backend to use.
	// Default: "auto" (PortAudio)
	Backend Backend `yaml:"backend" json:"backend"`

	// SampleRate is the audio sample rate in Hz.
	// Default: 16000 (required by Whisper)
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// Channels is the number of audio channels.
	// Default: 1 (mono)
	Channels int `yaml:"channels" json:"channels"`

	// BufferDuration is the size of device buffers.
	// Default: 64ms (1024 frames at 16kHz)
	BufferDuration time.Duration `yaml:"buffer_duration" json:"buffer_duration"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendAuto,
		SampleRate:     16000,
		Channels:       1, // Mono
		BufferDuration: 64 * time.Millisecond,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.BufferDuration <= 0 {
		return fmt.Errorf("buffer_duration must be positive, got %v", c.BufferDuration)
	}
	if c.Backend != BackendAuto && c.Backend != "" && !slices.Contains(AvailableBackends(), c.Backend) {
		return fmt.Errorf("unsupported backend: %s (want auto or one of %v)", c.Backend, AvailableBackends())
	}
	return nil
}

// BufferSize returns the number of frames per device buffer.
func (c *Config) BufferSize() int {
	n := int(float64(c.SampleRate) * c.BufferDuration.Seconds())
	if n < 1 {
		return 1
	}
	return n
}
