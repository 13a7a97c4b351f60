package audioio

import (
	"context"
	"io"
	"testing"
	"time"
)

func TestMockSource_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferDuration = 10 * time.Millisecond

	src := NewMockSource(cfg, nil)
	defer src.Close()

	ctx := context.Background()

	// Start should succeed
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Starting again should be a no-op
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if src.Starts() != 1 {
		t.Errorf("Expected 1 start, got %d", src.Starts())
	}

	// Stop should succeed
	if err := src.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// Stopping again should be a no-op
	if err := src.Stop(); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}

	// Reading a stopped source reports EOF
	if _, err := src.Read(ctx); err != io.EOF {
		t.Errorf("Expected EOF after stop, got %v", err)
	}
}

func TestMockSource_Read(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferDuration = 10 * time.Millisecond

	src := NewMockSource(cfg, nil)
	defer src.Close()

	ctx := context.Background()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	chunk, err := src.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	expectedSamples := cfg.BufferSize() * cfg.Channels
	if len(chunk.Samples) != expectedSamples {
		t.Errorf("Expected %d samples, got %d", expectedSamples, len(chunk.Samples))
	}

	if chunk.SampleRate != cfg.SampleRate {
		t.Errorf("Expected sample rate %d, got %d", cfg.SampleRate, chunk.SampleRate)
	}

	if chunk.RMS() != 0 {
		t.Errorf("Expected silence by default, got RMS %f", chunk.RMS())
	}
}

func TestMockSource_SineWave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferDuration = 10 * time.Millisecond

	// Create source with 440Hz sine wave
	src := NewMockSource(cfg, nil, WithSineWave(440, 0.5))
	defer src.Close()

	ctx := context.Background()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	chunk, err := src.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	// RMS of a sine with amplitude A is A/sqrt(2)
	if rms := chunk.RMS(); rms < 0.3 || rms > 0.4 {
		t.Errorf("Expected RMS near 0.35, got %f", rms)
	}
}

func TestMockSource_Fixture(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferDuration = time.Millisecond // 16 frames

	fixture := make([]float32, 20)
	for i := range fixture {
		fixture[i] = 0.25
	}

	src := NewMockSource(cfg, nil, WithSamples(fixture))
	defer src.Close()

	ctx := context.Background()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	first, _ := src.Read(ctx)
	second, _ := src.Read(ctx)

	for i, s := range first.Samples {
		if s != 0.25 {
			t.Fatalf("first chunk sample %d = %f, want 0.25", i, s)
		}
	}
	if second.Samples[3] != 0.25 || second.Samples[4] != 0 {
		t.Errorf("expected fixture tail then silence, got %v", second.Samples[:6])
	}
}

func TestMockSource_Close(t *testing.T) {
	cfg := DefaultConfig()
	src := NewMockSource(cfg, nil)

	ctx := context.Background()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Close should succeed
	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Start after close should fail
	if err := src.Start(ctx); err != io.ErrClosedPipe {
		t.Errorf("Expected ErrClosedPipe after close, got: %v", err)
	}

	// Closing again should be a no-op
	if err := src.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}

func TestMockSink_WriteFlush(t *testing.T) {
	cfg := DefaultConfig()
	sink := NewMockSink(cfg, nil)
	defer sink.Close()

	ctx := context.Background()

	// Writing before Start fails
	if err := sink.Write(ctx, Buffer{Samples: []float32{0.1}}); err != io.ErrClosedPipe {
		t.Errorf("Expected ErrClosedPipe before start, got %v", err)
	}

	if err := sink.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var played []int
	sink.OnFlush = func(n int) { played = append(played, n) }

	sink.Write(ctx, Buffer{Samples: []float32{0.1, 0.2}})
	sink.Flush(ctx)
	sink.Write(ctx, Buffer{Samples: []float32{0.3}})
	sink.Clear()

	if got := len(sink.Written()); got != 1 {
		t.Errorf("Expected 1 buffer kept after clear, got %d", got)
	}
	if sink.Flushes() != 1 {
		t.Errorf("Expected 1 flush, got %d", sink.Flushes())
	}
	if len(played) != 1 || played[0] != 1 {
		t.Errorf("Unexpected OnFlush calls: %v", played)
	}
}

func TestFactory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendMock

	src, err := NewSource(cfg, nil)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	if src.Name() != "mock" {
		t.Errorf("Expected mock source, got %s", src.Name())
	}

	sink, err := NewSink(cfg, nil)
	if err != nil {
		t.Fatalf("NewSink failed: %v", err)
	}
	if sink.Name() != "mock" {
		t.Errorf("Expected mock sink, got %s", sink.Name())
	}

	cfg.Backend = "alsa"
	if _, err := NewSource(cfg, nil); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero rate", func(c *Config) { c.SampleRate = 0 }, true},
		{"zero channels", func(c *Config) { c.Channels = 0 }, true},
		{"zero buffer", func(c *Config) { c.BufferDuration = 0 }, true},
		{"empty backend", func(c *Config) { c.Backend = "" }, false},
		{"portaudio backend", func(c *Config) { c.Backend = BackendPortAudio }, false},
		{"mock backend", func(c *Config) { c.Backend = BackendMock }, false},
		{"unknown backend", func(c *Config) { c.Backend = "jack" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
