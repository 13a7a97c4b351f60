// Package tts speaks text through the default output device.
//
// A Synthesizer turns text into an ordered sequence of audio segments.
// The Engine plays them one at a time, waiting for each to finish before
// pulling the next:
//
//	engine := tts.NewEngine(cfg)
//	if err := engine.Load(ctx); err != nil {
//	    log.Fatal(err) // *voice.ModelLoadError
//	}
//	defer engine.Close()
//
//	engine.Speak(ctx, "Hello world. How are you?")
//
// The default synthesizer is Kokoro running on sherpa-onnx. It splits text
// into sentences and synthesizes each one lazily.
package tts

import (
	"context"
	"time"

	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Synthesizer converts text to speech segments.
type Synthesizer interface {
	// Synthesize returns an iterator over the segments of text, in order.
	// Audio may be generated lazily as the iterator advances.
	Synthesize(ctx context.Context, text string) (SegmentIterator, error)

	// SampleRate is the rate of the samples the synthesizer produces.
	SampleRate() int

	// Name identifies the synthesizer for logs.
	Name() string

	// Close releases the model.
	Close() error
}

// SegmentIterator yields segments until it returns iterator.Done.
type SegmentIterator interface {
	Next() (*Segment, error)
	Close() error
}

// Segment is one synthesized piece of speech.
type Segment struct {
	// Text is the source text of this segment.
	Text string

	// Samples is mono float32 PCM in [-1, 1].
	Samples []float32

	// SampleRate in Hz.
	SampleRate int

	// Phonemes and Timing carry phoneme and per-token duration markers for
	// synthesizers that expose them. Playback ignores both. Kokoro leaves
	// them empty: sherpa-onnx returns only samples and a sample rate.
	Phonemes string
	Timing   []time.Duration
}

// Duration returns the playback length of the segment.
func (s *Segment) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// SynthesizerFactory builds a Synthesizer from the agent settings. It is
// called once by Engine.Load.
type SynthesizerFactory func(ctx context.Context, cfg voice.Config) (Synthesizer, error)
