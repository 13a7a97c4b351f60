// Package stt captures speech from the default input device and converts it
// to text with a local recognition model.
//
// The Engine owns the model handle and the capture device:
//
//	engine := stt.NewEngine(cfg)
//	if err := engine.Load(ctx); err != nil {
//	    log.Fatal(err) // *voice.ModelLoadError
//	}
//	defer engine.Close()
//
//	text, err := engine.Listen(ctx) // record, then transcribe
//	if text == "" {
//	    // nothing understood
//	}
//
// Recognizers are pluggable through RecognizerFactory; the default is
// Whisper running on sherpa-onnx.
package stt

import (
	"context"

	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Recognizer converts mono audio to text.
type Recognizer interface {
	// Transcribe returns the text recognized in samples. An empty string
	// means nothing was understood.
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)

	// Name identifies the recognizer for logs.
	Name() string

	// Close releases the model.
	Close() error
}

// RecognizerFactory builds a Recognizer from the agent settings. It is
// called once by Engine.Load.
type RecognizerFactory func(ctx context.Context, cfg voice.Config) (Recognizer, error)
