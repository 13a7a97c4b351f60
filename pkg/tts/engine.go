package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"google.golang.org/api/iterator"

	"github.com/teslashibe/go-voice-agent/pkg/audioio"
	"github.com/teslashibe/go-voice-agent/pkg/models"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Engine synthesizes text and plays it segment by segment.
// States: unloaded, then loaded after a successful Load.
type Engine struct {
	cfg    voice.Config
	out    io.Writer
	logger *slog.Logger

	manager   *models.Manager
	newSynth  SynthesizerFactory
	newSink   func(audioio.Config) (audioio.Sink, error)
	onSegment func(*Segment)

	synth Synthesizer
	sink  audioio.Sink
}

// NewEngine creates an unloaded engine.
func NewEngine(cfg voice.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "tts.engine")

	if e.manager == nil {
		e.manager = models.NewManager(cfg.ModelsDir, models.WithLogger(e.logger))
	}
	if e.newSynth == nil {
		e.newSynth = KokoroFactory(e.manager)
	}
	if e.newSink == nil {
		logger := e.logger
		e.newSink = func(c audioio.Config) (audioio.Sink, error) {
			return audioio.NewSink(c, logger)
		}
	}
	return e
}

// AudioConfig returns the playback configuration derived from the settings.
func (e *Engine) AudioConfig() audioio.Config {
	c := audioio.DefaultConfig()
	c.Backend = audioio.Backend(e.cfg.AudioBackend)
	c.SampleRate = e.cfg.TTSSampleRate
	return c
}

// Load acquires the synthesis model and the output device.
func (e *Engine) Load(ctx context.Context) error {
	fmt.Fprintln(e.out, "🔊 Loading Kokoro TTS...")

	start := time.Now()
	synth, err := e.newSynth(ctx, e.cfg)
	if err != nil {
		var loadErr *voice.ModelLoadError
		if errors.As(err, &loadErr) {
			return err
		}
		return voice.NewModelLoadError("tts", "kokoro", "Make sure espeak-ng is installed!", err)
	}

	sink, err := e.newSink(e.AudioConfig())
	if err != nil {
		synth.Close()
		return voice.NewModelLoadError("tts", "audio-output", "check the default audio device", err)
	}

	e.synth = synth
	e.sink = sink
	fmt.Fprintln(e.out, "✅ Kokoro TTS loaded!")
	e.logger.Info("synthesizer loaded",
		"synthesizer", synth.Name(),
		"voice", e.cfg.Voice,
		"sink", sink.Name(),
		"load_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Loaded reports whether Load has succeeded.
func (e *Engine) Loaded() bool {
	return e.synth != nil && e.sink != nil
}

// Speak synthesizes text and plays each segment in order, blocking until
// the last one has finished. Whitespace-only text plays nothing.
func (e *Engine) Speak(ctx context.Context, text string) error {
	if !e.Loaded() {
		return fmt.Errorf("tts: speak: %w", voice.ErrEngineNotLoaded)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fmt.Fprintln(e.out, "🔊 Speaking...")

	segments, err := e.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("tts: synthesize: %w", err)
	}
	defer segments.Close()

	if err := e.sink.Start(ctx); err != nil {
		return fmt.Errorf("tts: start output: %w", err)
	}
	defer e.sink.Stop()

	start := time.Now()
	played := 0
	for {
		seg, err := segments.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("tts: synthesize: %w", err)
		}

		buf := audioio.Buffer{Samples: seg.Samples, SampleRate: seg.SampleRate, Channels: 1}
		if err := audioio.Play(ctx, e.sink, buf); err != nil {
			if ctx.Err() != nil {
				// Interrupted: drop whatever the device has not played yet.
				e.sink.Clear()
			}
			return fmt.Errorf("tts: play: %w", err)
		}
		played++

		e.logger.Debug("segment played",
			"index", played,
			"chars", len(seg.Text),
			"duration_ms", seg.Duration().Milliseconds(),
		)
		if e.onSegment != nil {
			e.onSegment(seg)
		}
	}

	fmt.Fprintln(e.out, "✅ Done speaking!")
	e.logger.Debug("speech done", "segments", played, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// Close releases the model and the device.
func (e *Engine) Close() error {
	var errs []error
	if e.sink != nil {
		errs = append(errs, e.sink.Close())
		e.sink = nil
	}
	if e.synth != nil {
		errs = append(errs, e.synth.Close())
		e.synth = nil
	}
	return errors.Join(errs...)
}
