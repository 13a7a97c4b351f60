package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-voice-agent/pkg/audioio"
	"github.com/teslashibe/go-voice-agent/pkg/models"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Engine records fixed-duration audio and transcribes it.
// States: unloaded, then loaded after a successful Load.
type Engine struct {
	cfg    voice.Config
	out    io.Writer
	logger *slog.Logger

	manager       *models.Manager
	newRecognizer RecognizerFactory
	newSource     func(audioio.Config) (audioio.Source, error)

	recognizer Recognizer
	source     audioio.Source
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
	e.logger = e.logger.With("component", "stt.engine")

	if e.manager == nil {
		e.manager = models.NewManager(cfg.ModelsDir, models.WithLogger(e.logger))
	}
	if e.newRecognizer == nil {
		e.newRecognizer = WhisperFactory(e.manager)
	}
	if e.newSource == nil {
		logger := e.logger
		e.newSource = func(c audioio.Config) (audioio.Source, error) {
			return audioio.NewSource(c, logger)
		}
	}
	return e
}

// AudioConfig returns the capture configuration derived from the settings.
func (e *Engine) AudioConfig() audioio.Config {
	c := audioio.DefaultConfig()
	c.Backend = audioio.Backend(e.cfg.AudioBackend)
	c.SampleRate = e.cfg.STTSampleRate
	return c
}

// Load acquires the recognition model and the capture device.
func (e *Engine) Load(ctx context.Context) error {
	fmt.Fprintf(e.out, "📥 Loading Whisper model (%s)...\n", e.cfg.WhisperModel)

	start := time.Now()
	rec, err := e.newRecognizer(ctx, e.cfg)
	if err != nil {
		var loadErr *voice.ModelLoadError
		if errors.As(err, &loadErr) {
			return err
		}
		return voice.NewModelLoadError("stt", "whisper-"+e.cfg.WhisperModel, "", err)
	}

	src, err := e.newSource(e.AudioConfig())
	if err != nil {
		rec.Close()
		return voice.NewModelLoadError("stt", "audio-input", "check the default audio device", err)
	}

	e.recognizer = rec
	e.source = src
	fmt.Fprintln(e.out, "✅ Whisper loaded!")
	e.logger.Info("recognizer loaded",
		"recognizer", rec.Name(),
		"model", e.cfg.WhisperModel,
		"source", src.Name(),
		"load_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Loaded reports whether Load has succeeded.
func (e *Engine) Loaded() bool {
	return e.recognizer != nil && e.source != nil
}

// Record captures exactly the configured duration from the input device.
func (e *Engine) Record(ctx context.Context) (audioio.Buffer, error) {
	if !e.Loaded() {
		return audioio.Buffer{}, fmt.Errorf("stt: record: %w", voice.ErrEngineNotLoaded)
	}

	fmt.Fprintf(e.out, "🎤 Recording for %s seconds... Speak now!\n", formatSeconds(e.cfg.RecordDuration))

	buf, err := audioio.Record(ctx, e.source, e.cfg.RecordDuration)
	if err != nil {
		return audioio.Buffer{}, fmt.Errorf("stt: record: %w", err)
	}

	fmt.Fprintln(e.out, "✅ Recording complete!")
	e.logger.Debug("recorded", "samples", len(buf.Samples), "rms", buf.RMS())
	return buf, nil
}

// Transcribe converts buf to text, trimmed of surrounding whitespace.
// An empty result is not an error.
func (e *Engine) Transcribe(ctx context.Context, buf audioio.Buffer) (string, error) {
	if e.recognizer == nil {
		return "", fmt.Errorf("stt: transcribe: %w", voice.ErrEngineNotLoaded)
	}

	fmt.Fprintln(e.out, "🔄 Transcribing...")

	if buf.SampleRate != 0 && buf.SampleRate != e.cfg.STTSampleRate {
		resampled, err := audioio.ResampleBuffer(buf, e.cfg.STTSampleRate)
		if err != nil {
			return "", fmt.Errorf("stt: transcribe: %w", err)
		}
		buf = resampled
	}

	start := time.Now()
	text, err := e.recognizer.Transcribe(ctx, buf.Samples, e.cfg.STTSampleRate)
	if err != nil {
		return "", fmt.Errorf("stt: transcribe: %w", err)
	}
	text = strings.TrimSpace(text)

	e.logger.Debug("transcribed", "chars", len(text), "latency_ms", time.Since(start).Milliseconds())
	if text != "" {
		fmt.Fprintf(e.out, "📝 You said: \"%s\"\n", text)
	}
	return text, nil
}

// Listen records one window and transcribes it.
func (e *Engine) Listen(ctx context.Context) (string, error) {
	if !e.Loaded() {
		return "", fmt.Errorf("stt: listen: %w", voice.ErrEngineNotLoaded)
	}
	buf, err := e.Record(ctx)
	if err != nil {
		return "", err
	}
	return e.Transcribe(ctx, buf)
}

// Close releases the model and the device.
func (e *Engine) Close() error {
	var errs []error
	if e.source != nil {
		errs = append(errs, e.source.Close())
		e.source = nil
	}
	if e.recognizer != nil {
		errs = append(errs, e.recognizer.Close())
		e.recognizer = nil
	}
	return errors.Join(errs...)
}

func formatSeconds(d time.Duration) string {
	s := d.Seconds()
	if s == float64(int64(s)) {
		return fmt.Sprintf("%d", int64(s))
	}
	return fmt.Sprintf("%.1f", s)
}
