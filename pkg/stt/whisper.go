package stt

import (
	"context"
	"fmt"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/teslashibe/go-voice-agent/pkg/models"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// WhisperConfig locates a Whisper model exported for sherpa-onnx.
type WhisperConfig struct {
	Encoder    string
	Decoder    string
	Tokens     string
	Language   string // e.g. "en"; empty lets the model detect it
	NumThreads int
}

// Whisper is a Recognizer backed by sherpa-onnx's offline Whisper decoder.
type Whisper struct {
	mu  sync.Mutex
	rec *sherpa.OfflineRecognizer
}

// NewWhisper loads a Whisper model.
func NewWhisper(cfg WhisperConfig) (*Whisper, error) {
	c := sherpa.OfflineRecognizerConfig{}
	c.FeatConfig = sherpa.FeatureConfig{SampleRate: 16000, FeatureDim: 80}
	c.ModelConfig.Whisper = sherpa.OfflineWhisperModelConfig{
		Encoder:  cfg.Encoder,
		Decoder:  cfg.Decoder,
		Language: cfg.Language,
		Task:     "transcribe",
	}
	c.ModelConfig.Tokens = cfg.Tokens
	c.ModelConfig.NumThreads = max(cfg.NumThreads, 1)
	c.ModelConfig.Provider = "cpu"
	c.DecodingMethod = "greedy_search"

	rec := sherpa.NewOfflineRecognizer(&c)
	if rec == nil {
		return nil, fmt.Errorf("stt: sherpa-onnx could not load whisper model %s", cfg.Encoder)
	}
	return &Whisper{rec: rec}, nil
}

// Transcribe decodes samples in one pass.
func (w *Whisper) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rec == nil {
		return "", voice.ErrEngineNotLoaded
	}

	stream := sherpa.NewOfflineStream(w.rec)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(sampleRate, samples)
	w.rec.Decode(stream)
	return stream.GetResult().Text, nil
}

// Name returns "whisper".
func (w *Whisper) Name() string {
	return "whisper"
}

// Close frees the model.
func (w *Whisper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rec != nil {
		sherpa.DeleteOfflineRecognizer(w.rec)
		w.rec = nil
	}
	return nil
}

// WhisperFactory resolves the configured Whisper tier through the model
// cache, downloading it on first use.
func WhisperFactory(m *models.Manager) RecognizerFactory {
	return func(ctx context.Context, cfg voice.Config) (Recognizer, error) {
		info, err := models.Whisper(cfg.WhisperModel)
		if err != nil {
			return nil, err
		}
		if _, err := m.Ensure(ctx, info); err != nil {
			return nil, err
		}
		return NewWhisper(WhisperConfig{
			Encoder:    m.File(info, models.FileEncoder),
			Decoder:    m.File(info, models.FileDecoder),
			Tokens:     m.File(info, models.FileTokens),
			Language:   cfg.Language,
			NumThreads: cfg.NumThreads,
		})
	}
}

var _ Recognizer = (*Whisper)(nil)
