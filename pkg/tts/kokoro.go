package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
	"google.golang.org/api/iterator"

	"github.com/teslashibe/go-voice-agent/pkg/models"
	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// KokoroConfig locates a Kokoro model exported for sherpa-onnx.
type KokoroConfig struct {
	Model   string
	Voices  string
	Tokens  string
	DataDir string // espeak-ng-data
	DictDir string
	Lexicon string

	Speaker    int     // Speaker id within Voices
	Speed      float32 // 1.0 is normal
	NumThreads int
	MaxRunes   int // Sentence length bound, see SplitSentences
}

// Kokoro is a Synthesizer backed by sherpa-onnx's offline Kokoro model.
type Kokoro struct {
	cfg KokoroConfig

	mu  sync.Mutex
	tts *sherpa.OfflineTts
}

// NewKokoro loads a Kokoro model. Kokoro phonemizes through espeak-ng, so
// a missing data directory is reported before the model is touched.
func NewKokoro(cfg KokoroConfig) (*Kokoro, error) {
	if _, err := os.Stat(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("tts: espeak-ng data: %w", err)
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}

	c := sherpa.OfflineTtsConfig{}
	c.Model.Kokoro = sherpa.OfflineTtsKokoroModelConfig{
		Model:       cfg.Model,
		Voices:      cfg.Voices,
		Tokens:      cfg.Tokens,
		DataDir:     cfg.DataDir,
		DictDir:     cfg.DictDir,
		Lexicon:     cfg.Lexicon,
		LengthScale: 1.0,
	}
	c.Model.NumThreads = max(cfg.NumThreads, 1)
	c.Model.Provider = "cpu"
	c.MaxNumSentences = 1

	t := sherpa.NewOfflineTts(&c)
	if t == nil {
		return nil, fmt.Errorf("tts: sherpa-onnx could not load kokoro model %s", cfg.Model)
	}
	return &Kokoro{cfg: cfg, tts: t}, nil
}

// Synthesize returns a lazy iterator over the sentences of text.
func (k *Kokoro) Synthesize(ctx context.Context, text string) (SegmentIterator, error) {
	return &kokoroIterator{
		ctx:       ctx,
		k:         k,
		sentences: SplitSentences(text, k.cfg.MaxRunes),
	}, nil
}

// SampleRate returns the model's output rate.
func (k *Kokoro) SampleRate() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.tts == nil {
		return 0
	}
	return k.tts.SampleRate()
}

// Name returns "kokoro".
func (k *Kokoro) Name() string {
	return "kokoro"
}

// Close frees the model.
func (k *Kokoro) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.tts != nil {
		sherpa.DeleteOfflineTts(k.tts)
		k.tts = nil
	}
	return nil
}

func (k *Kokoro) generate(text string) (*Segment, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.tts == nil {
		return nil, voice.ErrEngineNotLoaded
	}
	audio := k.tts.Generate(text, k.cfg.Speaker, k.cfg.Speed)
	if audio == nil {
		return nil, fmt.Errorf("tts: kokoro produced no audio for %q", text)
	}
	return &Segment{
		Text:       text,
		Samples:    audio.Samples,
		SampleRate: audio.SampleRate,
	}, nil
}

type kokoroIterator struct {
	ctx       context.Context
	k         *Kokoro
	sentences []string
	pos       int
	closed    bool
}

func (it *kokoroIterator) Next() (*Segment, error) {
	if it.closed {
		return nil, ErrIteratorClosed
	}
	for it.pos < len(it.sentences) {
		if err := it.ctx.Err(); err != nil {
			return nil, err
		}
		text := it.sentences[it.pos]
		it.pos++

		seg, err := it.k.generate(text)
		if err != nil {
			return nil, err
		}
		if len(seg.Samples) == 0 {
			continue
		}
		return seg, nil
	}
	return nil, iterator.Done
}

func (it *kokoroIterator) Close() error {
	it.closed = true
	return nil
}

// KokoroFactory resolves the Kokoro bundle through the model cache,
// downloading it on first use, and selects the configured voice.
func KokoroFactory(m *models.Manager) SynthesizerFactory {
	return func(ctx context.Context, cfg voice.Config) (Synthesizer, error) {
		info, err := models.Kokoro()
		if err != nil {
			return nil, err
		}

		sid, ok := info.Voices[cfg.Voice]
		if !ok {
			return nil, fmt.Errorf("tts: unknown voice %q (available: %v)", cfg.Voice, info.VoiceNames())
		}

		if _, err := m.Ensure(ctx, info); err != nil {
			return nil, err
		}

		kc := KokoroConfig{
			Model:      m.File(info, models.FileModel),
			Voices:     m.File(info, models.FileVoices),
			Tokens:     m.File(info, models.FileTokens),
			DataDir:    m.File(info, models.FileDataDir),
			DictDir:    m.File(info, models.FileDictDir),
			Speaker:    sid,
			Speed:      float32(cfg.SpeechSpeed),
			NumThreads: cfg.NumThreads,
		}
		if lex, ok := info.Lexicons[cfg.VoiceLanguage]; ok {
			kc.Lexicon = filepath.Join(m.Path(info), lex)
		}

		k, err := NewKokoro(kc)
		if err != nil {
			return nil, voice.NewModelLoadError("tts", info.ID, kokoroHint(kc.DataDir), err)
		}
		return k, nil
	}
}

func kokoroHint(dataDir string) string {
	return "Make sure espeak-ng is installed! (expected data at " + dataDir + ")"
}

var (
	_ Synthesizer     = (*Kokoro)(nil)
	_ SegmentIterator = (*kokoroIterator)(nil)
)
