package voice

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TTSSampleRate != 24000 {
		t.Errorf("expected TTS sample rate 24000, got %d", cfg.TTSSampleRate)
	}

	if cfg.STTSampleRate != 16000 {
		t.Errorf("expected STT sample rate 16000, got %d", cfg.STTSampleRate)
	}

	if cfg.RecordDuration != 5*time.Second {
		t.Errorf("expected record duration 5s, got %v", cfg.RecordDuration)
	}

	if cfg.WhisperModel != WhisperBase {
		t.Errorf("expected whisper model base, got %s", cfg.WhisperModel)
	}

	if cfg.Voice != "af_heart" || cfg.VoiceLanguage != "a" {
		t.Errorf("expected voice af_heart/a, got %s/%s", cfg.Voice, cfg.VoiceLanguage)
	}

	if cfg.LLMModel != "sonar" {
		t.Errorf("expected LLM model sonar, got %s", cfg.LLMModel)
	}

	if cfg.Temperature != 0.1 {
		t.Errorf("expected temperature 0.1, got %f", cfg.Temperature)
	}

	if cfg.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("unexpected system prompt: %q", cfg.SystemPrompt)
	}

	if cfg.APIKey != "" {
		t.Error("default config must not carry a credential")
	}

	if got := cfg.RecordSamples(); got != 80000 {
		t.Errorf("expected 80000 record samples, got %d", got)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "empty key", key: "", wantErr: true},
		{name: "whitespace key", key: "  \t\n", wantErr: true},
		{name: "valid key", key: "pplx-test", wantErr: false},
		{name: "single char key", key: "x", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().WithAPIKey(tt.key)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !IsConfigurationError(err) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
			if !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("expected ErrMissingAPIKey in chain, got %v", err)
			}
		})
	}
}

func TestModelLoadError(t *testing.T) {
	cause := errors.New("espeak-ng-data not found")
	err := NewModelLoadError("tts", "kokoro", "Make sure espeak-ng is installed!", cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
	if !IsModelLoadError(err) {
		t.Error("expected IsModelLoadError")
	}
	if !strings.Contains(err.Error(), "Make sure espeak-ng is installed!") {
		t.Errorf("expected hint in message, got %q", err.Error())
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	var err error = &TransportError{Op: "stream", Err: cause}

	if !IsTransportError(err) {
		t.Error("expected IsTransportError")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
	if IsNotLoaded(err) {
		t.Error("transport error is not a not-loaded error")
	}
}

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector()

	m.MarkTurnStart()
	m.MarkTranscript()
	m.MarkFragment()
	first := m.Current().FirstTokenTime
	m.MarkFragment()
	m.MarkReplyDone()
	m.MarkSegment()
	m.MarkResponseDone()

	cur := m.Current()
	if cur.Fragments != 2 {
		t.Errorf("expected 2 fragments, got %d", cur.Fragments)
	}
	if cur.Segments != 1 {
		t.Errorf("expected 1 segment, got %d", cur.Segments)
	}
	if !cur.FirstTokenTime.Equal(first) {
		t.Error("first token time must not move on later fragments")
	}
	if cur.TotalLatency < cur.LLMFirstToken {
		t.Error("total latency must cover first token latency")
	}
	if !strings.Contains(cur.FormatLatency(), "TOTAL") {
		t.Errorf("unexpected format: %s", cur.FormatLatency())
	}

	avg := m.Average()
	if avg.TotalLatency != cur.TotalLatency {
		t.Errorf("average over one turn should equal the turn, got %v vs %v", avg.TotalLatency, cur.TotalLatency)
	}
}
