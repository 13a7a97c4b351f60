package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvRecordSeconds, "")
	t.Setenv(EnvSystemPrompt, "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}

	def := voice.DefaultConfig()
	if cfg.LLMModel != def.LLMModel {
		t.Errorf("expected default model %q, got %q", def.LLMModel, cfg.LLMModel)
	}
	if cfg.RecordDuration != def.RecordDuration {
		t.Errorf("expected default duration %v, got %v", def.RecordDuration, cfg.RecordDuration)
	}
	if cfg.SystemPrompt != voice.DefaultSystemPrompt {
		t.Errorf("expected default system prompt, got %q", cfg.SystemPrompt)
	}
	if err := cfg.Validate(); !voice.IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError without credential, got %v", err)
	}
}

func TestFromEnv_Overlay(t *testing.T) {
	t.Setenv(EnvAPIKey, "  pplx-abc  ")
	t.Setenv(EnvWhisperModel, "tiny")
	t.Setenv(EnvVoice, "am_adam")
	t.Setenv(EnvRecordSeconds, "2.5")
	t.Setenv(EnvAudioBackend, "mock")
	t.Setenv(EnvSystemPrompt, "Answer like a pirate.")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}

	if cfg.APIKey != "pplx-abc" {
		t.Errorf("expected trimmed key, got %q", cfg.APIKey)
	}
	if cfg.WhisperModel != "tiny" {
		t.Errorf("expected tiny, got %s", cfg.WhisperModel)
	}
	if cfg.Voice != "am_adam" {
		t.Errorf("expected am_adam, got %s", cfg.Voice)
	}
	if cfg.RecordDuration != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", cfg.RecordDuration)
	}
	if cfg.AudioBackend != "mock" {
		t.Errorf("expected mock backend, got %s", cfg.AudioBackend)
	}
	if cfg.SystemPrompt != "Answer like a pirate." {
		t.Errorf("expected overridden system prompt, got %q", cfg.SystemPrompt)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	for _, v := range []string{"abc", "0", "-1"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv(EnvRecordSeconds, v)
			if _, err := FromEnv(); !voice.IsConfigurationError(err) {
				t.Errorf("expected ConfigurationError for %q, got %v", v, err)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PPLX_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.APIKey)
	}
}

func TestLoad_MissingDotEnv(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env must not fail, got %v", err)
	}
}
