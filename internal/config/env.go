// Package config loads voice agent settings from the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/teslashibe/go-voice-agent/pkg/voice"
)

// Environment variables read by Load.
const (
	EnvAPIKey        = "PPLX_API_KEY"
	EnvWhisperModel  = "VOICE_AGENT_WHISPER_MODEL"
	EnvVoice         = "VOICE_AGENT_VOICE"
	EnvLLMModel      = "VOICE_AGENT_LLM_MODEL"
	EnvLLMBaseURL    = "VOICE_AGENT_LLM_BASE_URL"
	EnvRecordSeconds = "VOICE_AGENT_RECORD_SECONDS"
	EnvModelsDir     = "VOICE_AGENT_MODELS_DIR"
	EnvAudioBackend  = "VOICE_AGENT_AUDIO_BACKEND"
	EnvSystemPrompt  = "VOICE_AGENT_SYSTEM_PROMPT"
	EnvLogLevel      = "LOG_LEVEL"
)

// Load reads an optional .env file from the working directory and overlays
// the environment onto voice.DefaultConfig. A missing .env is not an error.
// The result is not validated; call Validate before use.
func Load(filenames ...string) (voice.Config, error) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return voice.Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv overlays the current environment onto voice.DefaultConfig.
func FromEnv() (voice.Config, error) {
	cfg := voice.DefaultConfig()

	cfg.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	cfg.WhisperModel = envOr(EnvWhisperModel, cfg.WhisperModel)
	cfg.Voice = envOr(EnvVoice, cfg.Voice)
	cfg.LLMModel = envOr(EnvLLMModel, cfg.LLMModel)
	cfg.LLMBaseURL = envOr(EnvLLMBaseURL, cfg.LLMBaseURL)
	cfg.ModelsDir = envOr(EnvModelsDir, cfg.ModelsDir)
	cfg.AudioBackend = envOr(EnvAudioBackend, cfg.AudioBackend)
	cfg = cfg.WithSystemPrompt(envOr(EnvSystemPrompt, cfg.SystemPrompt))

	if v := os.Getenv(EnvRecordSeconds); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return voice.Config{}, &voice.ConfigurationError{
				Field: EnvRecordSeconds,
				Err:   fmt.Errorf("must be a positive number of seconds, got %q", v),
			}
		}
		cfg.RecordDuration = time.Duration(secs * float64(time.Second))
	}

	return cfg, nil
}

// LogLevel returns the LOG_LEVEL env var or "warn".
func LogLevel() string {
	return envOr(EnvLogLevel, "warn")
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
