package voice

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Whisper model tiers, fastest/smallest first.
const (
	WhisperTiny   = "tiny"
	WhisperBase   = "base"
	WhisperSmall  = "small"
	WhisperMedium = "medium"
	WhisperLarge  = "large"
)

// DefaultSystemPrompt is the fixed instruction sent with every turn.
const DefaultSystemPrompt = "You are a helpful voice assistant. Keep your responses concise and " +
	"conversational since they will be spoken aloud. Aim for responses that are 2-3 sentences " +
	"unless more detail is specifically requested."

// Config holds all tunable parameters for the voice agent.
// Parameters are organized by stage for clarity.
type Config struct {
	// Audio settings
	TTSSampleRate  int           // Playback sample rate (default: 24000)
	STTSampleRate  int           // Capture sample rate (default: 16000, required by Whisper)
	RecordDuration time.Duration // Fixed capture window per turn (default: 5s)
	AudioBackend   string        // audioio backend: "auto", "portaudio" or "mock"

	// STT settings
	WhisperModel string // Model tier: tiny, base, small, medium, large
	Language     string // Recognition language (default: "en")

	// TTS settings
	Voice         string  // Kokoro voice name (default: "af_heart")
	VoiceLanguage string  // Kokoro language code, "a" is American English
	SpeechSpeed   float64 // Speech speed multiplier (default: 1.0)

	// LLM settings
	LLMModel     string  // Chat model (default: "sonar")
	LLMBaseURL   string  // OpenAI-compatible endpoint
	Temperature  float64 // Response randomness 0.0-2.0 (default: 0.1)
	APIKey       string  // Chat API credential, required
	SystemPrompt string  // Fixed system instruction

	// Local inference
	ModelsDir  string // Download cache for model bundles
	NumThreads int    // Threads for local STT/TTS inference
}

// DefaultConfig returns a Config with defaults for every parameter except
// the credential.
func DefaultConfig() Config {
	return Config{
		// Audio
		TTSSampleRate:  24000,
		STTSampleRate:  16000,
		RecordDuration: 5 * time.Second,
		AudioBackend:   "auto",

		// STT
		WhisperModel: WhisperBase,
		Language:     "en",

		// TTS
		Voice:         "af_heart",
		VoiceLanguage: "a",
		SpeechSpeed:   1.0,

		// LLM
		LLMModel:     "sonar",
		LLMBaseURL:   "https://api.perplexity.ai",
		Temperature:  0.1,
		SystemPrompt: DefaultSystemPrompt,

		ModelsDir:  DefaultModelsDir(),
		NumThreads: 2,
	}
}

// DefaultModelsDir returns the per-user cache directory for model bundles.
func DefaultModelsDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "models")
	}
	return filepath.Join(dir, "go-voice-agent", "models")
}

// Validate checks that the credential is present.
// Audio and model parameters are checked by the engines that use them.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigurationError{Field: "APIKey", Err: ErrMissingAPIKey}
	}
	return nil
}

// RecordSamples returns the number of samples one capture window holds.
func (c *Config) RecordSamples() int {
	return int(float64(c.STTSampleRate) * c.RecordDuration.Seconds())
}

// WithSystemPrompt returns a copy with the system prompt set.
func (c Config) WithSystemPrompt(prompt string) Config {
	c.SystemPrompt = prompt
	return c
}

// WithAPIKey returns a copy with the credential set.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}
