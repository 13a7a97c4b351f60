package voice

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the engines.
var (
	// ErrMissingAPIKey indicates the chat API credential was not provided.
	ErrMissingAPIKey = errors.New("voice: missing API key (set PPLX_API_KEY)")

	// ErrEngineNotLoaded indicates an engine operation was called before Load.
	ErrEngineNotLoaded = errors.New("voice: engine not loaded")

	// ErrEmptyTranscript names the soft failure where capture produced no
	// recognizable speech. Engines return "" rather than this error.
	ErrEmptyTranscript = errors.New("voice: empty transcript")
)

// ConfigurationError reports invalid settings. It is fatal before the
// conversation loop starts.
type ConfigurationError struct {
	// Field is the offending setting.
	Field string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("voice: configuration error [%s]: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("voice: configuration error: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ModelLoadError reports that a local model could not be fetched or
// initialized.
type ModelLoadError struct {
	// Component is the engine that failed, e.g. "stt" or "tts".
	Component string

	// Model identifies the model bundle.
	Model string

	// Hint is actionable diagnostic text for the user.
	Hint string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ModelLoadError) Error() string {
	msg := fmt.Sprintf("voice: %s: failed to load model %q: %v", e.Component, e.Model, e.Err)
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// NewModelLoadError creates a new ModelLoadError.
func NewModelLoadError(component, model, hint string, err error) *ModelLoadError {
	return &ModelLoadError{
		Component: component,
		Model:     model,
		Hint:      hint,
		Err:       err,
	}
}

// TransportError reports a network failure during a dialogue request or
// stream. It is not retried.
type TransportError struct {
	// Op is the operation in progress, e.g. "stream".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("voice: transport error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Error checking helpers.

// IsConfigurationError returns true if err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsModelLoadError returns true if err is or wraps a ModelLoadError.
func IsModelLoadError(err error) bool {
	var loadErr *ModelLoadError
	return errors.As(err, &loadErr)
}

// IsTransportError returns true if err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsNotLoaded returns true if err indicates an engine was used before Load.
func IsNotLoaded(err error) bool {
	return errors.Is(err, ErrEngineNotLoaded)
}
