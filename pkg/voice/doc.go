// Package voice holds the vocabulary shared by the voice agent's engines:
// the process-wide settings bundle, the error taxonomy, and per-turn latency
// metrics.
//
// Settings are built once at startup and passed by value to each engine:
//
//	cfg := voice.DefaultConfig()
//	cfg.APIKey = os.Getenv("PPLX_API_KEY")
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err) // *voice.ConfigurationError
//	}
//
// # Errors
//
// Engines report sequencing mistakes with ErrEngineNotLoaded, model
// acquisition failures with *ModelLoadError and mid-stream network failures
// with *TransportError. Callers match them with errors.Is and errors.As:
//
//	var loadErr *voice.ModelLoadError
//	if errors.As(err, &loadErr) {
//	    fmt.Println(loadErr.Hint)
//	}
//
// # Latency Metrics
//
// A MetricsCollector tracks one turn at a time:
//
//	metrics.MarkTurnStart()
//	// ... transcribe, stream, speak
//	metrics.MarkResponseDone()
//	fmt.Println(metrics.Current().FormatLatency())
package voice
