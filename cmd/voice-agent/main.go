// Voice Agent - push-to-talk voice assistant.
// Whisper transcribes, Perplexity Sonar answers, Kokoro speaks.
//
// Usage:
//
//	voice-agent              start the conversation loop
//	voice-agent devices      list audio devices
//	voice-agent models       list model bundles
//	voice-agent models pull  download model bundles
//	voice-agent version      print version information
//
// Configuration comes from the environment or a .env file in the working
// directory. PPLX_API_KEY is required.
package main

import (
	"os"

	"github.com/teslashibe/go-voice-agent/cmd/voice-agent/commands"
)

func main() {
	os.Exit(commands.Execute())
}
