// Package models manages the local model bundles used for speech
// recognition and synthesis: a registry of known bundles and a download
// cache.
package models

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Engine is the inference engine a bundle is built for.
type Engine string

const (
	EngineWhisper Engine = "whisper"
	EngineKokoro  Engine = "kokoro"
)

// Well-known keys in ModelInfo.Files.
const (
	FileEncoder = "encoder"
	FileDecoder = "decoder"
	FileTokens  = "tokens"
	FileModel   = "model"
	FileVoices  = "voices"
	FileDataDir = "data_dir"
	FileDictDir = "dict_dir"
)

// ModelInfo describes one downloadable bundle.
type ModelInfo struct {
	ID       string            `yaml:"id"`       // Unique identifier: "whisper-base"
	Engine   Engine            `yaml:"engine"`   // whisper or kokoro
	Name     string            `yaml:"name"`     // Display name
	Tier     string            `yaml:"tier"`     // Whisper quality tier
	URL      string            `yaml:"url"`      // Archive URL (.tar.bz2 or .tar.gz)
	Dir      string            `yaml:"dir"`      // Top-level directory inside the archive
	SizeMB   int               `yaml:"size_mb"`  // Approximate download size
	Files    map[string]string `yaml:"files"`    // Role -> path relative to Dir
	Lexicons map[string]string `yaml:"lexicons"` // Kokoro language code -> lexicon file
	Voices   map[string]int    `yaml:"voices"`   // Kokoro voice name -> speaker id
}

// VoiceNames returns the bundle's voice names in speaker-id order.
func (m ModelInfo) VoiceNames() []string {
	names := make([]string, 0, len(m.Voices))
	for name := range m.Voices {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return m.Voices[names[i]] < m.Voices[names[j]] })
	return names
}

//go:embed registry.yaml
var registryYAML []byte

type registryFile struct {
	Models []ModelInfo `yaml:"models"`
}

// Registry holds all known bundles, in registry order.
var Registry = mustParse(registryYAML)

// Parse decodes a registry document.
func Parse(data []byte) ([]ModelInfo, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("models: parse registry: %w", err)
	}
	seen := make(map[string]bool, len(f.Models))
	for _, m := range f.Models {
		if m.ID == "" || m.URL == "" || m.Dir == "" {
			return nil, fmt.Errorf("models: registry entry %q is missing id, url or dir", m.ID)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("models: duplicate registry entry %q", m.ID)
		}
		seen[m.ID] = true
	}
	return f.Models, nil
}

func mustParse(data []byte) []ModelInfo {
	models, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return models
}

// Lookup returns the bundle with the given id.
func Lookup(id string) (ModelInfo, error) {
	for _, m := range Registry {
		if m.ID == id {
			return m, nil
		}
	}
	return ModelInfo{}, fmt.Errorf("models: unknown model %q", id)
}

// Whisper returns the Whisper bundle for a quality tier.
func Whisper(tier string) (ModelInfo, error) {
	for _, m := range Registry {
		if m.Engine == EngineWhisper && m.Tier == tier {
			return m, nil
		}
	}
	return ModelInfo{}, fmt.Errorf("models: unknown whisper tier %q (want tiny, base, small, medium or large)", tier)
}

// Kokoro returns the Kokoro synthesis bundle.
func Kokoro() (ModelInfo, error) {
	for _, m := range Registry {
		if m.Engine == EngineKokoro {
			return m, nil
		}
	}
	return ModelInfo{}, fmt.Errorf("models: no kokoro bundle registered")
}
