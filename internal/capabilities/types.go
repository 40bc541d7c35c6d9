package capabilities

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Pricing is USD per million text tokens.
type Pricing struct {
	Input  float64 `yaml:"input" json:"input_per_1m"`
	Output float64 `yaml:"output" json:"output_per_1m"`
}

// GenerationDefaults override the server's MaxTokens/Temperature for a model.
// Zero values mean "use the server configuration".
type GenerationDefaults struct {
	MaxTokens   int      `yaml:"max_tokens" json:"max_tokens,omitempty"`
	Temperature *float32 `yaml:"temperature" json:"temperature,omitempty"`
}

// ModelCapabilities is one catalog entry. ID is the entry's key in the catalog file.
type ModelCapabilities struct {
	ID            string             `yaml:"-" json:"id"`
	DisplayName   string             `yaml:"display_name" json:"display_name"`
	Description   string             `yaml:"description" json:"description,omitempty"`
	ContextWindow int                `yaml:"context_window" json:"context_window"`
	MaxOutput     int                `yaml:"max_output" json:"max_output"`
	Defaults      GenerationDefaults `yaml:"defaults" json:"defaults"`
	Pricing       *Pricing           `yaml:"pricing" json:"pricing,omitempty"`
}

// ProviderCapabilities is a provider's catalog with models in file order.
type ProviderCapabilities struct {
	Provider    string              `json:"provider"`
	DisplayName string              `json:"display_name"`
	Models      []ModelCapabilities `json:"models"`
}

// UnmarshalYAML reads models as an ordered mapping; a plain map would lose the order.
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Provider    string    `yaml:"provider"`
		DisplayName string    `yaml:"display_name"`
		Models      yaml.Node `yaml:"models"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.Provider = raw.Provider
	p.DisplayName = raw.DisplayName
	p.Models = nil

	if raw.Models.Kind == 0 {
		return nil
	}
	if raw.Models.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: models must be a mapping", raw.Models.Line)
	}

	seen := make(map[string]bool, len(raw.Models.Content)/2)
	for i := 0; i+1 < len(raw.Models.Content); i += 2 {
		id := raw.Models.Content[i].Value
		if seen[id] {
			return fmt.Errorf("line %d: duplicate model %q", raw.Models.Content[i].Line, id)
		}
		seen[id] = true

		var m ModelCapabilities
		if err := raw.Models.Content[i+1].Decode(&m); err != nil {
			return fmt.Errorf("model %q: %w", id, err)
		}
		m.ID = id
		p.Models = append(p.Models, m)
	}
	return nil
}
