package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedModel marks model names no configured provider can serve.
// Other resolution failures, such as a provider missing its API key, are
// server configuration problems.
var ErrUnsupportedModel = errors.New("unsupported model")

// ModelInfo is a model name resolved to the provider that serves it.
type ModelInfo struct {
	Provider string
	Model    string
}

func (m *ModelInfo) String() string {
	return m.Provider + "/" + m.Model
}

// modelPrefixes maps bare model names to providers. Names matching none of
// them go to the OpenAI-compatible endpoint at API_BASE_URL unchanged, so a
// local gateway serving "llama3" needs no prefix.
var modelPrefixes = []struct {
	prefix   string
	provider string
}{
	{"gpt-", ProviderOpenAI},
	{"chatgpt-", ProviderOpenAI},
	{"o1-", ProviderOpenAI},
	{"o3-", ProviderOpenAI},
	{"lorem-", ProviderLorem},
}

// ParseModel resolves the model named by a generation request or MODEL_NAME.
// Only the first "/" separates the provider; the rest belongs to the model.
func ParseModel(name string) (*ModelInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: model name is empty", ErrUnsupportedModel)
	}

	if provider, model, ok := strings.Cut(name, "/"); ok {
		if provider == "" || model == "" {
			return nil, fmt.Errorf("%w: %q, expected provider/model", ErrUnsupportedModel, name)
		}
		return &ModelInfo{Provider: strings.ToLower(provider), Model: model}, nil
	}

	lower := strings.ToLower(name)
	for _, p := range modelPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return &ModelInfo{Provider: p.provider, Model: name}, nil
		}
	}
	return &ModelInfo{Provider: ProviderOpenAI, Model: name}, nil
}
