package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"assistant/internal/domain/models"
	domainllm "assistant/internal/domain/services/llm"
)

// Provider streams chat completions from an OpenAI-compatible endpoint.
type Provider struct {
	client *goopenai.Client
}

// NewProvider creates a provider. An empty baseURL uses the public API.
func NewProvider(apiKey, baseURL string) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Provider{client: goopenai.NewClientWithConfig(cfg)}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// SupportsModel accepts any non-empty model. Compatible endpoints serve
// arbitrary model names.
func (p *Provider) SupportsModel(model string) bool {
	return model != ""
}

// StreamChat opens a streaming chat completion.
func (p *Provider) StreamChat(ctx context.Context, req *domainllm.ChatRequest) (domainllm.FragmentStream, error) {
	s, err := p.client.CreateChatCompletionStream(ctx, goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, describe(err)
	}
	return &stream{inner: s}, nil
}

func toOpenAIMessages(msgs []models.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// describe adds the upstream status to API errors
func describe(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai status %d: %w", apiErr.HTTPStatusCode, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai status %d: %w", reqErr.HTTPStatusCode, err)
	}
	return err
}

type stream struct {
	inner *goopenai.ChatCompletionStream
}

// Recv returns the content delta of the next chunk. Chunks without content
// (role announcements, finish markers) yield an empty fragment.
func (s *stream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", describe(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *stream) Close() error {
	s.inner.Close()
	return nil
}
