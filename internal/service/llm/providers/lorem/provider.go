package lorem

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	domainllm "assistant/internal/domain/services/llm"
)

// Provider is a mock model provider that streams lorem ipsum text.
// Used for development and tests without an API key.
type Provider struct {
	generator *loremgen.Lorem

	// delay overrides the per-model word delay when non-zero
	delay time.Duration
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// NewProviderWithDelay creates a provider that waits delay between words
// regardless of the model name.
func NewProviderWithDelay(delay time.Duration) *Provider {
	p := NewProvider()
	p.delay = delay
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow", "lorem-medium"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// getStreamDelay returns the delay between words based on the model name.
// - lorem-slow: 2 words/second (500ms per word)
// - lorem-fast: 30 words/second (33ms per word)
// - lorem-medium: 10 words/second (100ms per word)
// - default: 10 words/second
func getStreamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// StreamChat streams up to MaxTokens words of lorem ipsum, one word per
// fragment. Speed varies based on model name.
func (p *Provider) StreamChat(ctx context.Context, req *domainllm.ChatRequest) (domainllm.FragmentStream, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}

	delay := p.delay
	if delay == 0 {
		delay = getStreamDelay(req.Model)
	}

	words := strings.Fields(p.generateTextWords(maxTokens))
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &stream{
		fragments: make(chan string, 10),
		cancel:    cancel,
	}

	go func() {
		defer close(s.fragments)
		for i, word := range words {
			if i > 0 {
				word = " " + word
			}
			select {
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			case s.fragments <- word:
			}

			select {
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			case <-time.After(delay):
			}
		}
	}()

	return s, nil
}

// generateTextWords generates roughly targetWords words of paragraphs
func (p *Provider) generateTextWords(targetWords int) string {
	var builder strings.Builder
	wordCount := 0

	for wordCount < targetWords {
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		paragraph := p.generator.Paragraph(3, 6)
		builder.WriteString(paragraph)
		wordCount += len(strings.Fields(paragraph))
	}

	return builder.String()
}

type stream struct {
	fragments chan string
	cancel    context.CancelFunc

	// written by the producer before fragments is closed
	err error
}

func (s *stream) Recv() (string, error) {
	frag, ok := <-s.fragments
	if !ok {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	return frag, nil
}

func (s *stream) Close() error {
	s.cancel()
	// drain so the producer exits
	for range s.fragments {
	}
	return nil
}
