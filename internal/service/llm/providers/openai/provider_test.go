package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/domain/models"
	domainllm "assistant/internal/domain/services/llm"
)

func chunk(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", content)
}

func TestProvider_StreamChat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, chunk("Hel"))
		_, _ = io.WriteString(w, chunk("lo"))
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewProvider("sk-test", srv.URL)
	s, err := p.StreamChat(context.Background(), &domainllm.ChatRequest{
		Model:       "gpt-4o-mini",
		Messages:    []models.Message{{Role: models.RoleSystem, Content: "be brief"}, {Role: models.RoleUser, Content: "hi"}},
		MaxTokens:   64,
		Temperature: 0.5,
	})
	require.NoError(t, err)
	defer s.Close()

	var text string
	for {
		frag, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		text += frag
	}

	assert.Equal(t, "Hello", text)
	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, true, got["stream"])
	assert.EqualValues(t, 64, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestProvider_StreamChat_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	p := NewProvider("sk-bad", srv.URL)
	_, err := p.StreamChat(context.Background(), &domainllm.ChatRequest{Model: "gpt-4o-mini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestProvider_SupportsModel(t *testing.T) {
	p := NewProvider("k", "")
	assert.Equal(t, "openai", p.Name())
	assert.True(t, p.SupportsModel("llama3"))
	assert.False(t, p.SupportsModel(""))
}
