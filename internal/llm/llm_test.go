package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
)

func TestGroqClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"intent\":\"ok\"}\n"}}]}`))
	}))
	defer srv.Close()

	c := NewGroq(config.GroqConfig{Model: "llama-test", BaseURL: srv.URL + "/"}, "test-key", 5*time.Second)
	reply, err := c.Complete(context.Background(), "xin chào")
	require.NoError(t, err)

	assert.Equal(t, `{"intent":"ok"}`, reply)
	assert.Equal(t, "llama-test", got.Model)
	assert.Equal(t, 0.3, got.Temperature)
	assert.Equal(t, 1024, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "xin chào"}, got.Messages[0])
}

func TestGroqClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Authorization"), "limited") {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit"}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	cfg := config.GroqConfig{Model: "m", BaseURL: srv.URL}

	_, err := NewGroq(cfg, "limited", time.Second).Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, err = NewGroq(cfg, "ok", time.Second).Complete(context.Background(), "x")
	assert.Error(t, err)

	_, err = NewGroq(cfg, "", time.Second).Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestGroqClient_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewGroq(config.GroqConfig{BaseURL: srv.URL}, "k", 5*time.Second).Complete(ctx, "x")
	assert.Error(t, err)
}

func TestGeminiClient_Complete(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"phòng "},{"text":"trọ"}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewGemini(context.Background(), config.GeminiConfig{Model: "gemini-test"}, "k", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "room")
	require.NoError(t, err)
	assert.Equal(t, "phòng trọ", reply)
	assert.Contains(t, path, "models/gemini-test:generateContent")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), config.GeminiConfig{Model: "m"}, "")
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&generativelanguage.GenerateContentResponse{}))

	resp := &generativelanguage.GenerateContentResponse{
		Candidates: []*generativelanguage.Candidate{
			{Content: nil},
			{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: " "}}}},
			{Content: &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: "ok"}}}},
		},
	}
	assert.Equal(t, "ok", responseText(resp))
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "models/gemini-2.5-flash", modelName("gemini-2.5-flash"))
	assert.Equal(t, "models/x", modelName("models/x"))
}

func TestProviders(t *testing.T) {
	t.Setenv(GroqKeyEnv, "groq-key")
	t.Setenv(GeminiKeyEnv, "")

	providers := Providers(context.Background(), config.Default().LLM, nil)
	require.Len(t, providers, 1)
	assert.Equal(t, "groq", providers[0].Name)

	strategies := Strategies(providers, config.Default().LLM)
	require.Len(t, strategies, 1)
	assert.Equal(t, "groq", strategies[0].Name())
}

func TestProviders_NoKeys(t *testing.T) {
	t.Setenv(GroqKeyEnv, "")
	t.Setenv(GeminiKeyEnv, "")

	assert.Empty(t, Providers(context.Background(), config.Default().LLM, nil))
}
