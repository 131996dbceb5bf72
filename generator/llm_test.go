package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestNewOpenAILLMFromConfig(t *testing.T) {
	_, err := NewOpenAILLMFromConfig(nil)
	assert.Error(t, err)
	_, err = NewOpenAILLMFromConfig(&LLMSettings{Model: "m"})
	assert.Error(t, err)
	_, err = NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k"})
	assert.Error(t, err)
	llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k", Model: "m", Temperature: float(0.5)})
	require.NoError(t, err)
	assert.Equal(t, "m", llm.Model)
	require.NotNil(t, llm.Temperature)
	assert.Equal(t, 0.5, *llm.Temperature)
	assert.Nil(t, llm.TopP)
}

func TestOpenAILLMComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion("# Doc"))
	}))
	defer srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{
		APIKey: "secret", Model: "test-model", BaseURL: srv.URL + "/v1/", Temperature: float(0.5), TopP: float(0.95),
	})
	require.NoError(t, err)

	out, err := llm.Complete(context.Background(), Prompt{System: "sys", User: "write"})
	require.NoError(t, err)
	assert.Equal(t, "# Doc", out)
	assert.Equal(t, "test-model", body["model"])
	assert.Equal(t, 0.5, body["temperature"])
	assert.Equal(t, 0.95, body["top_p"])
	assert.NotContains(t, body, "response_format")
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestOpenAILLMCompleteWithSchema(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`[]`))
	}))
	defer srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	out, err := llm.Complete(context.Background(), BuildAnnotationPrompt("doc"))
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.NotContains(t, body, "temperature")

	rf, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", rf["type"])
	js, ok := rf["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "flashcards", js["name"])
}

func TestOpenAILLMSendsExplicitZeroSampling(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion("ok"))
	}))
	defer srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{
		APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1/", Temperature: float(0), TopP: float(0),
	})
	require.NoError(t, err)
	_, err = llm.Complete(context.Background(), Prompt{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, body["temperature"])
	assert.Equal(t, 0.0, body["top_p"])
}

func TestOpenAILLMSingleRequestOnError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	_, err = llm.Complete(context.Background(), Prompt{User: "x"})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOllamaLLMComplete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": `[{"type":"keyInfo","content":"x"}]`},
			"done":    true,
		})
	}))
	defer srv.Close()

	llm, err := NewOllamaLLMFromConfig(&LLMSettings{Model: "llama3.2", BaseURL: srv.URL + "/", Temperature: float(0.5)})
	require.NoError(t, err)
	out, err := llm.Complete(context.Background(), BuildAnnotationPrompt("doc"))
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"keyInfo","content":"x"}]`, out)
	assert.Equal(t, "llama3.2", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "array", got.Format["type"])
	assert.Equal(t, 0.5, got.Options["temperature"])
	assert.NotContains(t, got.Options, "top_p")
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOllamaLLMServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	llm, err := NewOllamaLLMFromConfig(&LLMSettings{Model: "missing", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = llm.Complete(context.Background(), Prompt{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaDefaults(t *testing.T) {
	llm, err := NewOllamaLLMFromConfig(&LLMSettings{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, defaultOllamaURL, llm.baseURL)

	_, err = NewOllamaLLMFromConfig(&LLMSettings{})
	assert.Error(t, err)
}

func TestMockLLM(t *testing.T) {
	out, err := MockLLM{}.Complete(context.Background(), Prompt{User: "hello"})
	require.NoError(t, err)
	assert.Contains(t, out, "hello")

	out, err = MockLLM{}.Complete(context.Background(), BuildAnnotationPrompt("doc"))
	require.NoError(t, err)
	cards, err := ParseAnnotations(out)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func float(v float64) *float64 { return &v }
