package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend Backend, endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Backend = backend
	cfg.Endpoint = endpoint
	cfg.APIKey = "test-key"
	return cfg
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3-8b-8192", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "You review support answers.", req.System)
		assert.Equal(t, "Goal: check EMI", req.Prompt)
		assert.Equal(t, 128, req.Options.NumPredict)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3-8b-8192", Response: "YES - answered"})
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(BackendOllama, srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskReflect,
		SystemPrompt: "You review support answers.",
		UserPrompt:   "Goal: check EMI",
	})

	require.NoError(t, err)
	assert.Equal(t, "YES - answered", resp.Text)
	assert.Equal(t, "llama3-8b-8192", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestGroqClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "pick a tool", req.Messages[1].Content)
		assert.Equal(t, 256, req.MaxTokens)

		w.Write([]byte(`{"model":"llama3-8b-8192","choices":[{"message":{"role":"assistant","content":"  {\"tool\":\"none\"}  "}}]}`))
	}))
	defer srv.Close()

	client := NewGroqClient(testConfig(BackendGroq, srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskRoute,
		SystemPrompt: "router",
		UserPrompt:   "pick a tool",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"tool":"none"}`, resp.Text)
}

func TestGroqClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(BackendGroq, srv.URL)
	cfg.MaxRetries = 0

	_, err := NewGroqClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskRoute, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestGroqClient_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	cfg := testConfig(BackendGroq, srv.URL)
	cfg.MaxRetries = 0

	_, err := NewGroqClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskRoute, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(BackendOllama, srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskReflect: {Temperature: 0.2, MaxTokens: 64, TimeoutMs: 50},
	}

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{
		Task:       TaskReflect,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
	assert.Equal(t, BackendOllama, captured.Backend)
}

func TestClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig(BackendOllama, "http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{
		Task:       TaskReflect,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestClient_Generate_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		json.NewEncoder(w).Encode(ollamaResponse{Model: "m", Response: "ok"})
	}))
	defer srv.Close()

	cfg := testConfig(BackendOllama, srv.URL)
	cfg.MaxRetries = 1

	resp, err := NewOllamaClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{
		Task:       TaskReflect,
		UserPrompt: "test",
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_Generate_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.7, req.Options.Temperature)
		assert.Equal(t, 32, req.Options.NumPredict)
		json.NewEncoder(w).Encode(ollamaResponse{Response: "ok"})
	}))
	defer srv.Close()

	temp, maxTok := 0.7, 32
	_, err := NewOllamaClient(testConfig(BackendOllama, srv.URL), nil).Generate(context.Background(), GenerateRequest{
		Task:        TaskReflect,
		UserPrompt:  "test",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)
}

func TestClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags", "/models":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(BackendOllama, srv.URL), nil).Available(context.Background()))
	assert.True(t, NewGroqClient(testConfig(BackendGroq, srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig(BackendOllama, "http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestNewClient(t *testing.T) {
	disabled, err := NewClient(DefaultConfig(), nil)
	require.NoError(t, err)
	_, err = disabled.Generate(context.Background(), GenerateRequest{Task: TaskReflect})
	assert.ErrorIs(t, err, ErrLLMDisabled)
	assert.False(t, disabled.Available(context.Background()))

	cfg := testConfig(BackendGroq, "")
	cfg.APIKey = ""
	_, err = NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	cfg = testConfig("bedrock", "")
	_, err = NewClient(cfg, nil)
	assert.Error(t, err)

	c, err := NewClient(testConfig(BackendOllama, ""), nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
