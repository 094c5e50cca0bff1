package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// NewGroqClient creates an LLMClient for Groq's OpenAI-compatible
// chat completions API.
func NewGroqClient(cfg LLMConfig, observer Observer) LLMClient {
	return newRetryingClient(cfg, &groqTransport{
		endpoint: cfg.EffectiveEndpoint(),
		apiKey:   cfg.APIKey,
		http:     newHTTPClient(),
	}, observer)
}

type groqTransport struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (t *groqTransport) generate(ctx context.Context, p callParams) (string, string, error) {
	var msgs []chatMessage
	if p.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: p.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: p.Prompt})

	data, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    msgs,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	httpResp, err := t.http.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", "", fmt.Errorf("groq returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out.Error != nil {
		return "", "", fmt.Errorf("groq returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(out.Error.Message))
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("groq returned status %d", httpResp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", "", errors.New("groq returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), out.Model, nil
}

func (t *groqTransport) ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"/models", nil)
	if err != nil {
		return false
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
