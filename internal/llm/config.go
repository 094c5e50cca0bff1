package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskReflect asks whether a turn achieved the user's goal.
	TaskReflect TaskType = "reflect"
	// TaskRoute asks the model to choose one assistant tool.
	TaskRoute TaskType = "route"
)

// Backend names a text generation provider.
type Backend string

const (
	BackendGroq   Backend = "groq"
	BackendOllama Backend = "ollama"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultGroqEndpoint   = "https://api.groq.com/openai/v1"
	defaultModel          = "llama3-8b-8192"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Backend    Backend
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Backend:    BackendGroq,
		Model:      defaultModel,
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskReflect: {Temperature: 0.2, MaxTokens: 128, TimeoutMs: 8000},
			TaskRoute:   {Temperature: 0.0, MaxTokens: 256, TimeoutMs: 10000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("AUTOFIN_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("AUTOFIN_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LLM_BACKEND"); v != "" {
		cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	cfg.APIKey = os.Getenv("GROQ_API_KEY")
	if v := os.Getenv("AUTOFIN_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("AUTOFIN_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("AUTOFIN_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskReflect, "AUTOFIN_LLM_REFLECT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRoute, "AUTOFIN_LLM_ROUTE_TIMEOUT_MS")

	return cfg
}

// EffectiveEndpoint returns the configured endpoint or the backend default.
func (c LLMConfig) EffectiveEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Backend == BackendOllama {
		return defaultOllamaEndpoint
	}
	return defaultGroqEndpoint
}

// Validate reports configuration that cannot produce a working client.
// A disabled config is always valid.
func (c LLMConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Backend {
	case BackendOllama:
		return nil
	case BackendGroq:
		if strings.TrimSpace(c.APIKey) == "" {
			return fmt.Errorf("%w: set GROQ_API_KEY or LLM_BACKEND=ollama", ErrMissingAPIKey)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM_BACKEND %q (want groq or ollama)", c.Backend)
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
