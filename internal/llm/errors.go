package llm

import "errors"

var (
	// ErrBackendUnavailable indicates the text generation server is unreachable.
	ErrBackendUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrLLMDisabled is returned by the client used when text generation is
	// switched off in configuration.
	ErrLLMDisabled = errors.New("llm disabled")

	// ErrMissingAPIKey indicates a hosted backend was selected without a key.
	ErrMissingAPIKey = errors.New("llm api key missing")
)
