package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolPayload struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[toolPayload](`{"tool":"payment_lookup"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "payment_lookup", result.Tool)
}

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Sure! Here is my choice:\n```json\n{\"tool\":\"claim\",\"args\":{\"incident_type\":\"Theft\"}}\n```\nLet me know."
	result, err := ExtractJSON[toolPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "claim", result.Tool)
	assert.Equal(t, "Theft", result.Args["incident_type"])
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"tool":"sop_lookup","args":{"query":"what is {zero dep}?"}} trailing }`
	result, err := ExtractJSON[toolPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "what is {zero dep}?", result.Args["query"])
}

func TestExtractJSON_Comments(t *testing.T) {
	raw := "{\n  // chosen because the user asked about EMI\n  \"tool\": \"payment_lookup\", /* no args */ \"args\": {\"url\": \"http://x\"}\n}"
	result, err := ExtractJSON[toolPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "payment_lookup", result.Tool)
	assert.Equal(t, "http://x", result.Args["url"])
}

func TestExtractJSON_Errors(t *testing.T) {
	_, err := ExtractJSON[toolPayload]("I don't know.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = ExtractJSON[toolPayload](`{"tool": broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = ExtractJSON[toolPayload](`{"tool":"claim"`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Validator(t *testing.T) {
	requireTool := func(p toolPayload) error {
		if p.Tool == "" {
			return errors.New("tool is required")
		}
		return nil
	}

	_, err := ExtractJSON[toolPayload](`{"args":{}}`, requireTool)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "tool is required")

	got, err := ExtractJSON[toolPayload](`{"tool":"none"}`, requireTool)
	require.NoError(t, err)
	assert.Equal(t, "none", got.Tool)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		text string
		want Verdict
	}{
		{"YES - the EMI details were returned.", Verdict{Known: true, Achieved: true, Reason: "the EMI details were returned."}},
		{"\n  no: claim was not created\nextra", Verdict{Known: true, Reason: "claim was not created"}},
		{`"Yes." Goal met`, Verdict{Known: true, Achieved: true, Reason: "Goal met"}},
		{"Maybe", Verdict{Reason: "Maybe"}},
		{"Not sure", Verdict{Reason: "Not sure"}},
		{"", Verdict{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerdict(tt.text))
		})
	}
}
