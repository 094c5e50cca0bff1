package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// Markdown fences, prose around the object and // or /* */ comments are
// tolerated. If validator is non-nil, the value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	jsonStr := extractJSONBlock(stripCodeFences(raw))
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(stripJSONComments(jsonStr)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// stripCodeFences drops markdown fence lines (```json, ```), keeping the
// fenced content.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// stringTracker follows JSON string literal boundaries one byte at a time.
type stringTracker struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it lies inside (or delimits) a string.
func (t *stringTracker) step(c byte) bool {
	switch {
	case t.escaped:
		t.escaped = false
		return true
	case t.inString && c == '\\':
		t.escaped = true
		return true
	case c == '"':
		t.inString = !t.inString
		return true
	}
	return t.inString
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	var tr stringTracker
	depth := 0
	for i := start; i < len(s); i++ {
		if tr.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripJSONComments removes line and block comments outside string values.
func stripJSONComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var tr stringTracker
	for i := 0; i < len(s); i++ {
		c := s[i]
		if tr.step(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				break
			}
			i += end + 3
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Verdict is the parsed form of a YES/NO reflection answer.
type Verdict struct {
	// Known is false when the text starts with neither YES nor NO.
	Known    bool
	Achieved bool
	Reason   string
}

// ParseVerdict reads a "YES ..."/"NO ..." answer. The reason is the rest of
// the first non-empty line with leading punctuation removed.
func ParseVerdict(text string) Verdict {
	var line string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.TrimLeft(line, `-*"' `)
	upper := strings.ToUpper(line)

	var v Verdict
	switch {
	case hasWordPrefix(upper, "YES"):
		v = Verdict{Known: true, Achieved: true, Reason: line[3:]}
	case hasWordPrefix(upper, "NO"):
		v = Verdict{Known: true, Reason: line[2:]}
	default:
		return Verdict{Reason: line}
	}
	v.Reason = strings.TrimSpace(strings.TrimLeft(v.Reason, `"'.,:;- `))
	return v
}

// hasWordPrefix reports whether s starts with word followed by a non-letter,
// so "NOT SURE" does not read as "NO".
func hasWordPrefix(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	c := s[len(word)]
	return !(c >= 'A' && c <= 'Z')
}
