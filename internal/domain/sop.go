package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SOPDocument is the structured knowledge base used by the document SOP mode.
type SOPDocument struct {
	CoverageOverview  string   `json:"coverage_overview" yaml:"coverage_overview"`
	StandardFeatures  []string `json:"standard_features" yaml:"standard_features"`
	CommonAddons      []Addon  `json:"common_addons" yaml:"common_addons"`
	ClaimProcessSteps []string `json:"claim_process_steps" yaml:"claim_process_steps"`
	RequiredDocuments []string `json:"required_documents" yaml:"required_documents"`
}

// Addon is an optional cover. Source documents list add-ons either as plain
// strings or as {name, description} objects; both decode into this type.
type Addon struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	// Structured is false when the source entry was a plain string.
	Structured bool `json:"-" yaml:"-"`
}

// String renders the add-on as a bullet body.
func (a Addon) String() string {
	if a.Structured {
		return fmt.Sprintf("%s: %s", a.Name, a.Description)
	}
	return a.Name
}

func (a *Addon) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Addon{Name: s}
		return nil
	}
	type plain Addon
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding add-on: %w", err)
	}
	*a = Addon(p)
	a.Structured = true
	return nil
}

func (a Addon) MarshalJSON() ([]byte, error) {
	if !a.Structured {
		return json.Marshal(a.Name)
	}
	return json.Marshal(map[string]string{"name": a.Name, "description": a.Description})
}

func (a *Addon) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = Addon{Name: node.Value}
		return nil
	}
	type plain Addon
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("decoding add-on: %w", err)
	}
	*a = Addon(p)
	a.Structured = true
	return nil
}

// SOPEntry is one pattern-matched answer of the pattern SOP mode.
type SOPEntry struct {
	QuestionPatterns []string `json:"question_patterns" yaml:"question_patterns"`
	Response         string   `json:"response" yaml:"response"`
}
