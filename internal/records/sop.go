package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultSOPDocument is used when no SOP document file exists.
func DefaultSOPDocument() domain.SOPDocument {
	return domain.SOPDocument{
		CoverageOverview: "Comprehensive motor insurance policy.",
		StandardFeatures: []string{"Third-party liability", "Own damage"},
		CommonAddons:     nil,
		ClaimProcessSteps: []string{
			"Inform insurer within 24 hours",
			"Submit RC, DL, photos, FIR (if applicable)",
			"Surveyor inspection & approval",
			"Claim settled within 5 working days",
		},
		RequiredDocuments: []string{"RC", "DL", "Policy Copy", "FIR (if applicable)"},
	}
}

// LoadSOPDocument reads a JSON or YAML SOP document. YAML is chosen by the
// .yaml/.yml extension. A missing file yields the default document.
func LoadSOPDocument(path string) (domain.SOPDocument, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSOPDocument(), nil
	}
	if err != nil {
		return domain.SOPDocument{}, fmt.Errorf("%w: reading %s: %w", domain.ErrDataUnavailable, path, err)
	}

	var doc domain.SOPDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return domain.SOPDocument{}, fmt.Errorf("%w: decoding %s: %w", domain.ErrDataUnavailable, path, err)
	}
	return doc, nil
}

// SOPStatus describes how loading the pattern knowledge base went.
type SOPStatus int

const (
	SOPLoaded SOPStatus = iota
	SOPMissing
	SOPEmpty
	SOPInvalid
)

// SOPPatterns is the pattern-form knowledge base plus its load status, so the
// handler can answer with an explicit degraded response.
type SOPPatterns struct {
	Entries []domain.SOPEntry
	Status  SOPStatus
	Path    string
	// ErrLine is the 1-based line of a JSON syntax error, when known.
	ErrLine int
}

// LoadSOPPatterns reads the pattern-form knowledge base. It never fails; load
// problems are reported through Status.
func LoadSOPPatterns(path string) SOPPatterns {
	out := SOPPatterns{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		out.Status = SOPMissing
		return out
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		out.Status = SOPEmpty
		return out
	}

	var entries []domain.SOPEntry
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		out.Status = SOPInvalid
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			off := min(int(syntaxErr.Offset), len(content))
			out.ErrLine = 1 + strings.Count(content[:off], "\n")
		}
		return out
	}
	out.Entries = entries
	out.Status = SOPLoaded
	return out
}
