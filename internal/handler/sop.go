package handler

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/records"
)

// KnowledgeBase answers SOP questions. Identity is optional; v.OK is false
// for an unverified requester.
type KnowledgeBase interface {
	Answer(query string, v domain.Verification) string
}

// maxAddons caps the personalised add-on selection.
const maxAddons = 3

// SOP answers from the structured SOP document.
type SOP struct {
	doc domain.SOPDocument
}

func NewSOP(doc domain.SOPDocument) *SOP {
	return &SOP{doc: doc}
}

// Answer renders overview, standard features, the customer's add-ons, the
// claim process and required documents. The query text is not consulted.
func (s *SOP) Answer(_ string, v domain.Verification) string {
	var b strings.Builder
	b.WriteString("SOP Agent: ")
	if v.OK {
		fmt.Fprintf(&b, "For %s (Loan %s):\n", v.DisplayName(), v.LoanRef())
	}
	b.WriteString(s.doc.CoverageOverview)

	writeSection(&b, "Key standard features:", s.doc.StandardFeatures)

	var customerID string
	if v.OK {
		customerID = v.CustomerID
	}
	if addons := SelectAddons(customerID, s.doc.CommonAddons); len(addons) > 0 {
		lines := make([]string, len(addons))
		for i, a := range addons {
			lines[i] = a.String()
		}
		writeSection(&b, "Add-on covers:", lines)
	}

	writeSection(&b, "Claim process:", s.doc.ClaimProcessSteps)
	writeSection(&b, "Required documents:", s.doc.RequiredDocuments)
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n\n%s", title)
	for _, it := range items {
		fmt.Fprintf(b, "\n- %s", it)
	}
}

// SelectAddons picks up to three add-ons for a customer. The sha256 digest
// of the id, read as a big-endian integer h, selects addons[(h >> 8i) % n]
// for each i; repeats are skipped. The same id and list always yield the
// same selection in the same order.
func SelectAddons(customerID string, addons []domain.Addon) []domain.Addon {
	n := len(addons)
	if customerID == "" || n == 0 {
		return nil
	}
	sum := sha256.Sum256([]byte(customerID))
	h := new(big.Int).SetBytes(sum[:])
	mod := big.NewInt(int64(n))

	var picked []domain.Addon
	idx := new(big.Int)
	for i := 0; i < min(maxAddons, n); i++ {
		idx.Rsh(h, uint(8*i))
		idx.Mod(idx, mod)
		a := addons[idx.Int64()]
		if !containsAddon(picked, a) {
			picked = append(picked, a)
		}
	}
	return picked
}

func containsAddon(list []domain.Addon, a domain.Addon) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

// PatternKB answers from the pattern-form knowledge base by substring match.
type PatternKB struct {
	kb records.SOPPatterns
}

func NewPatternKB(kb records.SOPPatterns) *PatternKB {
	return &PatternKB{kb: kb}
}

// Fallback is the pattern-mode reply when no entry matches.
const Fallback = "Sorry, I couldn't find a standard process for that. Would you like to connect to an agent?"

// Answer returns the first entry whose pattern occurs in the query. Load
// problems yield an explicit degraded reply.
func (p *PatternKB) Answer(query string, _ domain.Verification) string {
	switch p.kb.Status {
	case records.SOPMissing:
		return fmt.Sprintf("SOP data file not found. Please ensure %s exists.", p.kb.Path)
	case records.SOPEmpty:
		return "SOP data file is empty. Please repopulate it with valid content."
	case records.SOPInvalid:
		if p.kb.ErrLine > 0 {
			return fmt.Sprintf("SOP data file is invalid JSON (error at line %d). Please fix and retry.", p.kb.ErrLine)
		}
		return "SOP data file is invalid JSON. Please fix and retry."
	}

	q := strings.ToLower(query)
	for _, e := range p.kb.Entries {
		for _, pattern := range e.QuestionPatterns {
			pattern = strings.ToLower(strings.TrimSpace(pattern))
			if pattern != "" && strings.Contains(q, pattern) {
				return "SOP: " + e.Response
			}
		}
	}
	return Fallback
}

// IsFallback reports whether a reply is the pattern-mode no-match answer.
func IsFallback(reply string) bool {
	return reply == Fallback
}
