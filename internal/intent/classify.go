// Package intent maps free text to a fixed intent set by keyword matching.
package intent

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
)

type rule struct {
	intent   domain.Intent
	keywords []string
}

// rules are checked in order; the first rule with any substring hit wins.
// "status" sits under claim, so "status of my claim and EMI" is a payment.
var rules = []rule{
	{domain.IntentVerify, []string{"verify", "identity", "who am i", "my name"}},
	{domain.IntentPayment, []string{"emi", "payment", "due date", "installment", "balance", "paid"}},
	{domain.IntentClaim, []string{"claim", "accident", "damage", "theft", "status"}},
	{domain.IntentSOP, []string{"sop", "procedure", "insurance", "coverage", "policy"}},
}

// Classify returns the intent of text, or IntentUnknown.
func Classify(text string) domain.Intent {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.intent
		}
	}
	return domain.IntentUnknown
}

// Keywords returns the keyword list for an intent, as listed by /help.
func Keywords(i domain.Intent) []string {
	for _, r := range rules {
		if r.intent == i {
			return append([]string(nil), r.keywords...)
		}
	}
	return nil
}

var (
	greetingPattern = regexp.MustCompile(`(?i)\b(hi|hello|hey|good morning|good evening|good afternoon)\b`)
	farewellWords   = []string{"thanks", "thank you", "goodbye", "end chat", "that's all", "bye"}
)

// IsGreeting reports whether text contains a greeting as a whole word, so
// "this" or "ship" do not count.
func IsGreeting(text string) bool {
	return greetingPattern.MatchString(text)
}

// IsFarewell reports whether text ends the conversation.
func IsFarewell(text string) bool {
	return containsAny(strings.ToLower(text), farewellWords)
}

// IncidentType picks a claim incident type from the words in text.
// It returns "" when nothing matches so the claim default applies.
func IncidentType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "theft"), strings.Contains(lower, "stolen"):
		return "Theft"
	case strings.Contains(lower, "fire"):
		return "Fire"
	case strings.Contains(lower, "flood"):
		return "Flood"
	case strings.Contains(lower, "damage"):
		return "Damage"
	case strings.Contains(lower, "accident"), strings.Contains(lower, "collision"):
		return "Accident"
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
