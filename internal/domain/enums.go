package domain

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentVerify  Intent = "verify"
	IntentPayment Intent = "payment"
	IntentClaim   Intent = "claim"
	IntentSOP     Intent = "sop"
	IntentUnknown Intent = "unknown"
)

// RequiresIdentity reports whether the intent's handler needs a verified customer.
// SOP degrades gracefully without one.
func (i Intent) RequiresIdentity() bool {
	return i == IntentPayment || i == IntentClaim
}

// AgentMode selects how a session turns utterances into responses.
type AgentMode string

const (
	ModeRule       AgentMode = "rule"
	ModeSupervisor AgentMode = "supervisor"
	ModeLLM        AgentMode = "llm"
)

// ValidAgentModes is the canonical set of accepted agent mode strings.
var ValidAgentModes = map[string]bool{
	"rule": true, "supervisor": true, "llm": true,
}

type PaymentStatus string

const (
	PaymentCurrent PaymentStatus = "current"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentPaid    PaymentStatus = "paid"
)

const (
	ClaimStatusNew        = "New"
	ClaimStatusInProgress = "In Progress"
	ClaimStatusSettled    = "Settled"
)

type SOPMode string

const (
	SOPModeDocument SOPMode = "document"
	SOPModePatterns SOPMode = "patterns"
)
