package assistant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/identity"
)

const (
	welcomeMessage = "Hello! Welcome to Auto Finance Support.\n\n" +
		"To help you better, please verify yourself.\n" +
		"You can say things like:\n" +
		"- 'I am John Doe'\n" +
		"- 'My loan number is LN001'\n" +
		"- 'My phone number is 9876543210'"

	paymentVerifyPrompt = "Before I can access your payment details, please verify yourself.\n" +
		"Can you share your name and either your loan number or phone number?"

	claimVerifyPrompt = "Please verify your identity first before we log your claim.\n" +
		"You can say 'I am John Doe' or provide your loan number."

	verifyPrompt = "Verification Agent: Please provide your loan number (e.g., LN001) or registered phone number for verification."

	unverifiedHelp = "I'm here to help with auto finance services like payments, claims, and insurance.\n" +
		"Please tell me your name or loan number to begin verification."

	clarifyDomain = "I couldn't identify the domain for this request. Please clarify: payment, claim, or coverage?"

	emptyInput = "Please type a question about payments, claims, or insurance coverage."

	claimNotRecorded = "Claim Agent: Your claim could not be recorded right now. Nothing was filed; please try again shortly."
)

func verifiedNextStep(v domain.Verification) string {
	return fmt.Sprintf("Verified %s (Loan %s).\nWhat would you like to do next — check your EMI, claim status, or insurance coverage?",
		v.DisplayName(), v.LoanRef())
}

func verifiedSummary(v domain.Verification) string {
	return fmt.Sprintf("Verification Agent: Verified %s (Loan %s).", v.DisplayName(), v.LoanRef())
}

func verifiedGreeting(v domain.Verification) string {
	return fmt.Sprintf("Hello again, %s! How can I help: EMI, claim status, or insurance coverage?",
		domain.CoalesceStr(v.FirstName, v.DisplayName()))
}

// verificationFailed names the reason a lookup failed so the user knows what
// to supply next.
func verificationFailed(v domain.Verification) string {
	switch {
	case errors.Is(v.Err, domain.ErrSchemaMissing), errors.Is(v.Err, domain.ErrDataUnavailable):
		return fmt.Sprintf("Verification Agent: Verification is unavailable right now (%s).", v.Reason)
	case v.Reason == identity.ReasonNotFound:
		return "Verification Agent: No matching customer found. Please provide your loan number (e.g., LN001) or registered phone number for verification."
	default:
		return verifyPrompt
	}
}

func farewell(steps []Step, verified bool) string {
	var topics []string
	seen := map[domain.Intent]bool{}
	for _, st := range steps {
		if st.Handled {
			seen[st.Intent] = true
		}
	}
	if verified {
		topics = append(topics, "You were successfully verified.")
	}
	if seen[domain.IntentPayment] {
		topics = append(topics, "We discussed your payment or EMI details.")
	}
	if seen[domain.IntentClaim] {
		topics = append(topics, "We filed or checked an insurance claim.")
	}
	if seen[domain.IntentSOP] {
		topics = append(topics, "We reviewed insurance coverage or SOP details.")
	}
	if len(topics) == 0 {
		topics = append(topics, "No significant actions detected.")
	}
	for i, t := range topics {
		topics[i] = "- " + t
	}
	return "Here's a quick summary of our chat today:\n\n" +
		strings.Join(topics, "\n") +
		"\n\nThank you for connecting with Auto Finance Support!"
}
