package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/alexanderramin/autofin/internal/intent"
	"github.com/alexanderramin/autofin/internal/llm"
)

// Tool names the LLM agent may choose.
const (
	ToolVerify  = "verify_user"
	ToolPayment = "payment_lookup"
	ToolClaim   = "claim"
	ToolSOP     = "sop_lookup"
	ToolNone    = "none"
)

var validTools = map[string]bool{
	ToolVerify: true, ToolPayment: true, ToolClaim: true, ToolSOP: true, ToolNone: true,
}

const routeSystemPrompt = `You are the tool router for an auto finance customer support assistant.
Pick exactly one tool for the customer's message.

Tools:
- verify_user: verify customer identity using name, loan number or phone number
- payment_lookup: EMI amount, payment due date and loan balance for a verified customer
- claim: report or check an accident, theft or damage insurance claim
- sop_lookup: insurance coverage, add-ons, claim procedure and required documents
- none: greetings, thanks, or anything the other tools cannot answer

You must output ONLY a JSON object with these fields:
- tool: one of [verify_user, payment_lookup, claim, sop_lookup, none]
- loan: loan number mentioned by the customer, or ""
- phone: phone number mentioned by the customer, or ""
- name: full name mentioned by the customer, or ""
- incident_type: for claims, one of [Accident, Theft, Damage, Fire, Flood], or ""

Output ONLY the JSON object, no markdown, no explanation.`

// ToolChoice is the router's structured answer.
type ToolChoice struct {
	Tool         string `json:"tool"`
	Loan         string `json:"loan"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	IncidentType string `json:"incident_type"`
}

func validateToolChoice(c ToolChoice) error {
	if !validTools[c.Tool] {
		return fmt.Errorf("unknown tool: %q", c.Tool)
	}
	return nil
}

// LLMAgent lets a text generator pick the tool and executes it through the
// same Router, so verification gating and claim rules still apply.
type LLMAgent struct {
	core   *Router
	client llm.LLMClient
}

func NewLLMAgent(core *Router, client llm.LLMClient) *LLMAgent {
	return &LLMAgent{core: core, client: client}
}

func (a *LLMAgent) Respond(ctx context.Context, s *Session, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{Text: emptyInput, Intent: domain.IntentUnknown}, nil
	}

	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRoute,
		SystemPrompt: routeSystemPrompt,
		UserPrompt:   text,
	})
	if err != nil {
		return Reply{Text: "LLM Agent Error: " + err.Error(), Intent: domain.IntentUnknown}, nil
	}
	choice, err := llm.ExtractJSON[ToolChoice](resp.Text, validateToolChoice)
	if err != nil {
		return Reply{Text: "LLM Agent Error: " + err.Error(), Intent: domain.IntentUnknown}, nil
	}

	switch choice.Tool {
	case ToolVerify:
		return a.core.Verify(s, a.query(choice, text)), nil
	case ToolPayment:
		a.verifyInline(s, choice, text)
		return a.core.Dispatch(ctx, s, domain.IntentPayment, text, domain.ClaimRequest{})
	case ToolClaim:
		a.verifyInline(s, choice, text)
		req := domain.ClaimRequest{IncidentType: domain.CoalesceStr(choice.IncidentType, intent.IncidentType(text))}
		return a.core.Dispatch(ctx, s, domain.IntentClaim, text, req)
	case ToolSOP:
		return a.core.Dispatch(ctx, s, domain.IntentSOP, text, domain.ClaimRequest{})
	default:
		return a.core.Respond(ctx, s, text)
	}
}

// query merges the model's arguments with fragments found in the text
// itself. Values from the text win since the model may paraphrase them.
func (a *LLMAgent) query(c ToolChoice, text string) identity.Query {
	q := identity.ExtractQuery(text)
	q.Loan = domain.CoalesceStr(q.Loan, strings.TrimSpace(c.Loan))
	q.Phone = domain.CoalesceStr(q.Phone, strings.TrimSpace(c.Phone))
	q.Name = domain.CoalesceStr(q.Name, strings.TrimSpace(c.Name))
	return q
}

// verifyInline resolves identifiers that arrive together with a payment or
// claim request, such as "EMI for LN001".
func (a *LLMAgent) verifyInline(s *Session, c ToolChoice, text string) {
	if s.Verified() {
		return
	}
	if q := a.query(c, text); !q.Empty() {
		a.core.Verify(s, q)
	}
}
