// Package assistant runs a conversation: it verifies the requester, routes
// each utterance to a domain handler and records the turn.
package assistant

import (
	"context"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/handler"
	"github.com/alexanderramin/autofin/internal/identity"
	"github.com/alexanderramin/autofin/internal/intent"
)

// Reply is the outcome of one turn.
type Reply struct {
	Text   string
	Intent domain.Intent
	// Handled is true when a domain handler produced Text.
	Handled bool
	// GoalAchieved is the supervisor's verdict, when one was given.
	GoalAchieved *bool
}

// Responder turns an utterance into a reply within a session.
type Responder interface {
	Respond(ctx context.Context, s *Session, text string) (Reply, error)
}

// IdentityResolver looks up a customer.
type IdentityResolver interface {
	Resolve(q identity.Query) domain.Verification
}

// PaymentHandler answers EMI questions for a verified customer.
type PaymentHandler interface {
	Handle(v domain.Verification) string
}

// ClaimHandler reports or files a claim for a verified customer.
type ClaimHandler interface {
	Handle(ctx context.Context, v domain.Verification, req domain.ClaimRequest) (string, error)
}

// Handlers bundles the collaborators of a Router.
type Handlers struct {
	Resolver IdentityResolver
	Payments PaymentHandler
	Claims   ClaimHandler
	SOP      handler.KnowledgeBase
}

// Router is the keyword-rule core shared by every agent mode.
type Router struct {
	h Handlers
}

func NewRouter(h Handlers) *Router {
	return &Router{h: h}
}

// nextStepKeywords mark an utterance that asks for something beyond
// verification.
var nextStepKeywords = []string{"emi", "claim", "insurance", "coverage", "payment"}

// Respond verifies the requester when possible, classifies the utterance and
// dispatches it.
func (r *Router) Respond(ctx context.Context, s *Session, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{Text: emptyInput, Intent: domain.IntentUnknown}, nil
	}

	var failed *domain.Verification
	if !s.Verified() {
		if q := identity.ExtractQuery(text); !q.Empty() {
			v := r.h.Resolver.Resolve(q)
			if v.OK {
				s.Verify(v)
				if !mentionsAny(text, nextStepKeywords) {
					return Reply{Text: verifiedNextStep(v), Intent: domain.IntentVerify, Handled: true}, nil
				}
			} else if q.Loan != "" || q.Phone != "" || identity.Introduced(text) {
				failed = &v
			}
		}
	}

	in := intent.Classify(text)
	if in == domain.IntentUnknown {
		return r.unknown(s, text, failed), nil
	}
	if failed != nil && in != domain.IntentSOP {
		return Reply{Text: verificationFailed(*failed), Intent: in}, nil
	}
	return r.Dispatch(ctx, s, in, text, domain.ClaimRequest{IncidentType: intent.IncidentType(text)})
}

// Dispatch runs the handler for in. Payment and claim requests from an
// unverified session get a verification prompt and touch no data.
func (r *Router) Dispatch(ctx context.Context, s *Session, in domain.Intent, text string, req domain.ClaimRequest) (Reply, error) {
	v := s.Identity()

	switch in {
	case domain.IntentVerify:
		if !v.OK {
			return Reply{Text: verifyPrompt, Intent: in}, nil
		}
		return Reply{Text: verifiedSummary(v), Intent: in, Handled: true}, nil

	case domain.IntentPayment:
		if !v.OK {
			return Reply{Text: paymentVerifyPrompt, Intent: in}, nil
		}
		return Reply{Text: r.h.Payments.Handle(v), Intent: in, Handled: true}, nil

	case domain.IntentClaim:
		if !v.OK {
			return Reply{Text: claimVerifyPrompt, Intent: in}, nil
		}
		out, err := r.h.Claims.Handle(ctx, v, req)
		if err != nil {
			return Reply{Intent: in}, err
		}
		return Reply{Text: out, Intent: in, Handled: true}, nil

	case domain.IntentSOP:
		out := r.h.SOP.Answer(text, v)
		if handler.IsFallback(out) && !v.OK {
			return Reply{Text: unverifiedHelp, Intent: in}, nil
		}
		return Reply{Text: out, Intent: in, Handled: true}, nil

	default:
		return r.unknown(s, text, nil), nil
	}
}

// Verify resolves q directly, as the verify tool of the LLM agent does.
func (r *Router) Verify(s *Session, q identity.Query) Reply {
	if s.Verified() {
		return Reply{Text: verifiedSummary(s.Identity()), Intent: domain.IntentVerify, Handled: true}
	}
	if q.Empty() {
		return Reply{Text: verifyPrompt, Intent: domain.IntentVerify}
	}
	v := r.h.Resolver.Resolve(q)
	if !v.OK {
		return Reply{Text: verificationFailed(v), Intent: domain.IntentVerify}
	}
	s.Verify(v)
	return Reply{Text: verifiedSummary(v), Intent: domain.IntentVerify, Handled: true}
}

func (r *Router) unknown(s *Session, text string, failed *domain.Verification) Reply {
	reply := Reply{Intent: domain.IntentUnknown}
	switch {
	case intent.IsFarewell(text):
		reply.Text = farewell(s.Transcript(), s.Verified())
	case intent.IsGreeting(text):
		if s.Verified() {
			reply.Text = verifiedGreeting(s.Identity())
		} else {
			reply.Text = welcomeMessage
		}
	case failed != nil:
		reply.Text = verificationFailed(*failed)
	case s.Verified():
		reply.Text = clarifyDomain
	default:
		reply.Text = unverifiedHelp
	}
	return reply
}

func mentionsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
