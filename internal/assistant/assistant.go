package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/autofin/internal/crmlog"
	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/llm"
	"github.com/google/uuid"
)

const recordTimeout = 2 * time.Second

// Assistant owns one session and is the boundary where failures become text.
// Turns must not be submitted concurrently.
type Assistant struct {
	session   *Session
	responder Responder
	logger    crmlog.Logger
	observer  TurnObserver
	log       *slog.Logger
	now       func() time.Time
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger records every turn with l.
func WithLogger(l crmlog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// WithObserver reports turn telemetry to o.
func WithObserver(o TurnObserver) Option {
	return func(a *Assistant) { a.observer = o }
}

// WithErrorLog sends internal failures to l.
func WithErrorLog(l *slog.Logger) Option {
	return func(a *Assistant) { a.log = l }
}

// WithClock overrides the interaction timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

func New(mode domain.AgentMode, responder Responder, opts ...Option) *Assistant {
	a := &Assistant{
		session:   NewSession(mode),
		responder: responder,
		logger:    crmlog.Nop{},
		observer:  NoopTurnObserver{},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ForMode builds the responder stack for mode around the rule core.
// Supervisor and LLM modes need a client.
func ForMode(mode domain.AgentMode, core *Router, client llm.LLMClient) (Responder, error) {
	switch mode {
	case domain.ModeRule:
		return core, nil
	case domain.ModeSupervisor:
		if client == nil {
			return nil, fmt.Errorf("%s mode: %w", mode, llm.ErrLLMDisabled)
		}
		return NewReflecting(core, client), nil
	case domain.ModeLLM:
		if client == nil {
			return nil, fmt.Errorf("%s mode: %w", mode, llm.ErrLLMDisabled)
		}
		return NewLLMAgent(core, client), nil
	default:
		return nil, fmt.Errorf("unknown agent mode %q", mode)
	}
}

func (a *Assistant) Session() *Session { return a.session }

// Clear starts a fresh unverified session.
func (a *Assistant) Clear() { a.session.Clear() }

// Handle processes one utterance and always returns a reply.
func (a *Assistant) Handle(ctx context.Context, text string) (out string) {
	start := time.Now()
	var reply Reply
	var turnErr error

	defer func() {
		if p := recover(); p != nil {
			ref := shortRef()
			turnErr = fmt.Errorf("panic: %v", p)
			a.log.Error("turn panicked", "ref", ref, "session", a.session.ID(), "panic", p)
			out = internalError(ref)
			reply = Reply{Text: out, Intent: domain.IntentUnknown}
		}
		a.finish(ctx, text, reply, turnErr, start)
	}()

	reply, turnErr = a.responder.Respond(ctx, a.session, text)
	if turnErr != nil {
		reply = Reply{Intent: reply.Intent}
		if reply.Intent == "" {
			reply.Intent = domain.IntentUnknown
		}
		if errors.Is(turnErr, domain.ErrPersistence) {
			a.log.Error("claim not recorded", "session", a.session.ID(), "error", turnErr)
			reply.Text = claimNotRecorded
		} else {
			ref := shortRef()
			a.log.Error("turn failed", "ref", ref, "session", a.session.ID(), "error", turnErr)
			reply.Text = internalError(ref)
		}
	}
	return reply.Text
}

func (a *Assistant) finish(ctx context.Context, text string, reply Reply, turnErr error, start time.Time) {
	now := a.now()
	a.session.append(Step{
		UserText: text,
		Response: reply.Text,
		Intent:   reply.Intent,
		Handled:  reply.Handled,
		At:       now,
	})

	identity := a.session.Identity()
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := a.logger.Record(rctx, domain.Interaction{
		ID:         uuid.New().String(),
		SessionID:  a.session.ID(),
		Mode:       a.session.Mode(),
		Intent:     reply.Intent,
		UserText:   text,
		Response:   reply.Text,
		CustomerID: identity.CustomerID,
		CreatedAt:  now,
	}); err != nil {
		a.log.Warn("interaction not recorded", "session", a.session.ID(), "error", err)
	}

	a.observer.ObserveTurn(ctx, TurnEvent{
		SessionID:    a.session.ID(),
		Mode:         a.session.Mode(),
		Intent:       reply.Intent,
		Verified:     identity.OK,
		Handled:      reply.Handled,
		GoalAchieved: reply.GoalAchieved,
		Duration:     time.Since(start),
		Err:          turnErr,
	})
}

func internalError(ref string) string {
	return fmt.Sprintf("Sorry, something went wrong on our side (internal error [ref %s]). Please try again.", ref)
}

func shortRef() string {
	return uuid.New().String()[:8]
}
