package assistant

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/autofin/internal/domain"
)

// TurnEvent captures lightweight telemetry for one turn.
type TurnEvent struct {
	SessionID    string
	Mode         domain.AgentMode
	Intent       domain.Intent
	Verified     bool
	Handled      bool
	GoalAchieved *bool
	Duration     time.Duration
	Err          error
}

// TurnObserver receives turn events.
type TurnObserver interface {
	ObserveTurn(ctx context.Context, event TurnEvent)
}

// NoopTurnObserver ignores all events.
type NoopTurnObserver struct{}

func (NoopTurnObserver) ObserveTurn(context.Context, TurnEvent) {}

type logTurnObserver struct {
	logger *slog.Logger
}

// NewLogTurnObserver writes turn events to w.
func NewLogTurnObserver(w io.Writer, level slog.Leveler) TurnObserver {
	if w == nil {
		return NoopTurnObserver{}
	}
	return &logTurnObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func (o *logTurnObserver) ObserveTurn(ctx context.Context, e TurnEvent) {
	attrs := []any{
		"session", e.SessionID,
		"mode", string(e.Mode),
		"intent", string(e.Intent),
		"verified", e.Verified,
		"handled", e.Handled,
		"duration_ms", e.Duration.Milliseconds(),
	}
	if e.GoalAchieved != nil {
		attrs = append(attrs, "goal_achieved", *e.GoalAchieved)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err.Error())
		o.logger.ErrorContext(ctx, "assistant_turn", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "assistant_turn", attrs...)
}
