package assistant

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autofin/internal/llm"
)

const reflectSystemPrompt = `You are the Supervisor reviewing a customer-service assistant's execution results.
Determine if the user's goal was fully achieved.
Respond with:
- "YES" or "NO"
- Followed by a one-line reasoning.`

// Reflecting asks a text generator whether each handled turn achieved the
// user's goal and appends the answer. The verdict is informational only.
type Reflecting struct {
	next   Responder
	client llm.LLMClient
}

func NewReflecting(next Responder, client llm.LLMClient) *Reflecting {
	return &Reflecting{next: next, client: client}
}

func (r *Reflecting) Respond(ctx context.Context, s *Session, text string) (Reply, error) {
	reply, err := r.next.Respond(ctx, s, text)
	if err != nil || !reply.Handled {
		return reply, err
	}

	resp, genErr := r.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskReflect,
		SystemPrompt: reflectSystemPrompt,
		UserPrompt:   fmt.Sprintf("Goal: %s\nResult: %s", text, reply.Text),
	})
	var reflection string
	if genErr != nil {
		reflection = "Reflection step failed — " + genErr.Error()
	} else {
		reflection = resp.Text
		if v := llm.ParseVerdict(resp.Text); v.Known {
			achieved := v.Achieved
			reply.GoalAchieved = &achieved
		}
	}
	reply.Text = fmt.Sprintf("%s\n\nReflection: %s", reply.Text, reflection)
	return reply, nil
}
