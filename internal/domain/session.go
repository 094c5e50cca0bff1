package domain

import "time"

// Interaction is one logged conversational turn.
type Interaction struct {
	ID         string
	SessionID  string
	Mode       AgentMode
	Intent     Intent
	UserText   string
	Response   string
	CustomerID string
	CreatedAt  time.Time
}
