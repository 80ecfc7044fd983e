package models

// AgentTurn is one side of a stored conversation exchange.
type AgentTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// AgentContext is the per-user conversation state cached between webhook
// messages so the agent keeps short-term memory across turns.
type AgentContext struct {
	History []AgentTurn `json:"history"`
}
