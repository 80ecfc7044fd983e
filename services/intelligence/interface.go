package ai

import "context"

// AgentService is the conversational agent surface consumed by the webhook
// and the sweep runner.
type AgentService interface {
	// HandleMessage runs one conversational turn for a user and returns the
	// reply text.
	HandleMessage(ctx context.Context, phoneNumber, text string) (string, error)
	// ProduceUpdate generates a brief investment update for a topic. An
	// empty result means the model had nothing to say; that is not an error.
	ProduceUpdate(ctx context.Context, phoneNumber, topic string) (string, error)
}
