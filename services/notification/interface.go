package notification

import "context"

// MessageSender delivers outbound text to a recipient. Delivery failures
// are the caller's to log; the sender never retries.
type MessageSender interface {
	Send(ctx context.Context, phoneNumber, text string) error
}
