package ai

import "context"

// Client is the generative-model port: one prompt in, raw reply text
// out. A single attempt per call; retry policy is deliberately absent.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
