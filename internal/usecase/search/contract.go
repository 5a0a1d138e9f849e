package search

import "context"

// ModelClient is the generative-model collaborator. A nil ModelClient means
// no credential is configured and every search runs on the fallback scorer.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
