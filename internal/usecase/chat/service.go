// Package chat answers composting questions from a local pattern table,
// consulting the generative model only for topics no pattern recognizes.
// Reply always returns text; no failure in this package reaches the caller.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ModelClient issues a single prompt and returns the raw completion text.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service produces chat replies. model may be nil (pattern table only).
type Service struct {
	model  ModelClient
	logger *zap.Logger
}

// New creates a chat service.
func New(model ModelClient, logger *zap.Logger) *Service {
	return &Service{model: model, logger: logger}
}

// Reply answers a user message. The first matching pattern's canned answer
// wins; the model is consulted only for unmatched topics, and any failure
// there gets a coaching reply listing what the bot can do.
func (s *Service) Reply(ctx context.Context, message string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return DefaultReply
	}

	if answer, ok := lookup(msg); ok {
		return answer
	}

	if s.model != nil {
		text, err := s.model.Complete(ctx, buildPrompt(msg))
		if err != nil {
			s.logger.Warn("model chat failed, using coaching reply",
				zap.Error(err),
			)
		} else if reply := strings.TrimSpace(text); reply != "" {
			return reply
		}
	}

	return coachingReply
}

func buildPrompt(message string) string {
	var b strings.Builder
	b.WriteString("You are CompostBot, a friendly composting educator for a marketplace that connects restaurants with food waste to gardeners who need compost materials.\n")
	b.WriteString("Answer the user's question concisely and practically. Stay on composting topics.\n\n")
	fmt.Fprintf(&b, "User question: %s\n", message)
	return b.String()
}
