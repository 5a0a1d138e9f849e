// Package suggest produces short query-completion phrases for the search
// input, via the generative model when one is configured and mechanical
// qualifier synthesis otherwise.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxSuggestions caps every suggestion list.
const MaxSuggestions = 5

// starters are shown when the input is still empty.
var starters = []string{
	"coffee grounds for garden",
	"vegetable scraps near me",
	"restaurant food waste pickup",
	"organic compost delivery",
	"fruit peels for composting",
}

// cacheTTL matches how long a suggestion list stays useful while the user
// keeps typing around the same phrase.
const cacheTTL = 5 * time.Minute

// ModelClient issues a single prompt and returns the raw completion text.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Cache stores suggestion lists between keystrokes. Model calls are the
// only expensive path, so only their results are cached.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service generates search suggestions. Like the search path it never
// surfaces errors: the worst outcome is an empty list.
type Service struct {
	model  ModelClient
	cache  Cache
	prefix string
	logger *zap.Logger
}

// New creates a suggestion service. model may be nil.
func New(model ModelClient, logger *zap.Logger) *Service {
	return &Service{model: model, logger: logger}
}

// WithCache enables caching of model-produced suggestion lists under
// prefix-namespaced keys.
func (s *Service) WithCache(cache Cache, prefix string) *Service {
	s.cache = cache
	s.prefix = prefix
	return s
}

// Suggest returns up to MaxSuggestions completion phrases for query.
// Empty query yields the fixed starter list; without a model the query is
// combined with fixed qualifiers; the model path returns an empty list on
// any failure rather than synthesizing.
func (s *Service) Suggest(ctx context.Context, query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]string(nil), starters...)
	}

	if s.model == nil {
		return synthesize(q)
	}

	if cached, ok := s.cacheGet(ctx, q); ok {
		return cached
	}

	text, err := s.model.Complete(ctx, buildPrompt(q))
	if err != nil {
		s.logger.Warn("model suggestions failed",
			zap.String("query", q),
			zap.Error(err),
		)
		return nil
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(stripFences(text)), &suggestions); err != nil {
		s.logger.Warn("unparseable model suggestions",
			zap.String("query", q),
			zap.String("raw_response", text),
			zap.Error(err),
		)
		return nil
	}

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	s.cachePut(ctx, q, suggestions)
	return suggestions
}

func (s *Service) cacheKey(q string) string {
	return s.prefix + "suggest:" + strings.ToLower(q)
}

func (s *Service) cacheGet(ctx context.Context, q string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, s.cacheKey(q))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var suggestions []string
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}

func (s *Service) cachePut(ctx context.Context, q string, suggestions []string) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, s.cacheKey(q), data, cacheTTL); err != nil {
		s.logger.Warn("suggestion cache write failed", zap.Error(err))
	}
}

// synthesize appends fixed qualifiers to the query, in a stable order.
func synthesize(q string) []string {
	return []string{
		q + " for garden",
		q + " pickup",
		q + " delivery",
		"organic " + q,
		q + " compost",
	}
}

func buildPrompt(query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the search query %q for a compost marketplace, suggest %d related search terms that users might find helpful.\n", query, MaxSuggestions)
	b.WriteString("The marketplace connects restaurants with food waste to gardeners and farmers who need compost materials.\n\n")
	b.WriteString("Return only a JSON array of strings, no additional text.\n")
	b.WriteString(`Example: ["coffee grounds for garden", "vegetable scraps pickup", "organic waste delivery"]` + "\n")
	return b.String()
}

// stripFences removes a surrounding markdown code fence from model output.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	}
	return strings.TrimSpace(t)
}
