// Package search ranks the candidate listing set against natural-language
// queries, via a generative model when one is configured and a
// deterministic term-matching scorer otherwise.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/compostmatch/compostmatch/internal/domain"
	"github.com/compostmatch/compostmatch/internal/metrics"
)

// Source names the scoring path that produced a result set.
type Source string

const (
	// SourceAI marks results produced by the generative model.
	SourceAI Source = "ai"
	// SourceFallback marks results produced by the deterministic scorer.
	SourceFallback Source = "fallback"
)

// Service handles relevance search over a candidate listing set.
type Service struct {
	model  ModelClient
	logger *zap.Logger
}

// New creates a search service. model may be nil (fallback-only operation).
func New(model ModelClient, logger *zap.Logger) *Service {
	return &Service{model: model, logger: logger}
}

// Search scores listings against query. It never fails: any model error,
// unparseable response, or absent credential downgrades to the fallback
// scorer over the same inputs, so the caller always gets a usable (possibly
// empty) result set.
func (s *Service) Search(ctx context.Context, query string, listings []domain.Listing) ([]domain.SearchResult, Source) {
	if strings.TrimSpace(query) == "" || len(listings) == 0 {
		return nil, SourceFallback
	}

	if s.model == nil {
		metrics.SearchFallbackTotal.WithLabelValues("no_model").Inc()
		return Fallback(query, listings), SourceFallback
	}

	text, err := s.model.Complete(ctx, buildPrompt(query, listings))
	if err != nil {
		s.logger.Warn("model search failed, using fallback scorer",
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.SearchFallbackTotal.WithLabelValues("model_error").Inc()
		return Fallback(query, listings), SourceFallback
	}

	known := make(map[string]struct{}, len(listings))
	for i := range listings {
		known[listings[i].ID] = struct{}{}
	}

	results, dropped, err := parseResults(text, known)
	if err != nil {
		s.logger.Error("unparseable model response, using fallback scorer",
			zap.String("query", query),
			zap.String("raw_response", text),
			zap.Error(err),
		)
		metrics.SearchFallbackTotal.WithLabelValues("parse_error").Inc()
		return Fallback(query, listings), SourceFallback
	}
	if len(dropped) > 0 {
		s.logger.Warn("dropped invalid model results",
			zap.String("query", query),
			zap.Strings("dropped", dropped),
		)
	}

	// The array parsed but held nothing usable: treat like a malformed
	// response. An empty-but-valid array is a legitimate "no matches".
	if len(results) == 0 && len(dropped) > 0 {
		metrics.SearchFallbackTotal.WithLabelValues("parse_error").Inc()
		return Fallback(query, listings), SourceFallback
	}

	// Do not trust the model to have honored the score floor or ordering.
	kept := results[:0]
	for _, r := range results {
		if r.RelevanceScore >= domain.MinAIScore {
			kept = append(kept, r)
		}
	}
	results = kept
	domain.SortByScore(results)

	return results, SourceAI
}
