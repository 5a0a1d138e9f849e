package domain

import "sort"

// Relevance thresholds for the two scoring paths.
const (
	// MinAIScore is the cutoff applied to model-produced results.
	MinAIScore = 30
	// MinFallbackScore is the cutoff applied to fallback-scored results.
	MinFallbackScore = 10
	// MaxScore caps every relevance score.
	MaxScore = 100
)

// MatchableFields are the listing fields a SearchResult may report a hit on.
var MatchableFields = []string{"type", "owner", "role", "availableDays"}

// SearchResult is a single scored hit against the candidate listing set.
type SearchResult struct {
	ID             string   `json:"id"`
	RelevanceScore int      `json:"relevanceScore"`
	MatchedFields  []string `json:"matchedFields"`
	Explanation    string   `json:"explanation"`
}

// ClampScore bounds a relevance score to [0, MaxScore].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// IsMatchableField reports whether name is a recognized matched-field label.
func IsMatchableField(name string) bool {
	for _, f := range MatchableFields {
		if f == name {
			return true
		}
	}
	return false
}

// SortByScore orders results by descending relevance score. Ties keep their
// relative order so the candidate set's ordering survives.
func SortByScore(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
}
