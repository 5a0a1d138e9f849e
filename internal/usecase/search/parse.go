package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// rawResult is the untrusted wire shape of one model-produced result.
// relevanceScore is a json.Number so both 87 and 87.0 decode.
type rawResult struct {
	ID             string      `json:"id"`
	RelevanceScore json.Number `json:"relevanceScore"`
	MatchedFields  []string    `json:"matchedFields"`
	Explanation    string      `json:"explanation"`
}

// stripFences removes markdown code-fence wrapping from a model response.
// Models routinely wrap JSON in ```json blocks despite instructions.
func stripFences(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}

// parseResults decodes and validates a model response against the candidate
// set. Entries that fail validation or reference unknown ids are dropped,
// not propagated. Returns an error only when the payload as a whole is not
// a JSON array.
func parseResults(text string, known map[string]struct{}) ([]domain.SearchResult, []string, error) {
	var raw []rawResult
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, nil, fmt.Errorf("decode model response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(raw))
	var dropped []string

	for i := range raw {
		r := &raw[i]
		if r.ID == "" {
			dropped = append(dropped, "entry with empty id")
			continue
		}
		if _, ok := known[r.ID]; !ok {
			// Model hallucinated an id outside the candidate set.
			dropped = append(dropped, "unknown id "+r.ID)
			continue
		}

		scoreF, err := r.RelevanceScore.Float64()
		if err != nil {
			dropped = append(dropped, "non-numeric score for id "+r.ID)
			continue
		}

		fields := make([]string, 0, len(r.MatchedFields))
		for _, f := range r.MatchedFields {
			if domain.IsMatchableField(f) {
				fields = append(fields, f)
			}
		}

		results = append(results, domain.SearchResult{
			ID:             r.ID,
			RelevanceScore: domain.ClampScore(int(scoreF)),
			MatchedFields:  fields,
			Explanation:    r.Explanation,
		})
	}

	return results, dropped, nil
}
