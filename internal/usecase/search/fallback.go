package search

import (
	"strings"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// Field weights for a full-phrase hit and for individual term hits. The
// asymmetry mirrors how users phrase queries: compost type first, owner
// second, provenance and schedule last.
const (
	phraseTypeWeight  = 40
	phraseOwnerWeight = 30
	phraseRoleWeight  = 20
	phraseDaysWeight  = 15

	termTypeWeight  = 10
	termOwnerWeight = 8
	termRoleWeight  = 5
	termDaysWeight  = 3

	// Query terms this short match too much to mean anything.
	minTermLen = 3
)

// Fallback scores listings against a query with deterministic substring
// matching. Pure and synchronous: it is the guaranteed-available path when
// the model is unreachable or unconfigured.
func Fallback(query string, listings []domain.Listing) []domain.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	q := strings.ToLower(query)

	var terms []string
	for _, t := range strings.Fields(q) {
		if len(t) >= minTermLen {
			terms = append(terms, t)
		}
	}

	results := make([]domain.SearchResult, 0, len(listings))
	for i := range listings {
		if r, ok := scoreListing(q, terms, &listings[i]); ok {
			results = append(results, r)
		}
	}

	domain.SortByScore(results)
	return results
}

func scoreListing(q string, terms []string, l *domain.Listing) (domain.SearchResult, bool) {
	typeText := strings.ToLower(l.Type)
	ownerText := strings.ToLower(l.Owner)
	roleText := strings.ToLower(string(l.Role))
	daysText := strings.ToLower(strings.Join(l.AvailableDays, " "))

	score := 0
	var matched []string

	if strings.Contains(typeText, q) {
		score += phraseTypeWeight
		matched = append(matched, "type")
	}
	if strings.Contains(ownerText, q) {
		score += phraseOwnerWeight
		matched = append(matched, "owner")
	}
	if strings.Contains(roleText, q) {
		score += phraseRoleWeight
		matched = append(matched, "role")
	}
	if strings.Contains(daysText, q) {
		score += phraseDaysWeight
		matched = append(matched, "availableDays")
	}

	for _, term := range terms {
		if strings.Contains(typeText, term) {
			score += termTypeWeight
			matched = appendField(matched, "type")
		}
		if strings.Contains(ownerText, term) {
			score += termOwnerWeight
			matched = appendField(matched, "owner")
		}
		if strings.Contains(roleText, term) {
			score += termRoleWeight
			matched = appendField(matched, "role")
		}
		if strings.Contains(daysText, term) {
			score += termDaysWeight
			matched = appendField(matched, "availableDays")
		}
	}

	score = domain.ClampScore(score)
	if score < domain.MinFallbackScore {
		return domain.SearchResult{}, false
	}

	return domain.SearchResult{
		ID:             l.ID,
		RelevanceScore: score,
		MatchedFields:  matched,
		Explanation:    explanation(matched),
	}, true
}

// appendField records a matched field once, preserving first-hit order.
func appendField(fields []string, name string) []string {
	for _, f := range fields {
		if f == name {
			return fields
		}
	}
	return append(fields, name)
}

// explanation names the matched fields. The "partial terms" branch is not
// reachable while every scoring rule also records its field, but a result
// must never ship an empty explanation if that accounting drifts.
func explanation(matched []string) string {
	if len(matched) == 0 {
		return "Matched partial terms in listing"
	}
	return "Matched " + strings.Join(matched, ", ") + " in listing"
}
