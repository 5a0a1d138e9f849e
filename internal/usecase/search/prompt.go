package search

import (
	"fmt"
	"strings"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// buildPrompt enumerates the candidate set for the model and pins down the
// response contract: a bare JSON array, scores 0-100, nothing below 30,
// descending order.
func buildPrompt(query string, listings []domain.Listing) string {
	var b strings.Builder

	b.WriteString("You are a smart search assistant for a compost marketplace. ")
	b.WriteString("Analyze the following search query and listings to find the most relevant matches.\n\n")
	fmt.Fprintf(&b, "Search Query: %q\n\nListings to analyze:\n", query)

	for i := range listings {
		l := &listings[i]
		fmt.Fprintf(&b, "\n%d. ID: %s\n", i+1, l.ID)
		fmt.Fprintf(&b, "   Type: %s\n", l.Type)
		fmt.Fprintf(&b, "   Owner: %s\n", l.Owner)
		fmt.Fprintf(&b, "   Role: %s\n", l.Role)
		fmt.Fprintf(&b, "   Available Days: %s\n", strings.Join(l.AvailableDays, ", "))
		fmt.Fprintf(&b, "   Delivery: %s\n", yesNo(l.Delivery))
		fmt.Fprintf(&b, "   Pickup: %s\n", yesNo(l.Pickup))
		fmt.Fprintf(&b, "   Distance: %s\n", l.Distance)
		fmt.Fprintf(&b, "   Quantity: %s\n", l.Quantity)
	}

	b.WriteString("\nAnalyze each listing and return a JSON array of results. For each relevant listing, include:\n")
	b.WriteString("- id: the listing ID\n")
	b.WriteString("- relevanceScore: a number from 0-100 indicating how well it matches the query\n")
	b.WriteString(`- matchedFields: array of field names that matched (e.g., ["type", "owner", "availableDays"])` + "\n")
	b.WriteString("- explanation: a brief explanation of why this listing matches the query\n\n")
	fmt.Fprintf(&b, "Only include listings with a relevanceScore of %d or higher. Sort by relevanceScore in descending order.\n\n", domain.MinAIScore)
	b.WriteString("Return only valid JSON, no additional text or formatting.\n")

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
