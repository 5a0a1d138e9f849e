package listing

import (
	"strings"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// Normalize merges offer and want record snapshots into one canonical
// listing set, offers first. Pure transform: malformed or missing optional
// fields degrade to placeholders, never to an error.
func Normalize(offers []domain.OfferRecord, wants []domain.WantRecord) []domain.Listing {
	out := make([]domain.Listing, 0, len(offers)+len(wants))
	for i := range offers {
		out = append(out, NormalizeOffer(&offers[i]))
	}
	for i := range wants {
		out = append(out, NormalizeWant(&wants[i]))
	}
	return out
}

// NormalizeOffer maps an offer record to the canonical listing shape.
func NormalizeOffer(rec *domain.OfferRecord) domain.Listing {
	availability := strings.ToLower(strings.TrimSpace(rec.PickupAvailability))

	return domain.Listing{
		ID:            rec.ID,
		Type:          orPlaceholder(rec.CompostType, domain.PlaceholderText),
		Owner:         orPlaceholder(rec.RestaurantName, domain.PlaceholderText),
		Role:          domain.RoleRestaurant,
		AvailableDays: []string{orPlaceholder(rec.PickupAvailability, domain.PlaceholderText)},
		Delivery:      availability == "delivery",
		Pickup:        availability == "pickup",
		Distance:      orPlaceholder(rec.Location, domain.PlaceholderText),
		Quantity:      orPlaceholder(rec.Amount, domain.PlaceholderText),
		Image:         orPlaceholder(rec.ImageURL, domain.PlaceholderImage),
	}
}

// NormalizeWant maps a want record to the canonical listing shape.
func NormalizeWant(rec *domain.WantRecord) domain.Listing {
	availability := strings.ToLower(strings.TrimSpace(rec.AvailabilityType))

	days := rec.AvailableDates
	if days == nil {
		days = []string{}
	}

	owner := rec.GardenName
	if owner == "" {
		owner = rec.ContactName
	}

	return domain.Listing{
		ID:            rec.ID,
		Type:          orPlaceholder(rec.CompostType, domain.PlaceholderText),
		Owner:         orPlaceholder(owner, domain.PlaceholderText),
		Role:          domain.RoleGardener,
		AvailableDays: days,
		Delivery:      availability == "delivery" || availability == "both",
		Pickup:        availability == "pickup" || availability == "both",
		Distance:      domain.PlaceholderText,
		Quantity:      orPlaceholder(rec.Amount, domain.PlaceholderText),
		Image:         domain.PlaceholderImage,
	}
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
