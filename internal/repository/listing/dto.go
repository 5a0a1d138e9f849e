package listing

import (
	"encoding/json"
	"time"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// offerToFields converts an offer record into a flat map[string]string for HSET.
func offerToFields(rec *domain.OfferRecord) map[string]string {
	return map[string]string{
		"compost_type":        rec.CompostType,
		"restaurant_name":     rec.RestaurantName,
		"pickup_availability": rec.PickupAvailability,
		"amount":              rec.Amount,
		"location":            rec.Location,
		"image_url":           rec.ImageURL,
		"created_at":          rec.CreatedAt.UTC().Format(time.RFC3339),
		"user_id":             rec.UserID,
	}
}

// offerFromFields converts a flat hash map back into an offer record.
func offerFromFields(id string, m map[string]string) domain.OfferRecord {
	createdAt, _ := time.Parse(time.RFC3339, m["created_at"])
	return domain.OfferRecord{
		ID:                 id,
		CompostType:        m["compost_type"],
		RestaurantName:     m["restaurant_name"],
		PickupAvailability: m["pickup_availability"],
		Amount:             m["amount"],
		Location:           m["location"],
		ImageURL:           m["image_url"],
		CreatedAt:          createdAt,
		UserID:             m["user_id"],
	}
}

// wantToFields converts a want record into a flat map[string]string for HSET.
// available_dates is a JSON array so date strings may contain any character.
func wantToFields(rec *domain.WantRecord) map[string]string {
	dates, _ := json.Marshal(rec.AvailableDates)
	return map[string]string{
		"garden_name":       rec.GardenName,
		"contact_name":      rec.ContactName,
		"compost_type":      rec.CompostType,
		"availability_type": rec.AvailabilityType,
		"available_dates":   string(dates),
		"amount":            rec.Amount,
		"created_at":        rec.CreatedAt.UTC().Format(time.RFC3339),
		"user_id":           rec.UserID,
	}
}

// wantFromFields converts a flat hash map back into a want record.
func wantFromFields(id string, m map[string]string) domain.WantRecord {
	createdAt, _ := time.Parse(time.RFC3339, m["created_at"])

	var dates []string
	if raw := m["available_dates"]; raw != "" {
		// Malformed stored dates degrade to none rather than failing the read.
		_ = json.Unmarshal([]byte(raw), &dates)
	}

	return domain.WantRecord{
		ID:               id,
		GardenName:       m["garden_name"],
		ContactName:      m["contact_name"],
		CompostType:      m["compost_type"],
		AvailabilityType: m["availability_type"],
		AvailableDates:   dates,
		Amount:           m["amount"],
		CreatedAt:        createdAt,
		UserID:           m["user_id"],
	}
}
