package chi

import (
	"time"

	"github.com/compostmatch/compostmatch/internal/domain"
	healthuc "github.com/compostmatch/compostmatch/internal/usecase/health"
)

// listingDTO is the wire shape of a normalized listing.
type listingDTO struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Owner         string   `json:"owner"`
	Role          string   `json:"role"`
	AvailableDays []string `json:"availableDays"`
	Delivery      bool     `json:"delivery"`
	Pickup        bool     `json:"pickup"`
	Distance      string   `json:"distance"`
	Quantity      string   `json:"quantity"`
	Image         string   `json:"image"`
}

type listingsResponse struct {
	Items []listingDTO `json:"items"`
}

// offerDTO is the wire shape of a raw offer record.
type offerDTO struct {
	ID                 string `json:"id,omitempty"`
	CompostType        string `json:"compost_type"`
	RestaurantName     string `json:"restaurant_name"`
	PickupAvailability string `json:"pickup_availability"`
	Amount             string `json:"amount"`
	Location           string `json:"location"`
	ImageURL           string `json:"image_url"`
	CreatedAt          string `json:"created_at,omitempty"`
	UserID             string `json:"user_id"`
}

type offersResponse struct {
	Items []offerDTO `json:"items"`
}

// wantDTO is the wire shape of a raw want record.
type wantDTO struct {
	ID               string   `json:"id,omitempty"`
	GardenName       string   `json:"garden_name"`
	ContactName      string   `json:"contact_name"`
	CompostType      string   `json:"compost_type"`
	AvailabilityType string   `json:"availability_type"`
	AvailableDates   []string `json:"available_dates"`
	Amount           string   `json:"amount"`
	CreatedAt        string   `json:"created_at,omitempty"`
	UserID           string   `json:"user_id"`
}

type wantsResponse struct {
	Items []wantDTO `json:"items"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []domain.SearchResult `json:"results"`
	Source  string                `json:"source"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func listingToDTO(l *domain.Listing) listingDTO {
	days := l.AvailableDays
	if days == nil {
		days = []string{}
	}
	return listingDTO{
		ID:            l.ID,
		Type:          l.Type,
		Owner:         l.Owner,
		Role:          string(l.Role),
		AvailableDays: days,
		Delivery:      l.Delivery,
		Pickup:        l.Pickup,
		Distance:      l.Distance,
		Quantity:      l.Quantity,
		Image:         l.Image,
	}
}

func offerToDTO(rec *domain.OfferRecord) offerDTO {
	return offerDTO{
		ID:                 rec.ID,
		CompostType:        rec.CompostType,
		RestaurantName:     rec.RestaurantName,
		PickupAvailability: rec.PickupAvailability,
		Amount:             rec.Amount,
		Location:           rec.Location,
		ImageURL:           rec.ImageURL,
		CreatedAt:          formatCreatedAt(rec.CreatedAt),
		UserID:             rec.UserID,
	}
}

func offerFromDTO(req *offerDTO) domain.OfferRecord {
	return domain.OfferRecord{
		CompostType:        req.CompostType,
		RestaurantName:     req.RestaurantName,
		PickupAvailability: req.PickupAvailability,
		Amount:             req.Amount,
		Location:           req.Location,
		ImageURL:           req.ImageURL,
		UserID:             req.UserID,
	}
}

func wantToDTO(rec *domain.WantRecord) wantDTO {
	dates := rec.AvailableDates
	if dates == nil {
		dates = []string{}
	}
	return wantDTO{
		ID:               rec.ID,
		GardenName:       rec.GardenName,
		ContactName:      rec.ContactName,
		CompostType:      rec.CompostType,
		AvailabilityType: rec.AvailabilityType,
		AvailableDates:   dates,
		Amount:           rec.Amount,
		CreatedAt:        formatCreatedAt(rec.CreatedAt),
		UserID:           rec.UserID,
	}
}

func wantFromDTO(req *wantDTO) domain.WantRecord {
	return domain.WantRecord{
		GardenName:       req.GardenName,
		ContactName:      req.ContactName,
		CompostType:      req.CompostType,
		AvailabilityType: req.AvailabilityType,
		AvailableDates:   req.AvailableDates,
		Amount:           req.Amount,
		UserID:           req.UserID,
	}
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
