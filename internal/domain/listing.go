package domain

import "time"

// Role identifies the source-table provenance of a listing.
type Role string

const (
	// RoleRestaurant marks listings derived from offer records.
	RoleRestaurant Role = "Restaurant"
	// RoleGardener marks listings derived from want records.
	RoleGardener Role = "Gardener"
)

// Placeholder values substituted for missing optional source fields.
// Listing fields are never empty-invalid, only possibly placeholders.
const (
	PlaceholderText  = "n/a"
	PlaceholderImage = "/placeholder.svg"
)

// Listing is the canonical shape offers and wants are merged into for
// search and display.
type Listing struct {
	ID            string
	Type          string
	Owner         string
	Role          Role
	AvailableDays []string
	Delivery      bool
	Pickup        bool
	Distance      string
	Quantity      string
	Image         string
}

// OfferRecord is a restaurant compost listing as stored.
type OfferRecord struct {
	ID                 string
	CompostType        string
	RestaurantName     string
	PickupAvailability string
	Amount             string
	Location           string
	ImageURL           string
	CreatedAt          time.Time
	UserID             string
}

// WantRecord is a gardener compost request as stored.
type WantRecord struct {
	ID               string
	GardenName       string
	ContactName      string
	CompostType      string
	AvailabilityType string
	AvailableDates   []string
	Amount           string
	CreatedAt        time.Time
	UserID           string
}
