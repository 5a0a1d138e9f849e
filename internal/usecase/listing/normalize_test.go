package listing

import (
	"testing"

	"github.com/compostmatch/compostmatch/internal/domain"
)

func TestNormalizeOffer_DeliveryAndPickupFlags(t *testing.T) {
	tests := []struct {
		availability string
		delivery     bool
		pickup       bool
	}{
		{"delivery", true, false},
		{"Delivery", true, false},
		{"pickup", false, true},
		{"PICKUP ", false, true},
		{"Daily", false, false},
		{"", false, false},
	}

	for _, tc := range tests {
		t.Run("availability="+tc.availability, func(t *testing.T) {
			l := NormalizeOffer(&domain.OfferRecord{
				ID:                 "o1",
				CompostType:        "Coffee Grounds",
				RestaurantName:     "Daily Grind",
				PickupAvailability: tc.availability,
			})
			if l.Delivery != tc.delivery || l.Pickup != tc.pickup {
				t.Errorf("delivery=%v pickup=%v, want %v/%v", l.Delivery, l.Pickup, tc.delivery, tc.pickup)
			}
			if l.Role != domain.RoleRestaurant {
				t.Errorf("role = %q", l.Role)
			}
			if len(l.AvailableDays) != 1 {
				t.Fatalf("availableDays = %v", l.AvailableDays)
			}
		})
	}
}

func TestNormalizeOffer_MissingAvailabilityUsesPlaceholderDay(t *testing.T) {
	l := NormalizeOffer(&domain.OfferRecord{ID: "o1", CompostType: "Eggshells", RestaurantName: "Sunrise Diner"})
	if l.AvailableDays[0] != domain.PlaceholderText {
		t.Errorf("AvailableDays[0] = %q", l.AvailableDays[0])
	}
}

func TestNormalizeWant_AvailabilityBoth(t *testing.T) {
	l := NormalizeWant(&domain.WantRecord{
		ID:               "w1",
		GardenName:       "Green Acres",
		CompostType:      "Vegetable Scraps",
		AvailabilityType: "both",
		AvailableDates:   []string{"Monday", "Thursday"},
	})
	if !l.Delivery || !l.Pickup {
		t.Errorf("delivery=%v pickup=%v, want both true", l.Delivery, l.Pickup)
	}
	if l.Role != domain.RoleGardener {
		t.Errorf("role = %q", l.Role)
	}
	if len(l.AvailableDays) != 2 {
		t.Errorf("availableDays = %v", l.AvailableDays)
	}
}

func TestNormalizeWant_NilDatesBecomeEmptySlice(t *testing.T) {
	l := NormalizeWant(&domain.WantRecord{ID: "w1", GardenName: "Green Acres", CompostType: "Leaves"})
	if l.AvailableDays == nil {
		t.Fatal("AvailableDays must never be nil")
	}
	if len(l.AvailableDays) != 0 {
		t.Errorf("AvailableDays = %v", l.AvailableDays)
	}
}

func TestNormalizeWant_OwnerFallsBackToContactName(t *testing.T) {
	l := NormalizeWant(&domain.WantRecord{ID: "w1", ContactName: "Sam", CompostType: "Leaves"})
	if l.Owner != "Sam" {
		t.Errorf("owner = %q", l.Owner)
	}

	l = NormalizeWant(&domain.WantRecord{ID: "w2", CompostType: "Leaves"})
	if l.Owner != domain.PlaceholderText {
		t.Errorf("owner = %q, want placeholder", l.Owner)
	}
}

// Missing optional quantity/distance/image fields coerce to the literal
// placeholders on both record families, never to empty strings.
func TestNormalize_PlaceholderCoercion(t *testing.T) {
	listings := Normalize(
		[]domain.OfferRecord{{ID: "o1", CompostType: "Coffee Grounds", RestaurantName: "Daily Grind"}},
		[]domain.WantRecord{{ID: "w1", GardenName: "Green Acres", CompostType: "Leaves"}},
	)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	for _, l := range listings {
		if l.Quantity != domain.PlaceholderText {
			t.Errorf("listing %s quantity = %q, want %q", l.ID, l.Quantity, domain.PlaceholderText)
		}
		if l.Distance != domain.PlaceholderText {
			t.Errorf("listing %s distance = %q, want %q", l.ID, l.Distance, domain.PlaceholderText)
		}
		if l.Image != domain.PlaceholderImage {
			t.Errorf("listing %s image = %q, want %q", l.ID, l.Image, domain.PlaceholderImage)
		}
	}
}

func TestNormalize_OffersBeforeWants(t *testing.T) {
	listings := Normalize(
		[]domain.OfferRecord{{ID: "o1", CompostType: "A", RestaurantName: "R"}, {ID: "o2", CompostType: "B", RestaurantName: "R"}},
		[]domain.WantRecord{{ID: "w1", GardenName: "G", CompostType: "C"}},
	)

	want := []string{"o1", "o2", "w1"}
	for i, id := range want {
		if listings[i].ID != id {
			t.Errorf("listings[%d].ID = %q, want %q", i, listings[i].ID, id)
		}
	}
}
