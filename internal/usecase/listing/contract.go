package listing

import (
	"context"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// Repository defines the storage contract for listing records.
type Repository interface {
	CreateOffer(ctx context.Context, rec domain.OfferRecord) (domain.OfferRecord, error)
	CreateWant(ctx context.Context, rec domain.WantRecord) (domain.WantRecord, error)
	ListOffers(ctx context.Context) ([]domain.OfferRecord, error)
	ListWants(ctx context.Context) ([]domain.WantRecord, error)
	DeleteOffer(ctx context.Context, id string) error
	DeleteWant(ctx context.Context, id string) error
}
