// Package listing manages offer/want records and their normalization into
// the canonical search candidate set.
package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// Service handles listing record CRUD and candidate-set assembly.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a listing service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// All returns the full normalized candidate set, offers before wants, each
// family in repository insertion order.
func (s *Service) All(ctx context.Context) ([]domain.Listing, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	wants, err := s.repo.ListWants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wants: %w", err)
	}
	return Normalize(offers, wants), nil
}

// Offers returns raw offer records.
func (s *Service) Offers(ctx context.Context) ([]domain.OfferRecord, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// Wants returns raw want records.
func (s *Service) Wants(ctx context.Context) ([]domain.WantRecord, error) {
	wants, err := s.repo.ListWants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wants: %w", err)
	}
	return wants, nil
}

// CreateOffer validates and stores an offer record.
func (s *Service) CreateOffer(ctx context.Context, rec domain.OfferRecord) (domain.OfferRecord, error) {
	if strings.TrimSpace(rec.CompostType) == "" {
		return domain.OfferRecord{}, fmt.Errorf("%w: compost_type is required", domain.ErrInvalidRecord)
	}
	if strings.TrimSpace(rec.RestaurantName) == "" {
		return domain.OfferRecord{}, fmt.Errorf("%w: restaurant_name is required", domain.ErrInvalidRecord)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	stored, err := s.repo.CreateOffer(ctx, rec)
	if err != nil {
		return domain.OfferRecord{}, fmt.Errorf("create offer: %w", err)
	}
	return stored, nil
}

// CreateWant validates and stores a want record.
func (s *Service) CreateWant(ctx context.Context, rec domain.WantRecord) (domain.WantRecord, error) {
	if strings.TrimSpace(rec.CompostType) == "" {
		return domain.WantRecord{}, fmt.Errorf("%w: compost_type is required", domain.ErrInvalidRecord)
	}
	if strings.TrimSpace(rec.GardenName) == "" && strings.TrimSpace(rec.ContactName) == "" {
		return domain.WantRecord{}, fmt.Errorf("%w: garden_name or contact_name is required", domain.ErrInvalidRecord)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	stored, err := s.repo.CreateWant(ctx, rec)
	if err != nil {
		return domain.WantRecord{}, fmt.Errorf("create want: %w", err)
	}
	return stored, nil
}

// DeleteOffer removes an offer record.
func (s *Service) DeleteOffer(ctx context.Context, id string) error {
	if err := s.repo.DeleteOffer(ctx, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	return nil
}

// DeleteWant removes a want record.
func (s *Service) DeleteWant(ctx context.Context, id string) error {
	if err := s.repo.DeleteWant(ctx, id); err != nil {
		return fmt.Errorf("delete want: %w", err)
	}
	return nil
}
