// Package listing persists offer and want records in hash form with an
// insertion-ordered id index per record family.
package listing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// store is the consumer interface for listing records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	ListPush(ctx context.Context, key string, values ...string) error
	ListRange(ctx context.Context, key string) ([]string, error)
	ListRemove(ctx context.Context, key, value string) error
}

// Repo implements usecase/listing.Repository.
type Repo struct {
	store  store
	prefix string
	newID  func() string
}

// New creates a listing repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix, newID: func() string { return uuid.NewString() }}
}

// CreateOffer stores an offer record, minting its id. Returns the stored record.
func (r *Repo) CreateOffer(ctx context.Context, rec domain.OfferRecord) (domain.OfferRecord, error) {
	rec.ID = r.newID()

	key := r.offerKey(rec.ID)
	if err := r.store.HSet(ctx, key, offerToFields(&rec)); err != nil {
		return domain.OfferRecord{}, fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.store.ListPush(ctx, r.offerIndexKey(), rec.ID); err != nil {
		return domain.OfferRecord{}, fmt.Errorf("index push %s: %w", rec.ID, err)
	}
	return rec, nil
}

// CreateWant stores a want record, minting its id. Returns the stored record.
func (r *Repo) CreateWant(ctx context.Context, rec domain.WantRecord) (domain.WantRecord, error) {
	rec.ID = r.newID()

	key := r.wantKey(rec.ID)
	if err := r.store.HSet(ctx, key, wantToFields(&rec)); err != nil {
		return domain.WantRecord{}, fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.store.ListPush(ctx, r.wantIndexKey(), rec.ID); err != nil {
		return domain.WantRecord{}, fmt.Errorf("index push %s: %w", rec.ID, err)
	}
	return rec, nil
}

// ListOffers returns every offer record in insertion order.
func (r *Repo) ListOffers(ctx context.Context) ([]domain.OfferRecord, error) {
	ids, err := r.store.ListRange(ctx, r.offerIndexKey())
	if err != nil {
		return nil, fmt.Errorf("index range: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.offerKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	out := make([]domain.OfferRecord, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue // index entry without a hash: deleted concurrently
		}
		out = append(out, offerFromFields(ids[i], m))
	}
	return out, nil
}

// ListWants returns every want record in insertion order.
func (r *Repo) ListWants(ctx context.Context) ([]domain.WantRecord, error) {
	ids, err := r.store.ListRange(ctx, r.wantIndexKey())
	if err != nil {
		return nil, fmt.Errorf("index range: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.wantKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	out := make([]domain.WantRecord, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, wantFromFields(ids[i], m))
	}
	return out, nil
}

// DeleteOffer removes an offer record and its index entry.
func (r *Repo) DeleteOffer(ctx context.Context, id string) error {
	return r.delete(ctx, r.offerKey(id), r.offerIndexKey(), id)
}

// DeleteWant removes a want record and its index entry.
func (r *Repo) DeleteWant(ctx context.Context, id string) error {
	return r.delete(ctx, r.wantKey(id), r.wantIndexKey(), id)
}

func (r *Repo) delete(ctx context.Context, key, indexKey, id string) error {
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.ListRemove(ctx, indexKey, id); err != nil {
		return fmt.Errorf("index remove %s: %w", id, err)
	}
	return nil
}

func (r *Repo) offerKey(id string) string { return r.prefix + "offer:" + id }
func (r *Repo) wantKey(id string) string  { return r.prefix + "want:" + id }
func (r *Repo) offerIndexKey() string     { return r.prefix + "offers" }
func (r *Repo) wantIndexKey() string      { return r.prefix + "wants" }
