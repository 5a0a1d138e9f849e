package compostmatch

import (
	"context"
	"testing"
	"time"
)

// memStore is an in-memory db.Store for wiring tests.
type memStore struct {
	hashes map[string]map[string]string
	kv     map[string][]byte
	lists  map[string][]string
	closed bool
}

func newMemStore() *memStore {
	return &memStore{
		hashes: map[string]map[string]string{},
		kv:     map[string][]byte{},
		lists:  map[string][]string{},
	}
}

func (m *memStore) Ping(_ context.Context) error { return nil }

func (m *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		h, err := m.HGetAll(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	delete(m.kv, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) { return m.kv[key], nil }

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.kv[key] = value
	return nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.kv[key] = value
	return nil
}

func (m *memStore) ListPush(_ context.Context, key string, values ...string) error {
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *memStore) ListRange(_ context.Context, key string) ([]string, error) {
	return append([]string(nil), m.lists[key]...), nil
}

func (m *memStore) ListRemove(_ context.Context, key, value string) error {
	kept := m.lists[key][:0]
	for _, v := range m.lists[key] {
		if v != value {
			kept = append(kept, v)
		}
	}
	m.lists[key] = kept
	return nil
}

func (m *memStore) Close() { m.closed = true }

func (m *memStore) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

func newTestClient() *Client {
	return wireClient(newMemStore(), &clientConfig{
		keyPrefix: defaultKeyPrefix,
		debounce:  10 * time.Millisecond,
	})
}

func TestClient_CreateAndListRoundTrip(t *testing.T) {
	c := newTestClient()
	defer c.Close()
	ctx := context.Background()

	offer, err := c.CreateOffer(ctx, OfferRecord{
		CompostType:        "Coffee Grounds",
		RestaurantName:     "Daily Grind",
		PickupAvailability: "pickup",
		Amount:             "1.5 kg/week",
		Location:           "1.1 km",
		UserID:             "user-1",
	})
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	if offer.ID == "" {
		t.Error("offer id not minted")
	}

	want, err := c.CreateWant(ctx, WantRecord{
		GardenName:     "Sunny Patch",
		ContactName:    "Alex",
		CompostType:    "Vegetable Scraps",
		AvailableDates: []string{"Monday"},
		Amount:         "3 kg/week",
		UserID:         "user-2",
	})
	if err != nil {
		t.Fatalf("CreateWant: %v", err)
	}

	listings, err := c.Listings(ctx)
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	if listings[0].ID != offer.ID || listings[1].ID != want.ID {
		t.Errorf("order wrong: %s, %s", listings[0].ID, listings[1].ID)
	}
}

func TestClient_SearchWithoutModel(t *testing.T) {
	c := newTestClient()
	defer c.Close()
	ctx := context.Background()

	if _, err := c.CreateOffer(ctx, OfferRecord{
		CompostType:        "Coffee Grounds",
		RestaurantName:     "Daily Grind",
		PickupAvailability: "pickup",
		UserID:             "user-1",
	}); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	results, source, err := c.Search(ctx, "coffee grounds")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if source != "fallback" {
		t.Errorf("source = %q", source)
	}
	if len(results) != 1 {
		t.Fatalf("results = %v", results)
	}
	if results[0].RelevanceScore != 60 {
		t.Errorf("score = %d, want 60", results[0].RelevanceScore)
	}
}

func TestClient_SuggestAndChatWithoutModel(t *testing.T) {
	c := newTestClient()
	defer c.Close()
	ctx := context.Background()

	if got := c.Suggest(ctx, "coffee"); len(got) != 5 {
		t.Errorf("suggestions = %v, want 5", got)
	}
	if got := c.Chat(ctx, "what goes in compost?"); got == "" {
		t.Error("empty chat reply")
	}
}

func TestClient_SessionAppliesResults(t *testing.T) {
	c := newTestClient()
	defer c.Close()
	ctx := context.Background()

	if _, err := c.CreateOffer(ctx, OfferRecord{
		CompostType:        "Coffee Grounds",
		RestaurantName:     "Daily Grind",
		PickupAvailability: "pickup",
		UserID:             "user-1",
	}); err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	applied := make(chan []SearchResult, 1)
	sess, err := c.NewSession(ctx, func(results []SearchResult, _ Source) {
		applied <- results
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer sess.Close()

	sess.Input("coffee")

	select {
	case results := <-applied:
		if len(results) != 1 {
			t.Errorf("results = %v", results)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session results")
	}
}
