// Package compostmatch is the embedded client for the compost marketplace:
// listing storage over Redis plus relevance search, query suggestions, and
// the chat bot, with or without a generative-model credential.
package compostmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/compostmatch/compostmatch/internal/db"
	dbRedis "github.com/compostmatch/compostmatch/internal/db/redis"
	"github.com/compostmatch/compostmatch/internal/domain"
	listingrepo "github.com/compostmatch/compostmatch/internal/repository/listing"
	openaiModel "github.com/compostmatch/compostmatch/internal/transport/openai"
	chatuc "github.com/compostmatch/compostmatch/internal/usecase/chat"
	listinguc "github.com/compostmatch/compostmatch/internal/usecase/listing"
	searchuc "github.com/compostmatch/compostmatch/internal/usecase/search"
	suggestuc "github.com/compostmatch/compostmatch/internal/usecase/suggest"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "compost:"
)

// Listing is the canonical candidate shape produced by normalization.
type Listing = domain.Listing

// OfferRecord is a raw restaurant-side record.
type OfferRecord = domain.OfferRecord

// WantRecord is a raw gardener-side record.
type WantRecord = domain.WantRecord

// SearchResult is one ranked search hit.
type SearchResult = domain.SearchResult

// Source names the scoring path that produced a result set.
type Source = searchuc.Source

// Client is the compostmatch entry point.
type Client struct {
	store      db.Store
	listingSvc *listinguc.Service
	searchSvc  *searchuc.Service
	suggestSvc *suggestuc.Service
	chatSvc    *chatuc.Service
	debounce   time.Duration
}

// New creates a compostmatch Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: defaultKeyPrefix,
		debounce:  searchuc.DefaultDebounce,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("compostmatch: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("compostmatch: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("compostmatch: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	var model *openaiModel.Client
	if cfg.modelAPIKey != "" {
		model = openaiModel.NewClient(&openaiModel.Config{
			APIKey:      cfg.modelAPIKey,
			BaseURL:     cfg.modelBaseURL,
			Model:       cfg.modelName,
			Temperature: cfg.modelTemperature,
			Logger:      cfg.logger,
		})
	}

	// Typed nil pointers must not leak into the interface fields: the
	// services treat a nil interface as "no model configured".
	var searchModel searchuc.ModelClient
	var suggestModel suggestuc.ModelClient
	var chatModel chatuc.ModelClient
	if model != nil {
		searchModel = model
		suggestModel = model
		chatModel = model
	}

	repo := listingrepo.New(store, cfg.keyPrefix)

	return &Client{
		store:      store,
		listingSvc: listinguc.New(repo),
		searchSvc:  searchuc.New(searchModel, cfg.logger),
		suggestSvc: suggestuc.New(suggestModel, cfg.logger).WithCache(store, cfg.keyPrefix),
		chatSvc:    chatuc.New(chatModel, cfg.logger),
		debounce:   cfg.debounce,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Listings returns the normalized candidate set, offers before wants.
func (c *Client) Listings(ctx context.Context) ([]Listing, error) {
	return c.listingSvc.All(ctx)
}

// CreateOffer stores a restaurant-side record and returns it with its
// minted id and creation time.
func (c *Client) CreateOffer(ctx context.Context, rec OfferRecord) (OfferRecord, error) {
	return c.listingSvc.CreateOffer(ctx, rec)
}

// CreateWant stores a gardener-side record and returns it with its minted
// id and creation time.
func (c *Client) CreateWant(ctx context.Context, rec WantRecord) (WantRecord, error) {
	return c.listingSvc.CreateWant(ctx, rec)
}

// DeleteOffer removes an offer record.
func (c *Client) DeleteOffer(ctx context.Context, id string) error {
	return c.listingSvc.DeleteOffer(ctx, id)
}

// DeleteWant removes a want record.
func (c *Client) DeleteWant(ctx context.Context, id string) error {
	return c.listingSvc.DeleteWant(ctx, id)
}

// Search ranks the current candidate set against query. It never fails on
// the scoring side; only the candidate fetch can error.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, Source, error) {
	listings, err := c.listingSvc.All(ctx)
	if err != nil {
		return nil, searchuc.SourceFallback, err
	}
	results, source := c.searchSvc.Search(ctx, query, listings)
	return results, source, nil
}

// Suggest returns up to five query-completion phrases.
func (c *Client) Suggest(ctx context.Context, query string) []string {
	return c.suggestSvc.Suggest(ctx, query)
}

// Chat answers a composting question. Always returns text.
func (c *Client) Chat(ctx context.Context, message string) string {
	return c.chatSvc.Reply(ctx, message)
}

// SessionState is an interactive session's lifecycle position.
type SessionState = searchuc.State

// Session drives debounced interactive search over a candidate-set
// snapshot. Stale in-flight results are discarded, never applied.
type Session struct {
	inner *searchuc.Session
}

// NewSession opens an interactive search session over a snapshot of the
// current candidate set. apply, if non-nil, receives each applied result
// set. Close the session when done.
func (c *Client) NewSession(ctx context.Context, apply func(results []SearchResult, source Source)) (*Session, error) {
	listings, err := c.listingSvc.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidate set: %w", err)
	}

	opts := []searchuc.SessionOption{searchuc.WithDebounce(c.debounce)}
	if apply != nil {
		opts = append(opts, searchuc.WithApply(apply))
	}
	return &Session{inner: searchuc.NewSession(c.searchSvc, listings, opts...)}, nil
}

// Input registers a keystroke; rapid calls coalesce into one search.
func (s *Session) Input(query string) { s.inner.Input(query) }

// Commit dispatches query immediately, bypassing the debounce.
func (s *Session) Commit(query string) { s.inner.Commit(query) }

// Clear resets the session and applies an empty result set.
func (s *Session) Clear() { s.inner.Clear() }

// Close tears the session down; nothing dispatches afterwards.
func (s *Session) Close() { s.inner.Close() }

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.inner.State() }

// Results returns the last applied result set.
func (s *Session) Results() []SearchResult { return s.inner.Results() }

// Query returns the current query text.
func (s *Session) Query() string { return s.inner.Query() }
