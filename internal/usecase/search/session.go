package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// State is a search session's lifecycle position.
type State string

const (
	// StateIdle means no query is active.
	StateIdle State = "idle"
	// StateDebouncing means a keystroke arrived and the quiet-period timer runs.
	StateDebouncing State = "debouncing"
	// StateSearching means a scoring request is in flight.
	StateSearching State = "searching"
	// StateResults means a result set has been applied.
	StateResults State = "results"
)

// DefaultDebounce is the quiet period coalescing rapid keystrokes.
const DefaultDebounce = 800 * time.Millisecond

// Searcher scores a query against a candidate set.
type Searcher interface {
	Search(ctx context.Context, query string, listings []domain.Listing) ([]domain.SearchResult, Source)
}

// Session drives interactive search over a fixed candidate set: it debounces
// keystrokes with a trailing-edge timer and discards resolutions from
// superseded requests via a generation counter. In-flight scoring calls are
// never aborted, only ignored; the scorer has no side effects on shared
// state, so letting a stale call finish is harmless.
type Session struct {
	searcher Searcher
	listings []domain.Listing
	interval time.Duration
	onApply  func(results []domain.SearchResult, source Source)

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	state      State
	query      string
	results    []domain.SearchResult
	closed     bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) { s.interval = d }
}

// WithApply installs a sink invoked, outside the session lock, each time a
// current-generation result set is applied, including the empty set on clear.
func WithApply(fn func(results []domain.SearchResult, source Source)) SessionOption {
	return func(s *Session) { s.onApply = fn }
}

// NewSession creates a search session over a candidate-set snapshot.
func NewSession(searcher Searcher, listings []domain.Listing, opts ...SessionOption) *Session {
	s := &Session{
		searcher: searcher,
		listings: listings,
		interval: DefaultDebounce,
		state:    StateIdle,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Input registers a keystroke: the debounce timer restarts and any earlier
// pending or in-flight request is superseded.
func (s *Session) Input(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.query = query
	s.generation++
	s.stopTimerLocked()
	s.state = StateDebouncing

	gen := s.generation
	s.timer = time.AfterFunc(s.interval, func() {
		s.dispatch(query, gen)
	})
}

// Commit bypasses the debounce and dispatches the query immediately
// (the submit-button path). The pending timer, if any, is cancelled.
func (s *Session) Commit(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.query = query
	s.generation++
	s.stopTimerLocked()
	gen := s.generation
	s.mu.Unlock()

	s.dispatch(query, gen)
}

// Clear resets the session: pending timer cancelled, in-flight resolutions
// orphaned, query and results emptied.
func (s *Session) Clear() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.generation++
	s.stopTimerLocked()
	s.query = ""
	s.results = nil
	s.state = StateIdle
	apply := s.onApply
	s.mu.Unlock()

	if apply != nil {
		apply(nil, SourceFallback)
	}
}

// Close tears the session down. No dispatch happens after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	s.stopTimerLocked()
	s.state = StateIdle
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results returns the last applied result set.
func (s *Session) Results() []domain.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Query returns the current query text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// dispatch runs the scoring request for one generation and applies the
// outcome only if that generation is still current at resolution time.
func (s *Session) dispatch(query string, gen uint64) {
	if strings.TrimSpace(query) == "" {
		s.resolve(gen, nil, SourceFallback)
		return
	}

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.state = StateSearching
	listings := s.listings
	s.mu.Unlock()

	results, source := s.searcher.Search(context.Background(), query, listings)
	s.resolve(gen, results, source)
}

func (s *Session) resolve(gen uint64, results []domain.SearchResult, source Source) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		// Superseded by a newer keystroke or a clear: discard.
		s.mu.Unlock()
		return
	}
	s.results = results
	s.state = StateResults
	apply := s.onApply
	s.mu.Unlock()

	if apply != nil {
		apply(results, source)
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
