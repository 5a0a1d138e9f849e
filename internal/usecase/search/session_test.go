package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/compostmatch/compostmatch/internal/domain"
)

// recordingSearcher counts Search invocations and can hold each call until
// released, to stage stale-resolution races.
type recordingSearcher struct {
	mu      sync.Mutex
	queries []string
	block   chan struct{}
}

func (r *recordingSearcher) Search(_ context.Context, query string, _ []domain.Listing) ([]domain.SearchResult, Source) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	block := r.block
	r.mu.Unlock()

	if block != nil {
		<-block
	}
	return []domain.SearchResult{{ID: query, RelevanceScore: 50}}, SourceFallback
}

func (r *recordingSearcher) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

// applySink collects applied result sets and signals each application.
type applySink struct {
	mu      sync.Mutex
	applied [][]domain.SearchResult
	ch      chan struct{}
}

func newApplySink() *applySink {
	return &applySink{ch: make(chan struct{}, 16)}
}

func (a *applySink) apply(results []domain.SearchResult, _ Source) {
	a.mu.Lock()
	a.applied = append(a.applied, results)
	a.mu.Unlock()
	a.ch <- struct{}{}
}

func (a *applySink) wait(t *testing.T) {
	t.Helper()
	select {
	case <-a.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for results to apply")
	}
}

func (a *applySink) last(t *testing.T) []domain.SearchResult {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.applied) == 0 {
		t.Fatal("nothing applied")
	}
	return a.applied[len(a.applied)-1]
}

func TestSession_DebounceCoalescesKeystrokes(t *testing.T) {
	searcher := &recordingSearcher{}
	sink := newApplySink()
	sess := NewSession(searcher, sampleListings(),
		WithDebounce(150*time.Millisecond), WithApply(sink.apply))
	defer sess.Close()

	sess.Input("c")
	sess.Input("co")
	sess.Input("coffee")

	if got := sess.State(); got != StateDebouncing {
		t.Errorf("state = %q, want debouncing", got)
	}

	sink.wait(t)

	if seen := searcher.seen(); len(seen) != 1 || seen[0] != "coffee" {
		t.Errorf("searcher saw %v, want exactly the final query", seen)
	}
	if got := sess.State(); got != StateResults {
		t.Errorf("state = %q, want results", got)
	}
	if results := sess.Results(); len(results) != 1 || results[0].ID != "coffee" {
		t.Errorf("results = %v", results)
	}
}

func TestSession_StaleResolutionDiscarded(t *testing.T) {
	block := make(chan struct{})
	searcher := &recordingSearcher{block: block}
	sink := newApplySink()
	sess := NewSession(searcher, sampleListings(),
		WithDebounce(time.Millisecond), WithApply(sink.apply))
	defer sess.Close()

	// First query dispatches and parks inside the searcher.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sess.Commit("stale")
	}()
	waitForQueries(t, searcher, 1)

	// Second query supersedes it, then both calls are released.
	wg.Add(1)
	go func() {
		defer wg.Done()
		sess.Commit("fresh")
	}()
	waitForQueries(t, searcher, 2)

	close(block)
	wg.Wait()

	sink.wait(t)
	if results := sink.last(t); len(results) != 1 || results[0].ID != "fresh" {
		t.Errorf("applied %v, want only the fresh result", results)
	}
	if results := sess.Results(); len(results) != 1 || results[0].ID != "fresh" {
		t.Errorf("session kept %v, want the fresh result", results)
	}
}

func TestSession_ClearCancelsPendingAndResets(t *testing.T) {
	searcher := &recordingSearcher{}
	sink := newApplySink()
	sess := NewSession(searcher, sampleListings(),
		WithDebounce(50*time.Millisecond), WithApply(sink.apply))
	defer sess.Close()

	sess.Input("coffee")
	sess.Clear()

	sink.wait(t) // the clear applies an empty set
	if results := sink.last(t); results != nil {
		t.Errorf("clear applied %v, want nil", results)
	}
	if got := sess.State(); got != StateIdle {
		t.Errorf("state = %q, want idle", got)
	}
	if got := sess.Query(); got != "" {
		t.Errorf("query = %q, want empty", got)
	}

	// The cancelled timer must not fire a search afterwards.
	time.Sleep(100 * time.Millisecond)
	if seen := searcher.seen(); len(seen) != 0 {
		t.Errorf("searcher ran %v after clear", seen)
	}
}

func TestSession_CommitBypassesDebounce(t *testing.T) {
	searcher := &recordingSearcher{}
	sink := newApplySink()
	sess := NewSession(searcher, sampleListings(),
		WithDebounce(time.Hour), WithApply(sink.apply))
	defer sess.Close()

	sess.Commit("coffee grounds")

	sink.wait(t)
	if seen := searcher.seen(); len(seen) != 1 || seen[0] != "coffee grounds" {
		t.Errorf("searcher saw %v", seen)
	}
}

func TestSession_EmptyQueryResolvesWithoutSearch(t *testing.T) {
	searcher := &recordingSearcher{}
	sink := newApplySink()
	sess := NewSession(searcher, sampleListings(),
		WithDebounce(time.Millisecond), WithApply(sink.apply))
	defer sess.Close()

	sess.Commit("   ")

	sink.wait(t)
	if results := sink.last(t); results != nil {
		t.Errorf("applied %v, want nil for blank query", results)
	}
	if seen := searcher.seen(); len(seen) != 0 {
		t.Errorf("searcher ran %v for blank query", seen)
	}
}

func TestSession_NoDispatchAfterClose(t *testing.T) {
	searcher := &recordingSearcher{}
	sess := NewSession(searcher, sampleListings(), WithDebounce(10*time.Millisecond))

	sess.Input("coffee")
	sess.Close()

	time.Sleep(50 * time.Millisecond)
	if seen := searcher.seen(); len(seen) != 0 {
		t.Errorf("searcher ran %v after close", seen)
	}

	// Input and Commit on a closed session are no-ops.
	sess.Input("late")
	sess.Commit("late")
	time.Sleep(30 * time.Millisecond)
	if seen := searcher.seen(); len(seen) != 0 {
		t.Errorf("closed session still dispatched %v", seen)
	}
}

func waitForQueries(t *testing.T, r *recordingSearcher, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(r.seen()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("searcher saw %v, want %d queries", r.seen(), n)
}
