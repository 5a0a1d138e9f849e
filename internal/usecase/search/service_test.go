package search

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type mockModel struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (m *mockModel) Complete(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.response, m.err
}

func TestSearch_NilModelUsesFallback(t *testing.T) {
	svc := New(nil, zap.NewNop())

	results, source := svc.Search(context.Background(), "coffee grounds", sampleListings())

	if source != SourceFallback {
		t.Errorf("source = %q, want fallback", source)
	}
	want := Fallback("coffee grounds", sampleListings())
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results differ from fallback scorer:\ngot  %v\nwant %v", results, want)
	}
}

func TestSearch_ModelErrorFallsBack(t *testing.T) {
	model := &mockModel{err: errors.New("connection refused")}
	svc := New(model, zap.NewNop())

	results, source := svc.Search(context.Background(), "coffee grounds", sampleListings())

	if source != SourceFallback {
		t.Errorf("source = %q, want fallback", source)
	}
	want := Fallback("coffee grounds", sampleListings())
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results differ from fallback scorer:\ngot  %v\nwant %v", results, want)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
}

func TestSearch_ParsesFencedResponse(t *testing.T) {
	model := &mockModel{response: "```json\n" +
		`[{"id":"2","relevanceScore":85,"matchedFields":["type"],"explanation":"Fresh vegetable scraps"}]` +
		"\n```"}
	svc := New(model, zap.NewNop())

	results, source := svc.Search(context.Background(), "vegetable scraps", sampleListings())

	if source != SourceAI {
		t.Fatalf("source = %q, want ai", source)
	}
	if len(results) != 1 || results[0].ID != "2" || results[0].RelevanceScore != 85 {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestSearch_UnparseableResponseFallsBack(t *testing.T) {
	model := &mockModel{response: "I could not find any relevant listings."}
	svc := New(model, zap.NewNop())

	results, source := svc.Search(context.Background(), "coffee grounds", sampleListings())

	if source != SourceFallback {
		t.Errorf("source = %q, want fallback", source)
	}
	want := Fallback("coffee grounds", sampleListings())
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results differ from fallback scorer: %v", results)
	}
}

func TestSearch_DropsHallucinatedIDs(t *testing.T) {
	model := &mockModel{response: `[
		{"id":"99","relevanceScore":95,"matchedFields":["type"],"explanation":"Invented"},
		{"id":"1","relevanceScore":70,"matchedFields":["type"],"explanation":"Coffee grounds"}
	]`}
	svc := New(model, zap.NewNop())

	results, source := svc.Search(context.Background(), "coffee", sampleListings())

	if source != SourceAI {
		t.Fatalf("source = %q, want ai", source)
	}
	if len(results) != 1 || results[0].ID != "1" {
		t.Errorf("hallucinated id not dropped: %v", results)
	}
}

func TestSearch_AllEntriesDroppedFallsBack(t *testing.T) {
	model := &mockModel{response: `[{"id":"99","relevanceScore":95,"matchedFields":[],"explanation":"Invented"}]`}
	svc := New(model, zap.NewNop())

	_, source := svc.Search(context.Background(), "coffee grounds", sampleListings())

	if source != SourceFallback {
		t.Errorf("source = %q, want fallback when every entry is invalid", source)
	}
}

func TestSearch_EmptyArrayMeansNoMatches(t *testing.T) {
	model := &mockModel{response: "[]"}
	svc := New(model, zap.NewNop())

	results, source := svc.Search(context.Background(), "xyz-nonsense", sampleListings())

	if source != SourceAI {
		t.Errorf("source = %q, want ai for a valid empty array", source)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestSearch_FiltersAndResortsModelResults(t *testing.T) {
	// Out of order, one below the floor. The service must not trust either.
	model := &mockModel{response: `[
		{"id":"3","relevanceScore":25,"matchedFields":["type"],"explanation":"Weak match"},
		{"id":"1","relevanceScore":60,"matchedFields":["type"],"explanation":"Good match"},
		{"id":"2","relevanceScore":90,"matchedFields":["type"],"explanation":"Best match"}
	]`}
	svc := New(model, zap.NewNop())

	results, source := svc.Search(context.Background(), "compost", sampleListings())

	if source != SourceAI {
		t.Fatalf("source = %q, want ai", source)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after score floor, got %v", results)
	}
	if results[0].ID != "2" || results[1].ID != "1" {
		t.Errorf("results not re-sorted descending: %v", results)
	}
}

func TestSearch_EmptyQuerySkipsModel(t *testing.T) {
	model := &mockModel{response: "[]"}
	svc := New(model, zap.NewNop())

	results, _ := svc.Search(context.Background(), "   ", sampleListings())

	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times for an empty query", model.calls)
	}
}

func TestSearch_EmptyListingsSkipsModel(t *testing.T) {
	model := &mockModel{response: "[]"}
	svc := New(model, zap.NewNop())

	results, _ := svc.Search(context.Background(), "coffee", nil)

	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times with no candidates", model.calls)
	}
}

func TestSearch_PromptCarriesQueryAndListings(t *testing.T) {
	model := &mockModel{response: "[]"}
	svc := New(model, zap.NewNop())

	svc.Search(context.Background(), "coffee grounds", sampleListings())

	if !strings.Contains(model.prompt, "coffee grounds") {
		t.Error("prompt missing query text")
	}
	for _, id := range []string{"1", "2", "3"} {
		if !strings.Contains(model.prompt, "ID: "+id) {
			t.Errorf("prompt missing listing %s", id)
		}
	}
}
