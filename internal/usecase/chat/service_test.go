package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type mockModel struct {
	response string
	err      error
	calls    int
}

func (m *mockModel) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.response, m.err
}

func TestReply_EmptyMessageGreets(t *testing.T) {
	svc := New(nil, zap.NewNop())
	if got := svc.Reply(context.Background(), "   "); got != DefaultReply {
		t.Errorf("got %q, want the greeting", got)
	}
}

func TestReply_PatternTable(t *testing.T) {
	svc := New(nil, zap.NewNop())

	cases := []struct {
		message string
		want    string
	}{
		{"What can I put in compost?", "You can compost"},
		{"why is my pile smelly, is that a problem?", "Common Compost Problems"},
		{"any tips for winter?", "Tips by Season"},
		{"what's the right green brown ratio?", "Types & Balance"},
		{"can I add citrus peels?", "Citrus peels"},
		{"how should I store my scraps?", "You can compost"}, // "scrap" hits the first entry
		{"grass clippings ok?", "grass clippings"},
	}

	for _, tc := range cases {
		got := svc.Reply(context.Background(), tc.message)
		if !strings.Contains(got, tc.want) {
			t.Errorf("Reply(%q) = %q, want substring %q", tc.message, got, tc.want)
		}
	}
}

func TestReply_UnrecognizedTopicCoaches(t *testing.T) {
	svc := New(nil, zap.NewNop())
	got := svc.Reply(context.Background(), "zzz qqq")
	if got != coachingReply {
		t.Errorf("got %q, want the coaching reply", got)
	}
}

func TestReply_CannedAnswerWinsOverModel(t *testing.T) {
	model := &mockModel{response: "Some model text."}
	svc := New(model, zap.NewNop())

	got := svc.Reply(context.Background(), "What can I put in compost?")
	if !strings.Contains(got, "You can compost") {
		t.Errorf("got %q, want the canned answer", got)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times, want 0 for a pattern-matching message", model.calls)
	}
}

func TestReply_ModelAnswersUnmatchedTopic(t *testing.T) {
	model := &mockModel{response: "A tumbler bin of 40-80 gallons suits most households."}
	svc := New(model, zap.NewNop())

	got := svc.Reply(context.Background(), "how big should my tumbler bin be?")
	if got != "A tumbler bin of 40-80 gallons suits most households." {
		t.Errorf("got %q, want the model answer", got)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
}

func TestReply_ModelErrorDropsToCoaching(t *testing.T) {
	model := &mockModel{err: errors.New("connection refused")}
	svc := New(model, zap.NewNop())

	got := svc.Reply(context.Background(), "how big should my tumbler bin be?")
	if got != coachingReply {
		t.Errorf("got %q, want the coaching reply", got)
	}
}

func TestReply_BlankModelAnswerDropsToCoaching(t *testing.T) {
	model := &mockModel{response: "   "}
	svc := New(model, zap.NewNop())

	got := svc.Reply(context.Background(), "how big should my tumbler bin be?")
	if got != coachingReply {
		t.Errorf("got %q, want the coaching reply", got)
	}
}
