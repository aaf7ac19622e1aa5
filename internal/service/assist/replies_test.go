package assist

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/providers/llm"
)

func TestParseReplies(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "numbered with blank line",
			raw:  "1. Sure thing\n\n2. Sounds good\nNo numbering here\n",
			want: []string{"Sure thing", "Sounds good", "No numbering here"},
		},
		{
			name: "plain lines",
			raw:  "Yes\nNo\nMaybe",
			want: []string{"Yes", "No", "Maybe"},
		},
		{
			name: "whitespace only lines dropped",
			raw:  "  \n\t\nOkay\n   \n",
			want: []string{"Okay"},
		},
		{
			name: "empty response",
			raw:  "",
			want: nil,
		},
		{
			name: "digits mid-line untouched",
			raw:  "See you at 5. Sharp",
			want: []string{"See you at 5. Sharp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseReplies(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseReplies(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSuggest_AttachesParsedReplies(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1", ChatID: "c1", Text: "want to grab lunch?"})
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "1. Sure!\n2. Can't today\n3. Where?", nil
	}}
	s := NewReplySuggester(gen, msgs, 100, testTimeout)

	if err := s.Suggest(context.Background(), core.ChatMessage{ID: "m1", Text: "want to grab lunch?"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := msgs.GetMessage(context.Background(), "m1")
	want := []string{"Sure!", "Can't today", "Where?"}
	if !reflect.DeepEqual(got.SuggestedReplies, want) {
		t.Errorf("replies = %#v, want %#v", got.SuggestedReplies, want)
	}
	if len(gen.Prompts) != 1 || !strings.Contains(gen.Prompts[0], "want to grab lunch?") {
		t.Errorf("unexpected prompts: %#v", gen.Prompts)
	}
}

func TestSuggest_ClipsLongReplies(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1"})
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return strings.Repeat("x", 150), nil
	}}
	s := NewReplySuggester(gen, msgs, 100, testTimeout)

	if err := s.Suggest(context.Background(), core.ChatMessage{ID: "m1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := msgs.GetMessage(context.Background(), "m1")
	if len(got.SuggestedReplies) != 1 || len(got.SuggestedReplies[0]) != 100 {
		t.Errorf("expected one reply clipped to 100 chars, got %#v", got.SuggestedReplies)
	}
}

func TestSuggest_OracleErrorDegradesToNoReplies(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1"})
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("oracle down")
	}}
	s := NewReplySuggester(gen, msgs, 100, testTimeout)

	if err := s.Suggest(context.Background(), core.ChatMessage{ID: "m1"}); err != nil {
		t.Fatalf("oracle errors must not propagate, got %v", err)
	}
	got, _ := msgs.GetMessage(context.Background(), "m1")
	if got.SuggestedReplies != nil {
		t.Errorf("expected no replies, got %#v", got.SuggestedReplies)
	}
}

func TestSuggest_EmptyParseLeavesFieldUnset(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1"})
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "\n\n  \n", nil
	}}
	s := NewReplySuggester(gen, msgs, 100, testTimeout)

	if err := s.Suggest(context.Background(), core.ChatMessage{ID: "m1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := msgs.GetMessage(context.Background(), "m1")
	if got.SuggestedReplies != nil {
		t.Errorf("expected unset field, got %#v", got.SuggestedReplies)
	}
}

func TestSuggest_StoreErrorPropagates(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1"})
	msgs.setErr = errors.New("store down")
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "Sure", nil
	}}
	s := NewReplySuggester(gen, msgs, 100, testTimeout)

	if err := s.Suggest(context.Background(), core.ChatMessage{ID: "m1"}); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
