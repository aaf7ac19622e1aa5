package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/providers/llm"
)

func TestRefine_AttachesRefinedMessage(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m3", ChatID: "c1", Text: "send it now"})
	msgs.recent = []core.ChatMessage{
		{Sender: "alice", Text: "how is the report going?"},
		{Sender: "bob", Text: "almost done"},
	}
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "Could you please send it when you have a moment?", nil
	}}
	r := NewRefiner(gen, msgs, 5, testTimeout)

	before := core.ChatMessage{ID: "m3", ChatID: "c1", Text: "send"}
	after := core.ChatMessage{ID: "m3", ChatID: "c1", Text: "send it now"}
	if err := r.Refine(context.Background(), before, after); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := msgs.GetMessage(context.Background(), "m3")
	if got.RefinedMessage != "Could you please send it when you have a moment?" {
		t.Errorf("refinedMessage = %q", got.RefinedMessage)
	}
	if msgs.gotExclude != "m3" {
		t.Errorf("edited message must be excluded from history, excludeID = %q", msgs.gotExclude)
	}

	prompt := gen.Prompts[0]
	if !strings.Contains(prompt, "alice: how is the report going?") ||
		!strings.Contains(prompt, "bob: almost done") {
		t.Errorf("history missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Current message: send it now") {
		t.Errorf("new text missing from prompt:\n%s", prompt)
	}
}

func TestRefine_NoOpWhenTextUnchanged(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1", Text: "same"})
	gen := &llm.Mock{}
	r := NewRefiner(gen, msgs, 5, testTimeout)

	m := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "same"}
	if err := r.Refine(context.Background(), m, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gen.Prompts) != 0 {
		t.Error("oracle must not be called when text is unchanged")
	}
}

func TestRefine_IdempotentOnceRefined(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1", ChatID: "c1", Text: "new", RefinedMessage: "existing refinement"})
	gen := &llm.Mock{}
	r := NewRefiner(gen, msgs, 5, testTimeout)

	before := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "old"}
	after := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "new", RefinedMessage: "existing refinement"}
	if err := r.Refine(context.Background(), before, after); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gen.Prompts) != 0 {
		t.Error("oracle must not be called once a refinement exists")
	}
	got, _ := msgs.GetMessage(context.Background(), "m1")
	if got.RefinedMessage != "existing refinement" {
		t.Errorf("refinedMessage changed to %q", got.RefinedMessage)
	}
}

func TestRefine_OracleErrorDegrades(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1", ChatID: "c1", Text: "new"})
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("oracle down")
	}}
	r := NewRefiner(gen, msgs, 5, testTimeout)

	before := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "old"}
	after := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "new"}
	if err := r.Refine(context.Background(), before, after); err != nil {
		t.Fatalf("oracle errors must not propagate, got %v", err)
	}
	got, _ := msgs.GetMessage(context.Background(), "m1")
	if got.RefinedMessage != "" {
		t.Errorf("expected no refinement, got %q", got.RefinedMessage)
	}
}

func TestRefine_StoreErrorPropagates(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1", ChatID: "c1", Text: "new"})
	msgs.recentErr = errors.New("store down")
	gen := &llm.Mock{}
	r := NewRefiner(gen, msgs, 5, testTimeout)

	before := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "old"}
	after := core.ChatMessage{ID: "m1", ChatID: "c1", Text: "new"}
	if err := r.Refine(context.Background(), before, after); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestPreview_DerivesWithoutPersisting(t *testing.T) {
	msgs := newFakeMessages(core.ChatMessage{ID: "m1", ChatID: "c1", Text: "hello"})
	msgs.recent = []core.ChatMessage{{Sender: "alice", Text: "hi"}}
	gen := &llm.Mock{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "  Hello, how are you?  ", nil
	}}
	r := NewRefiner(gen, msgs, 5, testTimeout)

	out, err := r.Preview(context.Background(), "c1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello, how are you?" {
		t.Errorf("preview = %q", out)
	}
	got, _ := msgs.GetMessage(context.Background(), "m1")
	if got.RefinedMessage != "" {
		t.Error("preview must not persist a refinement")
	}
}
