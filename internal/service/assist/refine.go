package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/pkg/log"
)

// Refiner produces a politer, more complete rephrasing of an edited
// message, grounded in the chat's recent history. It owns the
// refinedMessage field; the first refinement wins and later edits
// never overwrite it.
type Refiner struct {
	gen         core.TextGenerator
	messages    core.MessagesRepository
	historySize int
	timeout     time.Duration
}

func NewRefiner(gen core.TextGenerator, messages core.MessagesRepository, historySize int, timeout time.Duration) *Refiner {
	return &Refiner{
		gen:         gen,
		messages:    messages,
		historySize: historySize,
		timeout:     timeout,
	}
}

// Refine handles a message-text update. It is a no-op unless the text
// actually changed and no refinement has been recorded yet. Oracle
// failures degrade to no refinement; store failures propagate.
func (r *Refiner) Refine(ctx context.Context, before, after core.ChatMessage) error {
	if before.Text == after.Text || after.RefinedMessage != "" {
		return nil
	}

	refined, err := r.derive(ctx, after.ChatID, after.ID, after.Text)
	if err != nil {
		return err
	}
	if refined == "" {
		return nil
	}

	written, err := r.messages.SetRefinedMessage(ctx, after.ID, refined)
	if err != nil {
		return fmt.Errorf("set refined message: %w", err)
	}
	if !written {
		log.FromCtx(ctx).Debug().Str("message_id", after.ID).Msg("refined message already set")
	}
	return nil
}

// Preview derives a refinement for candidate text without persisting
// anything. Used by the synchronous as-you-type endpoint.
func (r *Refiner) Preview(ctx context.Context, chatID, text string) (string, error) {
	return r.derive(ctx, chatID, "", text)
}

func (r *Refiner) derive(ctx context.Context, chatID, excludeID, text string) (string, error) {
	history, err := r.messages.RecentMessages(ctx, chatID, r.historySize, excludeID)
	if err != nil {
		return "", fmt.Errorf("fetch recent messages: %w", err)
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, m.Sender+": "+m.Text)
	}

	gctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.gen.Generate(gctx, RefinePrompt(strings.Join(lines, "\n"), text))
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("chat_id", chatID).Msg("refinement failed")
		return "", nil
	}
	return strings.TrimSpace(out), nil
}
