package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/service/assist"
	"github.com/sandevgo/chatminder/internal/service/contextmem"
	"github.com/sandevgo/chatminder/pkg/log"
)

// Orchestrator surfaces at most one reminder per context entry. On a
// new message it looks for unreminded context from the other
// participant, asks the oracle whether a reminder is warranted, and on
// success annotates the message and retires every entry that fed the
// prompt — so no entry ever produces a second reminder.
type Orchestrator struct {
	retriever *contextmem.Retriever
	gen       core.TextGenerator
	messages  core.MessagesRepository
	contexts  core.ContextRepository
	maxLen    int
	timeout   time.Duration
}

func NewOrchestrator(
	retriever *contextmem.Retriever,
	gen core.TextGenerator,
	messages core.MessagesRepository,
	contexts core.ContextRepository,
	maxLen int,
	timeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		gen:       gen,
		messages:  messages,
		contexts:  contexts,
		maxLen:    maxLen,
		timeout:   timeout,
	}
}

// Remind processes a newly created message. Without relevant context
// the oracle is not called at all. Oracle failures degrade to no
// reminder; store failures propagate.
func (o *Orchestrator) Remind(ctx context.Context, msg core.ChatMessage) error {
	entries, err := o.retriever.Relevant(ctx, msg.ChatID, msg.Sender)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	gctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	transcript := contextmem.Transcript(entries)
	out, err := o.gen.Generate(gctx, assist.ReminderPrompt(transcript, msg.Text, o.maxLen))
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("message_id", msg.ID).Msg("reminder generation failed")
		return nil
	}

	text := strings.TrimSpace(out)
	if text == "" {
		return nil
	}
	text = assist.Clip(text, o.maxLen)

	if err := o.messages.SetReminder(ctx, msg.ID, text); err != nil {
		return fmt.Errorf("set reminder: %w", err)
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if err := o.contexts.MarkReminded(ctx, ids); err != nil {
		return fmt.Errorf("mark entries reminded: %w", err)
	}

	log.FromCtx(ctx).Info().
		Str("chat_id", msg.ChatID).
		Str("message_id", msg.ID).
		Int("entries", len(entries)).
		Msg("reminder surfaced")
	return nil
}
