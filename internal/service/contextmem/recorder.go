package contextmem

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/service/importance"
	"github.com/sandevgo/chatminder/pkg/log"
)

// Recorder appends a context entry for every message the classifier
// accepts. It is the sole writer of entry summaries; the reminded flag
// belongs to the reminder orchestrator.
type Recorder struct {
	classifier *importance.Classifier
	contexts   core.ContextRepository
	summaryMax int
}

func NewRecorder(classifier *importance.Classifier, contexts core.ContextRepository, summaryMax int) *Recorder {
	return &Recorder{
		classifier: classifier,
		contexts:   contexts,
		summaryMax: summaryMax,
	}
}

// Record persists a context entry for msg when its text is important,
// and is a no-op otherwise. Store failures propagate.
func (r *Recorder) Record(ctx context.Context, msg core.ChatMessage) error {
	if !r.classifier.Important(msg.Text) {
		return nil
	}

	entry := core.ContextEntry{
		ChatID:            msg.ChatID,
		UserID:            msg.Sender,
		Summary:           Summarize(msg.Text, r.summaryMax),
		RelevantMessageID: msg.ID,
	}
	if err := r.contexts.AddEntry(ctx, entry); err != nil {
		return fmt.Errorf("add context entry: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("chat_id", msg.ChatID).
		Str("message_id", msg.ID).
		Msg("context entry recorded")
	return nil
}

// Summarize truncates text to max runes, appending an ellipsis marker
// only when truncation actually happened.
func Summarize(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
