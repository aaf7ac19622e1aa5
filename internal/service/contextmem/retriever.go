package contextmem

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
)

// Retriever reads back the unreminded context entries that may be
// relevant for a user about to receive a reminder: entries of the same
// chat, authored by the other participant, inside a trailing window.
type Retriever struct {
	contexts   core.ContextRepository
	windowDays int
	now        func() time.Time
}

func NewRetriever(contexts core.ContextRepository, windowDays int) *Retriever {
	return &Retriever{
		contexts:   contexts,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Relevant returns the eligible entries for userID in chatID, newest
// first. An empty slice means "no context", not an error.
func (r *Retriever) Relevant(ctx context.Context, chatID, userID string) ([]core.ContextEntry, error) {
	since := r.now().AddDate(0, 0, -r.windowDays)
	entries, err := r.contexts.RelevantEntries(ctx, chatID, userID, since)
	if err != nil {
		return nil, fmt.Errorf("query context entries: %w", err)
	}
	return entries, nil
}

// Transcript renders entries as a human-readable context block, one
// line per entry. Returns the empty string for no entries.
func Transcript(entries []core.ContextEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "On %s, %s mentioned: %s\n",
			e.Timestamp.Format(time.DateTime), e.UserID, e.Summary)
	}
	return b.String()
}
