package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups for missing rows.
var ErrNotFound = errors.New("not found")

type MessagesRepository interface {
	// CreateMessage persists msg with a store-assigned id (when empty)
	// and timestamp, and returns the stored message.
	CreateMessage(ctx context.Context, msg ChatMessage) (ChatMessage, error)
	GetMessage(ctx context.Context, id string) (ChatMessage, error)
	UpdateText(ctx context.Context, id, text string) error
	// RecentMessages returns up to limit most recent messages of the
	// chat in chronological order, skipping excludeID when non-empty.
	RecentMessages(ctx context.Context, chatID string, limit int, excludeID string) ([]ChatMessage, error)
	ChatMessages(ctx context.Context, chatID string) ([]ChatMessage, error)

	// Single-field annotation writes. SetSuggestedReplies and
	// SetRefinedMessage only take effect while the field is unset;
	// they report whether the write happened.
	SetSuggestedReplies(ctx context.Context, id string, replies []string) (bool, error)
	SetRefinedMessage(ctx context.Context, id, refined string) (bool, error)
	SetReminder(ctx context.Context, id, reminder string) error
}

type ContextRepository interface {
	// AddEntry persists the entry with a store-assigned timestamp.
	AddEntry(ctx context.Context, entry ContextEntry) error
	// RelevantEntries returns unreminded entries of the chat authored
	// by anyone except userID, created at or after since, newest first.
	RelevantEntries(ctx context.Context, chatID, userID string, since time.Time) ([]ContextEntry, error)
	MarkReminded(ctx context.Context, ids []int64) error
}

type ChatsRepository interface {
	CreateChat(ctx context.Context, participants []string) (Chat, error)
	GetChat(ctx context.Context, id string) (Chat, error)
	TouchLastMessage(ctx context.Context, id, text string, at time.Time) error
}
