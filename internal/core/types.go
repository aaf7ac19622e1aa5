package core

import "time"

const (
	AppName          = "ChatMinder"
	AppUserAgent     = "ChatMinder/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/chatminder"
	AppVersion       = "0.1.0"
)

// ChatMessage is one chat utterance. The annotation fields
// (SuggestedReplies, RefinedMessage, Reminder) are each owned by exactly
// one pipeline component and written via single-field updates.
type ChatMessage struct {
	ID                string    `json:"id"`
	ChatID            string    `json:"chatId"`
	Sender            string    `json:"sender"`
	Text              string    `json:"text"`
	Timestamp         time.Time `json:"timestamp"`
	SuggestedReplies  []string  `json:"suggestedReplies,omitempty"`
	RefinedMessage    string    `json:"refinedMessage,omitempty"`
	Reminder          string    `json:"reminder,omitempty"`
	RelevantMessageID string    `json:"relevantMessageId,omitempty"`
}

// ContextEntry is a retained summary of one important message. Reminded
// transitions false->true exactly once, when a reminder built from this
// entry has been surfaced; a reminded entry is never retrieved again.
type ContextEntry struct {
	ID                int64     `json:"id"`
	ChatID            string    `json:"chatId"`
	UserID            string    `json:"userId"`
	Summary           string    `json:"summary"`
	Timestamp         time.Time `json:"timestamp"`
	Reminded          bool      `json:"reminded"`
	RelevantMessageID string    `json:"relevantMessageId"`
}

// Chat is a two-party conversation.
type Chat struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	LastMessage  string    `json:"lastMessage"`
	Timestamp    time.Time `json:"timestamp"`
}

// HasParticipant reports whether userID belongs to the chat.
func (c Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
