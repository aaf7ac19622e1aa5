package assist

import (
	"context"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
)

type fakeMessages struct {
	byID       map[string]*core.ChatMessage
	recent     []core.ChatMessage
	recentErr  error
	setErr     error
	gotExclude string
}

func newFakeMessages(msgs ...core.ChatMessage) *fakeMessages {
	f := &fakeMessages{byID: make(map[string]*core.ChatMessage)}
	for i := range msgs {
		m := msgs[i]
		f.byID[m.ID] = &m
	}
	return f
}

func (f *fakeMessages) CreateMessage(ctx context.Context, msg core.ChatMessage) (core.ChatMessage, error) {
	f.byID[msg.ID] = &msg
	return msg, nil
}

func (f *fakeMessages) GetMessage(ctx context.Context, id string) (core.ChatMessage, error) {
	if m, ok := f.byID[id]; ok {
		return *m, nil
	}
	return core.ChatMessage{}, core.ErrNotFound
}

func (f *fakeMessages) UpdateText(ctx context.Context, id, text string) error {
	if m, ok := f.byID[id]; ok {
		m.Text = text
	}
	return nil
}

func (f *fakeMessages) RecentMessages(ctx context.Context, chatID string, limit int, excludeID string) ([]core.ChatMessage, error) {
	f.gotExclude = excludeID
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

func (f *fakeMessages) ChatMessages(ctx context.Context, chatID string) ([]core.ChatMessage, error) {
	return f.recent, nil
}

func (f *fakeMessages) SetSuggestedReplies(ctx context.Context, id string, replies []string) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	m, ok := f.byID[id]
	if !ok {
		return false, core.ErrNotFound
	}
	if m.SuggestedReplies != nil {
		return false, nil
	}
	m.SuggestedReplies = replies
	return true, nil
}

func (f *fakeMessages) SetRefinedMessage(ctx context.Context, id, refined string) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	m, ok := f.byID[id]
	if !ok {
		return false, core.ErrNotFound
	}
	if m.RefinedMessage != "" {
		return false, nil
	}
	m.RefinedMessage = refined
	return true, nil
}

func (f *fakeMessages) SetReminder(ctx context.Context, id, reminder string) error {
	if f.setErr != nil {
		return f.setErr
	}
	m, ok := f.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	m.Reminder = reminder
	return nil
}

const testTimeout = 5 * time.Second
