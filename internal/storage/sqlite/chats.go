package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/chatminder/internal/core"
)

type ChatsRepo struct {
	db *sql.DB
}

func NewChatsRepo(db *sql.DB) *ChatsRepo {
	return &ChatsRepo{db: db}
}

func (r *ChatsRepo) CreateChat(ctx context.Context, participants []string) (core.Chat, error) {
	chat := core.Chat{
		ID:           uuid.NewString(),
		Participants: participants,
		Timestamp:    time.Now().UTC(),
	}

	data, err := json.Marshal(chat.Participants)
	if err != nil {
		return core.Chat{}, fmt.Errorf("marshal participants: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO chats (id, participants, last_message, timestamp) VALUES (?, ?, '', ?)`,
		chat.ID, string(data), chat.Timestamp)
	if err != nil {
		return core.Chat{}, fmt.Errorf("insert chat: %w", err)
	}
	return chat, nil
}

func (r *ChatsRepo) GetChat(ctx context.Context, id string) (core.Chat, error) {
	var chat core.Chat
	var participants string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, participants, last_message, timestamp FROM chats WHERE id = ?`, id).
		Scan(&chat.ID, &participants, &chat.LastMessage, &chat.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Chat{}, core.ErrNotFound
	}
	if err != nil {
		return core.Chat{}, fmt.Errorf("get chat: %w", err)
	}

	if err := json.Unmarshal([]byte(participants), &chat.Participants); err != nil {
		return core.Chat{}, fmt.Errorf("unmarshal participants: %w", err)
	}
	return chat, nil
}

func (r *ChatsRepo) TouchLastMessage(ctx context.Context, id, text string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE chats SET last_message = ?, timestamp = ? WHERE id = ?`, text, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch chat: %w", err)
	}
	return requireRow(res)
}
