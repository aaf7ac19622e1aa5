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

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

const messageColumns = `id, chat_id, sender, text, timestamp, suggested_replies, refined_message, reminder, relevant_message_id`

func (r *MessagesRepo) CreateMessage(ctx context.Context, msg core.ChatMessage) (core.ChatMessage, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Timestamp = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, sender, text, timestamp, relevant_message_id) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.Sender, msg.Text, msg.Timestamp, nullable(msg.RelevantMessageID))
	if err != nil {
		return core.ChatMessage{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (r *MessagesRepo) GetMessage(ctx context.Context, id string) (core.ChatMessage, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ChatMessage{}, core.ErrNotFound
	}
	if err != nil {
		return core.ChatMessage{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

func (r *MessagesRepo) UpdateText(ctx context.Context, id, text string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("update text: %w", err)
	}
	return requireRow(res)
}

// RecentMessages returns the last limit messages of the chat in
// chronological order, skipping excludeID when non-empty.
func (r *MessagesRepo) RecentMessages(ctx context.Context, chatID string, limit int, excludeID string) ([]core.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE chat_id = ? AND (? = '' OR id <> ?)
		 ORDER BY timestamp DESC LIMIT ?`,
		chatID, excludeID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}

	// Newest-first from the query; callers want chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *MessagesRepo) ChatMessages(ctx context.Context, chatID string) ([]core.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY timestamp ASC`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// SetSuggestedReplies writes the replies only while the field is still
// unset, so a redelivered creation event cannot overwrite the first
// result.
func (r *MessagesRepo) SetSuggestedReplies(ctx context.Context, id string, replies []string) (bool, error) {
	data, err := json.Marshal(replies)
	if err != nil {
		return false, fmt.Errorf("marshal replies: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET suggested_replies = ? WHERE id = ? AND suggested_replies IS NULL`,
		string(data), id)
	if err != nil {
		return false, fmt.Errorf("set suggested replies: %w", err)
	}
	return r.guardedWriteResult(ctx, res, id)
}

// SetRefinedMessage writes the refinement only while the field is still
// unset: the first refinement wins, later edits never replace it.
func (r *MessagesRepo) SetRefinedMessage(ctx context.Context, id, refined string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET refined_message = ? WHERE id = ? AND refined_message IS NULL`,
		refined, id)
	if err != nil {
		return false, fmt.Errorf("set refined message: %w", err)
	}
	return r.guardedWriteResult(ctx, res, id)
}

func (r *MessagesRepo) SetReminder(ctx context.Context, id, reminder string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET reminder = ? WHERE id = ?`, reminder, id)
	if err != nil {
		return fmt.Errorf("set reminder: %w", err)
	}
	return requireRow(res)
}

// guardedWriteResult distinguishes "field already set" from "no such
// message" after a conditional single-field update.
func (r *MessagesRepo) guardedWriteResult(ctx context.Context, res sql.Result, id string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM messages WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check message exists: %w", err)
	}
	if !exists {
		return false, core.ErrNotFound
	}
	return false, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (core.ChatMessage, error) {
	var msg core.ChatMessage
	var replies, refined, reminder, relevantID sql.NullString

	err := row.Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Text, &msg.Timestamp,
		&replies, &refined, &reminder, &relevantID)
	if err != nil {
		return core.ChatMessage{}, err
	}

	if replies.Valid && replies.String != "" {
		if err := json.Unmarshal([]byte(replies.String), &msg.SuggestedReplies); err != nil {
			return core.ChatMessage{}, fmt.Errorf("unmarshal suggested replies: %w", err)
		}
	}
	msg.RefinedMessage = refined.String
	msg.Reminder = reminder.String
	msg.RelevantMessageID = relevantID.String
	return msg, nil
}

func collectMessages(rows *sql.Rows) ([]core.ChatMessage, error) {
	var messages []core.ChatMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
