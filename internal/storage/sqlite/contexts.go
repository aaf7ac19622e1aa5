package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
)

type ContextRepo struct {
	db *sql.DB
}

func NewContextRepo(db *sql.DB) *ContextRepo {
	return &ContextRepo{db: db}
}

func (r *ContextRepo) AddEntry(ctx context.Context, entry core.ContextEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_context (chat_id, user_id, summary, timestamp, reminded, relevant_message_id)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		entry.ChatID, entry.UserID, entry.Summary, time.Now().UTC(), entry.RelevantMessageID)
	if err != nil {
		return fmt.Errorf("insert context entry: %w", err)
	}
	return nil
}

func (r *ContextRepo) RelevantEntries(ctx context.Context, chatID, userID string, since time.Time) ([]core.ContextEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, user_id, summary, timestamp, reminded, relevant_message_id
		 FROM chat_context
		 WHERE chat_id = ? AND user_id <> ? AND reminded = 0 AND timestamp >= ?
		 ORDER BY timestamp DESC`,
		chatID, userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query context entries: %w", err)
	}
	defer rows.Close()

	var entries []core.ContextEntry
	for rows.Next() {
		var e core.ContextEntry
		var relevantID sql.NullString
		if err := rows.Scan(&e.ID, &e.ChatID, &e.UserID, &e.Summary, &e.Timestamp, &e.Reminded, &relevantID); err != nil {
			return nil, fmt.Errorf("scan context entry: %w", err)
		}
		e.RelevantMessageID = relevantID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ContextRepo) MarkReminded(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE chat_context SET reminded = 1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}
