package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/kutuphane/apiserver/types"
)

// MessageRepository handles persistence for messages.
type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListForUser returns all messages where the user is sender or
// recipient, newest first, with both participants embedded.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int) ([]types.Message, error) {
	const query = `
		SELECT m.id, m.content, m.from_id, m.to_id, m.created_at,
		       f.id, f.name, f.email,
		       t.id, t.name, t.email
		FROM messages m
		JOIN users f ON f.id = m.from_id
		JOIN users t ON t.id = m.to_id
		WHERE m.from_id = $1 OR m.to_id = $1
		ORDER BY m.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]types.Message, 0)
	for rows.Next() {
		var message types.Message
		var from, to types.UserSummary
		if err := rows.Scan(
			&message.ID,
			&message.Content,
			&message.FromID,
			&message.ToID,
			&message.CreatedAt,
			&from.ID,
			&from.Name,
			&from.Email,
			&to.ID,
			&to.Name,
			&to.Email,
		); err != nil {
			return nil, err
		}
		message.From = &from
		message.To = &to
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) Create(ctx context.Context, message types.Message) (types.Message, error) {
	message.CreatedAt = time.Now()

	const query = `
		INSERT INTO messages (content, from_id, to_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		message.Content,
		message.FromID,
		message.ToID,
		message.CreatedAt,
	).Scan(&message.ID); err != nil {
		return types.Message{}, classify(err)
	}
	return message, nil
}

func (r *MessageRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM messages`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
