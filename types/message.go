package types

import "time"

// Message is a direct message between two users. Messages are
// immutable once created and are only removed as a cascade side effect
// of deleting a participant.
type Message struct {
	// ID is the unique identifier of the message.
	ID int `json:"id" db:"id"`

	// Content is the message body.
	Content string `json:"content" db:"content"`

	// FromID identifies the sender.
	FromID int `json:"from_id" db:"from_id"`

	// ToID identifies the recipient.
	ToID int `json:"to_id" db:"to_id"`

	// From is the embedded sender summary. Populated by listing queries.
	From *UserSummary `json:"from,omitempty"`

	// To is the embedded recipient summary. Populated by listing queries.
	To *UserSummary `json:"to,omitempty"`

	// CreatedAt is the timestamp when the message was sent.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
