package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kutuphane/apiserver/config"
)

// Channel names for the domain events this server publishes.
const (
	ChannelUserRegistered = "user.registered"
	ChannelMessageSent    = "message.sent"
	ChannelUserDeleted    = "user.deleted"
)

// UserRegistered is published after a registration commits.
type UserRegistered struct {
	UserID     int       `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MessageSent is published after a direct message commits.
type MessageSent struct {
	MessageID  int       `json:"message_id"`
	FromID     int       `json:"from_id"`
	ToID       int       `json:"to_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserDeleted is published after a user-deletion cascade commits.
type UserDeleted struct {
	UserID     int       `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Backend defines the broker-agnostic publish operation.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher encodes typed domain events as JSON and hands them to the
// configured backend. Publishing is best-effort: callers log failures
// and never fail the originating request over them.
type Publisher struct {
	backend Backend
}

// New constructs a Publisher for the provided backend.
func New(backend Backend) *Publisher {
	return &Publisher{backend: backend}
}

// NewFromConfig selects a backend from config. An unset or "none"
// backend yields a publisher that discards every event.
func NewFromConfig(ctx context.Context, cfg config.EventsConfig) (*Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return New(nopBackend{}), nil
	case "rabbitmq":
		backend, err := NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case "pubsub":
		backend, err := NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// UserRegistered publishes a user.registered event.
func (p *Publisher) UserRegistered(ctx context.Context, userID int, email, name string) error {
	return p.publish(ctx, ChannelUserRegistered, UserRegistered{
		UserID:     userID,
		Email:      email,
		Name:       name,
		OccurredAt: time.Now(),
	})
}

// MessageSent publishes a message.sent event.
func (p *Publisher) MessageSent(ctx context.Context, messageID, fromID, toID int) error {
	return p.publish(ctx, ChannelMessageSent, MessageSent{
		MessageID:  messageID,
		FromID:     fromID,
		ToID:       toID,
		OccurredAt: time.Now(),
	})
}

// UserDeleted publishes a user.deleted event.
func (p *Publisher) UserDeleted(ctx context.Context, userID int) error {
	return p.publish(ctx, ChannelUserDeleted, UserDeleted{
		UserID:     userID,
		OccurredAt: time.Now(),
	})
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}

func (p *Publisher) publish(ctx context.Context, channel string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.backend.Publish(ctx, channel, data, map[string]string{
		"content-type": "application/json",
		"event":        channel,
	})
	return err
}

type nopBackend struct{}

func (nopBackend) Publish(context.Context, string, []byte, map[string]string) (string, error) {
	return "", nil
}

func (nopBackend) Close() error { return nil }
