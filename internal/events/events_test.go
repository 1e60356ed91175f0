package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kutuphane/apiserver/config"
)

type captured struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type captureBackend struct {
	published []captured
	closed    bool
	err       error
}

func (c *captureBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.published = append(c.published, captured{channel: channel, data: data, attrs: attrs})
	return "1", nil
}

func (c *captureBackend) Close() error {
	c.closed = true
	return nil
}

func TestUserRegisteredEvent(t *testing.T) {
	backend := &captureBackend{}
	publisher := New(backend)

	if err := publisher.UserRegistered(context.Background(), 7, "ali@example.com", "Ali"); err != nil {
		t.Fatal(err)
	}

	if len(backend.published) != 1 {
		t.Fatalf("published %d events, want 1", len(backend.published))
	}
	got := backend.published[0]
	if got.channel != ChannelUserRegistered {
		t.Fatalf("channel = %q", got.channel)
	}
	if got.attrs["content-type"] != "application/json" || got.attrs["event"] != ChannelUserRegistered {
		t.Fatalf("attrs = %v", got.attrs)
	}

	var event UserRegistered
	if err := json.Unmarshal(got.data, &event); err != nil {
		t.Fatal(err)
	}
	if event.UserID != 7 || event.Email != "ali@example.com" || event.Name != "Ali" {
		t.Fatalf("payload = %+v", event)
	}
	if event.OccurredAt.IsZero() {
		t.Fatal("occurred_at not set")
	}
}

func TestMessageSentEvent(t *testing.T) {
	backend := &captureBackend{}
	publisher := New(backend)

	if err := publisher.MessageSent(context.Background(), 3, 1, 2); err != nil {
		t.Fatal(err)
	}

	var event MessageSent
	if err := json.Unmarshal(backend.published[0].data, &event); err != nil {
		t.Fatal(err)
	}
	if event.MessageID != 3 || event.FromID != 1 || event.ToID != 2 {
		t.Fatalf("payload = %+v", event)
	}
}

func TestUserDeletedEvent(t *testing.T) {
	backend := &captureBackend{}
	publisher := New(backend)

	if err := publisher.UserDeleted(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if backend.published[0].channel != ChannelUserDeleted {
		t.Fatalf("channel = %q", backend.published[0].channel)
	}
}

func TestPublishErrorPropagates(t *testing.T) {
	backendErr := errors.New("broker down")
	publisher := New(&captureBackend{err: backendErr})

	if err := publisher.UserDeleted(context.Background(), 1); !errors.Is(err, backendErr) {
		t.Fatalf("err = %v, want %v", err, backendErr)
	}
}

func TestPublisherClose(t *testing.T) {
	backend := &captureBackend{}
	publisher := New(backend)

	if err := publisher.Close(); err != nil {
		t.Fatal(err)
	}
	if !backend.closed {
		t.Fatal("backend not closed")
	}
}

func TestNewFromConfig(t *testing.T) {
	for _, name := range []string{"", "none", "NONE"} {
		publisher, err := NewFromConfig(context.Background(), config.EventsConfig{Backend: name})
		if err != nil {
			t.Fatalf("backend %q: %v", name, err)
		}
		if err := publisher.UserDeleted(context.Background(), 1); err != nil {
			t.Fatalf("backend %q publish: %v", name, err)
		}
	}

	if _, err := NewFromConfig(context.Background(), config.EventsConfig{Backend: "kafka"}); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}
