package services

import (
	"context"
	"errors"

	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	ListForUser(ctx context.Context, userID int) ([]types.Message, error)
	Create(ctx context.Context, message types.Message) (types.Message, error)
	Count(ctx context.Context) (int, error)
}

// RecipientLookup resolves a user id to an existing user.
type RecipientLookup interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

// MessageService encapsulates messaging use-cases.
type MessageService struct {
	repo  MessageRepository
	users RecipientLookup
}

func NewMessageService(repo MessageRepository, users RecipientLookup) *MessageService {
	return &MessageService{repo: repo, users: users}
}

func (s *MessageService) ListForUser(ctx context.Context, userID int) ([]types.Message, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Send creates a message from the session user to the recipient. The
// recipient must resolve to an existing user.
func (s *MessageService) Send(ctx context.Context, fromID, toID int, content string) (types.Message, error) {
	if _, err := s.users.GetByID(ctx, toID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Message{}, ErrRecipientNotFound
		}
		return types.Message{}, err
	}

	return s.repo.Create(ctx, types.Message{
		Content: content,
		FromID:  fromID,
		ToID:    toID,
	})
}

func (s *MessageService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
