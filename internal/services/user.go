package services

import (
	"context"

	"github.com/kutuphane/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateRole(ctx context.Context, id int, role types.Role) error
	ListWithCounts(ctx context.Context) ([]types.UserWithCounts, error)
	ListSummaries(ctx context.Context, excludeID int) ([]types.UserSummary, error)
	Count(ctx context.Context) (int, error)
	DeleteCascade(ctx context.Context, id int) error
}

// CreatorBookCounter reports how many books a user has created.
type CreatorBookCounter interface {
	CountByCreator(ctx context.Context, userID int) (int, error)
}

// UserService encapsulates user use-cases, including the ordered
// guards around role changes and account deletion.
type UserService struct {
	repo  UserRepository
	books CreatorBookCounter
}

func NewUserService(repo UserRepository, books CreatorBookCounter) *UserService {
	return &UserService{repo: repo, books: books}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserService) ListWithCounts(ctx context.Context) ([]types.UserWithCounts, error) {
	return s.repo.ListWithCounts(ctx)
}

func (s *UserService) ListSummaries(ctx context.Context, excludeID int) ([]types.UserSummary, error) {
	return s.repo.ListSummaries(ctx, excludeID)
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ChangeRole sets a user's role. An admin may not change their own
// role, which would otherwise allow self-demotion lockout.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID int, role types.Role) error {
	if actorID == targetID {
		return ErrSelfRoleChange
	}
	return s.repo.UpdateRole(ctx, targetID, role)
}

// Delete removes a user after the ordered guards pass: not the acting
// admin's own account, and no books created by the target. The actual
// removal cascades messages and profile atomically with the user row.
func (s *UserService) Delete(ctx context.Context, actorID, targetID int) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	count, err := s.books.CountByCreator(ctx, targetID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserHasBooks
	}

	return s.repo.DeleteCascade(ctx, targetID)
}
