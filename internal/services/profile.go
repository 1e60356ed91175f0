package services

import (
	"context"
	"errors"

	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int) (types.Profile, error)
	Upsert(ctx context.Context, profile types.Profile) (types.Profile, error)
}

// ProfileService encapsulates profile use-cases. Every operation is
// keyed on the acting user's own id; a user can never touch another
// user's profile.
type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID int) (types.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Upsert creates or updates the user's profile. Fields omitted from
// the request keep their stored value; only provided fields change.
func (s *ProfileService) Upsert(ctx context.Context, userID int, bio, location, avatarURL *string) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return types.Profile{}, err
	}

	profile.UserID = userID
	if bio != nil {
		profile.Bio = bio
	}
	if location != nil {
		profile.Location = location
	}
	if avatarURL != nil {
		profile.AvatarURL = avatarURL
	}
	return s.repo.Upsert(ctx, profile)
}

// SetAvatarURL updates only the avatar URL, preserving the other
// profile fields if a row already exists.
func (s *ProfileService) SetAvatarURL(ctx context.Context, userID int, avatarURL string) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return types.Profile{}, err
	}

	profile.UserID = userID
	profile.AvatarURL = &avatarURL
	return s.repo.Upsert(ctx, profile)
}
