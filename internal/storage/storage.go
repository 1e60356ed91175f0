package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kutuphane/apiserver/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// AvatarStore keeps profile avatars in an object-storage backend.
// Objects live under avatars/<user id> so re-uploading replaces the
// previous avatar.
type AvatarStore struct {
	backend ObjectStorage
	baseURL string
}

// NewAvatarStore constructs an AvatarStore for the provided backend.
func NewAvatarStore(backend ObjectStorage, baseURL string) *AvatarStore {
	return &AvatarStore{backend: backend, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewFromConfig selects a backend from config. A "none" backend
// returns a nil store; the avatar endpoint reports the feature as
// unavailable in that case.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (*AvatarStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return nil, nil
	case "minio":
		backend, err := NewMinioBackend(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return NewAvatarStore(backend, cfg.BaseURL), nil
	case "gcs":
		backend, err := NewGCSBackend(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return NewAvatarStore(backend, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// EnsureBucket ensures the configured bucket exists.
func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Save uploads a user's avatar and returns its public URL.
func (s *AvatarStore) Save(ctx context.Context, userID int, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := avatarKey(userID, filename)
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return s.url(key), nil
}

// Remove deletes a user's avatar object.
func (s *AvatarStore) Remove(ctx context.Context, userID int, filename string) error {
	return s.backend.Delete(ctx, avatarKey(userID, filename))
}

func (s *AvatarStore) url(key string) string {
	if s.baseURL == "" {
		return "/" + path.Join(s.backend.Bucket(), key)
	}
	return s.baseURL + "/" + path.Join(s.backend.Bucket(), key)
}

func avatarKey(userID int, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("avatars/%d%s", userID, ext)
}
