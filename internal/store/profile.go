package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kutuphane/apiserver/types"
)

// ProfileRepository handles persistence for profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int) (types.Profile, error) {
	const query = `
		SELECT id, user_id, bio, location, avatar_url
		FROM profiles
		WHERE user_id = $1`
	var profile types.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.Location,
		&profile.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

// Upsert creates the profile row for the user if absent, otherwise
// replaces its fields. Keyed on the unique user_id column.
func (r *ProfileRepository) Upsert(ctx context.Context, profile types.Profile) (types.Profile, error) {
	const query = `
		INSERT INTO profiles (user_id, bio, location, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			avatar_url = EXCLUDED.avatar_url
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.Bio,
		profile.Location,
		profile.AvatarURL,
	).Scan(&profile.ID); err != nil {
		return types.Profile{}, classify(err)
	}
	return profile, nil
}
