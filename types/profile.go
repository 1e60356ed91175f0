package types

// Profile is the optional 1:1 extension of a user. Every field except
// the owning user is nullable; the row is created lazily on first
// upsert and never listed independently.
type Profile struct {
	// ID is the unique identifier of the profile.
	ID int `json:"id" db:"id"`

	// UserID identifies the owning user. Unique.
	UserID int `json:"user_id" db:"user_id"`

	// Bio is free-form text about the user.
	Bio *string `json:"bio" db:"bio"`

	// Location is the user's self-reported location.
	Location *string `json:"location" db:"location"`

	// AvatarURL points at the user's avatar image.
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}
