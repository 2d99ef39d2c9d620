package model

import "time"

// Roles stored in users.role.  The is_artist flag mirrors the role for the
// frontend; RoleArtist is the only role that owns an artist_profiles row.
const (
	RoleClient = "CLIENT"
	RoleArtist = "ARTIST"
)

// User represents a row of the `users` table.  The json tags are omitted
// because repository structs are internal; handlers declare their own
// response types with the field names the frontend expects.
type User struct {
	ID            uint64    // users.id
	Username      string    // users.username (unique)
	Email         string    // users.email (unique)
	PasswordHash  string    // users.password_hash (bcrypt)
	RecoveryEmail string    // users.recovery_email (may be empty)
	ProfileImage  string    // users.profile_image, path relative to the upload dir
	IsArtist      bool      // users.is_artist
	Role          string    // users.role (CLIENT | ARTIST)
	RegisteredAt  time.Time // users.registered_at
}

// ArtistProfile is the 1:1 extension of a User with role ARTIST, stored in
// `artist_profiles` keyed by user id.  Bio and PricePolicy lengths are
// bounded by convention (120 / 300 chars), enforced at the handler layer.
type ArtistProfile struct {
	UserID       uint64 // artist_profiles.user_id
	Bio          string // artist_profiles.bio
	Availability bool   // artist_profiles.availability
	PricePolicy  string // artist_profiles.price_policy
}

// PasswordResetToken models a row of `password_reset_tokens`.  Only the
// SHA-256 hash of the token is stored; the raw value goes to the user.
type PasswordResetToken struct {
	ID        uint64     // password_reset_tokens.id
	UserID    uint64     // owner of the token
	TokenHash string     // SHA-256 hex digest of the raw token
	ExpiresAt time.Time  // expiration timestamp
	UsedAt    *time.Time // when the token was consumed (nil if unused)
	CreatedAt time.Time  // creation timestamp
}
