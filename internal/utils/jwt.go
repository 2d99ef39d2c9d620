package utils // package utils provides helpers for token creation and hashing

import (
	"crypto/rand"   // secure random generation for reset tokens
	"crypto/sha256" // SHA-256 hashing for reset tokens
	"encoding/hex"  // hex encoding of random bytes and digests
	"time"          // expiration arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken is a signed HS256 JWT plus its expiry.  The claims carry the
// user id, username and email so the frontend can render the session owner
// without an extra round trip.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs the JWT issued at login.  Standard
// claims: sub (user id), username, email, exp and iat.
func NewSessionToken(secret string, userID uint64, username, email string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"email":    email,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// NewResetToken returns a cryptographically secure random token used for
// password recovery.  Only its SHA-256 hash is persisted; the raw value is
// mailed to the user.
func NewResetToken() (string, error) {
	return randomHex(32) // 32 bytes -> 64 hex chars
}

// HashToken returns the SHA-256 hash of a raw token as a hex string.
// Storing only the hash keeps leaked database rows from being replayed.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
