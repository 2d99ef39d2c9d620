package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ResetTokenRepo persists/validates password reset tokens (single
// 'token_hash' column; the raw token is only ever mailed to the user).
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Store inserts a reset token hash row, invalidating any older unused
// tokens for the same user first so only the latest mail works.
func (r *ResetTokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at=NOW() WHERE user_id=? AND used_at IS NULL",
		userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Consume validates a token hash and marks it used, returning the owning
// user id. Unknown, expired and already-used tokens all surface as
// ErrResetTokenInvalid so the handler reveals nothing about which case hit.
func (r *ResetTokenRepo) Consume(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, used_at FROM password_reset_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrResetTokenInvalid
	}
	if err != nil {
		return 0, err
	}
	if usedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, ErrResetTokenInvalid
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at=NOW() WHERE token_hash=? AND used_at IS NULL",
		tokenHash); err != nil {
		return 0, err
	}
	return userID, nil
}
