package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/commartapp/commart-server/internal/model"
)

// UserRepo encapsulates all queries against the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,username,email,password_hash,COALESCE(recovery_email,''),COALESCE(profile_image,''),is_artist,role,registered_at"

// Create inserts a user and returns its ID. Unique-key collisions on email
// or username are mapped to the matching sentinel error by inspecting the
// MySQL 1062 message, which names the violated index.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, passwordHash, model.RoleClient)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return 0, ErrUsernameTaken
			}
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *UserRepo) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.RecoveryEmail, &u.ProfileImage, &u.IsArtist, &u.Role, &u.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByIdentifier fetches a user by email or username; login accepts both.
// Emails are matched case-insensitively, usernames exactly.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? OR username=? LIMIT 1",
		strings.ToLower(identifier), identifier))
}

// GetByEmail fetches a user whose email or recovery email matches, used by
// password recovery.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? OR recovery_email=? LIMIT 1",
		email, email))
}

// BasicUpdate carries the optional base-user fields of PUT /profile.
// Nil pointers mean "leave unchanged".
type BasicUpdate struct {
	RecoveryEmail *string
	ProfileImage  *string
	MakeArtist    bool // one-way activation: sets is_artist and role=ARTIST
}

// UpdateBasic applies a partial update to the base user row. It builds the
// SET clause from the provided fields only, so absent fields never touch
// their columns.
func (r *UserRepo) UpdateBasic(ctx context.Context, id uint64, up BasicUpdate) error {
	set := []string{}
	args := []any{}
	if up.RecoveryEmail != nil {
		set = append(set, "recovery_email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*up.RecoveryEmail)))
	}
	if up.ProfileImage != nil {
		set = append(set, "profile_image=?")
		args = append(args, *up.ProfileImage)
	}
	if up.MakeArtist {
		set = append(set, "is_artist=TRUE", "role=?")
		args = append(args, model.RoleArtist)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update;
		// confirm existence so callers get a real not-found signal.
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT TRUE FROM users WHERE id=?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash, used by password reset.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// Delete removes a user row. Association rows cascade at the schema level.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
