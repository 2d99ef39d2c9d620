package repository

// social_repository.go manages the follow and favorite edge tables. Both
// toggles run inside a transaction: check the edge, flip it, recount. The
// recount happens on the same connection so the returned count already
// reflects the flip.

import (
	"context"
	"database/sql"
)

// UserCard is the compact shape returned by edge listings (follower and
// favorite modals).
type UserCard struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

// SocialRepo encapsulates artist_followers and favorites queries.
type SocialRepo struct{ DB *sql.DB }

func NewSocialRepo(db *sql.DB) *SocialRepo { return &SocialRepo{DB: db} }

// ToggleFollow flips the follow edge follower->artist and returns the new
// state plus the artist's follower count after the flip.
func (r *SocialRepo) ToggleFollow(ctx context.Context, artistID, followerID uint64) (bool, int64, error) {
	return r.toggle(ctx, "artist_followers", "follower_id", artistID, followerID)
}

// ToggleFavorite flips the favorite edge user->artist and returns the new
// state plus the artist's favorite count after the flip.
func (r *SocialRepo) ToggleFavorite(ctx context.Context, artistID, userID uint64) (bool, int64, error) {
	return r.toggle(ctx, "favorites", "user_id", artistID, userID)
}

func (r *SocialRepo) toggle(ctx context.Context, table, sourceCol string, artistID, sourceID uint64) (active bool, count int64, err error) {
	var tx *sql.Tx
	tx, err = r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// The artist must exist and actually be an artist.
	var isArtist bool
	if err = tx.QueryRowContext(ctx,
		"SELECT is_artist FROM users WHERE id=?", artistID).Scan(&isArtist); err != nil {
		if err == sql.ErrNoRows {
			err = ErrUserNotFound
		}
		return false, 0, err
	}
	if !isArtist {
		err = ErrUserNotFound
		return false, 0, err
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT TRUE FROM "+table+" WHERE artist_id=? AND "+sourceCol+"=?",
		artistID, sourceID).Scan(&exists)
	switch {
	case err == sql.ErrNoRows:
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO "+table+" (artist_id, "+sourceCol+") VALUES (?,?)",
			artistID, sourceID); err != nil {
			return false, 0, err
		}
		active = true
	case err != nil:
		return false, 0, err
	default:
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE artist_id=? AND "+sourceCol+"=?",
			artistID, sourceID); err != nil {
			return false, 0, err
		}
		active = false
	}

	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE artist_id=?", artistID).Scan(&count); err != nil {
		return false, 0, err
	}
	return active, count, nil
}

// Followers lists the users following an artist, newest edge first.
func (r *SocialRepo) Followers(ctx context.Context, artistID uint64) ([]UserCard, error) {
	return r.cards(ctx,
		`SELECT u.id, u.username, COALESCE(u.profile_image,'')
		 FROM artist_followers f JOIN users u ON u.id = f.follower_id
		 WHERE f.artist_id=? ORDER BY f.created_at DESC`, artistID)
}

// FavoritedBy lists the users who favorited an artist.
func (r *SocialRepo) FavoritedBy(ctx context.Context, artistID uint64) ([]UserCard, error) {
	return r.cards(ctx,
		`SELECT u.id, u.username, COALESCE(u.profile_image,'')
		 FROM favorites fv JOIN users u ON u.id = fv.user_id
		 WHERE fv.artist_id=? ORDER BY fv.created_at DESC`, artistID)
}

// FollowedArtists lists the artists a user follows.
func (r *SocialRepo) FollowedArtists(ctx context.Context, userID uint64) ([]UserCard, error) {
	return r.cards(ctx,
		`SELECT u.id, u.username, COALESCE(u.profile_image,'')
		 FROM artist_followers f JOIN users u ON u.id = f.artist_id
		 WHERE f.follower_id=? ORDER BY f.created_at DESC`, userID)
}

// FavoriteArtists lists the artists a user has favorited.
func (r *SocialRepo) FavoriteArtists(ctx context.Context, userID uint64) ([]UserCard, error) {
	return r.cards(ctx,
		`SELECT u.id, u.username, COALESCE(u.profile_image,'')
		 FROM favorites fv JOIN users u ON u.id = fv.artist_id
		 WHERE fv.user_id=? ORDER BY fv.created_at DESC`, userID)
}

func (r *SocialRepo) cards(ctx context.Context, q string, id uint64) ([]UserCard, error) {
	rows, err := r.DB.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserCard{}
	for rows.Next() {
		var c UserCard
		if err := rows.Scan(&c.ID, &c.Username, &c.ProfileImage); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
