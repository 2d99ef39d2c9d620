// Package repository: this file implements the profile aggregation queries.
// A full profile is assembled from four round trips: the base user row with
// its derived counts, the style set, the language set and the newest
// portfolio images. The first failing query aborts the whole aggregation.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/commartapp/commart-server/internal/model"
)

// concatSep separates style names inside GROUP_CONCAT results. The ASCII
// unit separator cannot appear in a validated style name, unlike commas.
const concatSep = "\x1f"

// ArtistRepo encapsulates profile aggregation, the bulk artist listing and
// profile reconciliation (artist_reconcile.go).
type ArtistRepo struct{ DB *sql.DB }

func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{DB: db} }

const profileQuery = `SELECT
		u.id, u.username, u.email, COALESCE(u.profile_image,''),
		DATE_FORMAT(u.registered_at, '%Y-%m-%d %T'), u.is_artist, u.role,
		COALESCE(ap.bio,''), COALESCE(ap.availability, TRUE), COALESCE(ap.price_policy,''),
		(SELECT COUNT(*) FROM artist_followers f  WHERE f.artist_id   = u.id) AS followers,
		(SELECT COUNT(*) FROM artist_followers f  WHERE f.follower_id = u.id) AS following,
		(SELECT COUNT(*) FROM orders o  WHERE o.artist_id = u.id AND o.status = 'COMPLETED') AS sales,
		(SELECT COUNT(*) FROM orders o  WHERE o.client_id = u.id) AS purchases,
		(SELECT COUNT(*) FROM favorites fv WHERE fv.artist_id = u.id) AS favorites,
		(SELECT COUNT(*) FROM reviews r  WHERE r.artist_id = u.id) AS reviews,
		(SELECT COALESCE(AVG(r.rating),0) FROM reviews r WHERE r.artist_id = u.id) AS rating
	FROM users u
	LEFT JOIN artist_profiles ap ON ap.user_id = u.id
	WHERE u.id = ?`

// GetProfile aggregates the full public profile for one user. A missing
// user yields (nil, nil) rather than an error; handlers map that to 404.
// Users without an artist_profiles row get the defaults (availability
// true, empty bio and price policy) via COALESCE. The artist block is
// attached only for artist accounts so plain clients never expose
// half-filled artist fields.
func (r *ArtistRepo) GetProfile(ctx context.Context, userID uint64, portfolioLimit int) (*model.Profile, error) {
	var (
		p     model.Profile
		a     model.ArtistInfo
		sales int64
	)
	err := r.DB.QueryRowContext(ctx, profileQuery, userID).Scan(
		&p.ID, &p.Username, &p.Email, &p.ProfileImage,
		&p.RegisteredAt, &p.IsArtist, &p.Role,
		&a.Bio, &a.Availability, &a.PricePolicy,
		&p.Followers, &p.Following,
		&sales, &p.Purchases, &p.Favorites,
		&a.Reviews, &a.Rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !p.IsArtist {
		return &p, nil
	}

	a.Sales = sales
	if a.StyleIDs, a.Styles, err = r.assocNames(ctx, "artist_styles", "style_id", "styles", userID); err != nil {
		return nil, err
	}
	if a.LanguageIDs, a.Languages, err = r.assocNames(ctx, "artist_languages", "language_id", "languages", userID); err != nil {
		return nil, err
	}
	if a.Portfolio, err = r.portfolio(ctx, userID, portfolioLimit); err != nil {
		return nil, err
	}
	p.Artist = &a
	return &p, nil
}

// assocNames flattens one association table into parallel id and name
// slices, ordered by name for stable output.
func (r *ArtistRepo) assocNames(ctx context.Context, joinTable, fkCol, refTable string, userID uint64) ([]uint64, []string, error) {
	q := `SELECT t.id, t.name FROM ` + joinTable + ` j
	      JOIN ` + refTable + ` t ON t.id = j.` + fkCol + `
	      WHERE j.artist_id = ? ORDER BY t.name`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	ids := []uint64{}
	names := []string{}
	for rows.Next() {
		var id uint64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		names = append(names, name)
	}
	return ids, names, rows.Err()
}

// portfolio returns the artist's newest images, capped at limit when
// limit > 0.
func (r *ArtistRepo) portfolio(ctx context.Context, artistID uint64, limit int) ([]model.PortfolioImage, error) {
	q := "SELECT id, image_path FROM portfolios WHERE artist_id=? ORDER BY created_at DESC, id DESC"
	args := []any{artistID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PortfolioImage{}
	for rows.Next() {
		var img model.PortfolioImage
		if err := rows.Scan(&img.ID, &img.ImagePath); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

const listQuery = `SELECT
		u.id, u.username, COALESCE(u.profile_image,''),
		COALESCE(ap.bio,''), COALESCE(ap.availability, TRUE),
		COALESCE(GROUP_CONCAT(s.name ORDER BY s.name SEPARATOR '` + concatSep + `'), ''),
		(SELECT COALESCE(AVG(r.rating),0) FROM reviews r WHERE r.artist_id = u.id)
	FROM users u
	LEFT JOIN artist_profiles ap ON ap.user_id = u.id
	LEFT JOIN artist_styles  asj ON asj.artist_id = u.id
	LEFT JOIN styles s           ON s.id = asj.style_id
	WHERE u.is_artist = TRUE`

// List returns the bulk artist listing. Style names are flattened by
// GROUP_CONCAT and split back into a slice here, so the client receives
// real arrays.
func (r *ArtistRepo) List(ctx context.Context) ([]model.ArtistCard, error) {
	return r.list(ctx, listQuery+" GROUP BY u.id ORDER BY u.id")
}

// ListByStyle restricts the listing to artists attached to one style id.
// The filter runs in a HAVING-free subquery so the card still shows the
// artist's complete style set, not just the filtered one.
func (r *ArtistRepo) ListByStyle(ctx context.Context, styleID uint64) ([]model.ArtistCard, error) {
	q := listQuery + ` AND u.id IN (SELECT artist_id FROM artist_styles WHERE style_id = ?)
		GROUP BY u.id ORDER BY u.id`
	return r.list(ctx, q, styleID)
}

func (r *ArtistRepo) list(ctx context.Context, q string, args ...any) ([]model.ArtistCard, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistCard{}
	for rows.Next() {
		var card model.ArtistCard
		var styles string
		if err := rows.Scan(&card.ID, &card.Username, &card.ProfileImage,
			&card.Bio, &card.Availability, &styles, &card.Rating); err != nil {
			return nil, err
		}
		card.Styles = SplitConcat(styles)
		out = append(out, card)
	}
	return out, rows.Err()
}

// SplitConcat splits a GROUP_CONCAT result into a slice, returning an
// empty slice for artists with no styles.
func SplitConcat(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, concatSep)
}
