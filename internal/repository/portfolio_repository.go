package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commartapp/commart-server/internal/model"
)

// PortfolioRepo covers the portfolio operations that live outside the
// reconciliation routine: the raw listing and single-image deletion.
type PortfolioRepo struct{ DB *sql.DB }

func NewPortfolioRepo(db *sql.DB) *PortfolioRepo { return &PortfolioRepo{DB: db} }

// ListByArtist returns all portfolio images newest first. Unlike the
// profile aggregate this listing is unbounded.
func (r *PortfolioRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.PortfolioImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, image_path FROM portfolios WHERE artist_id=? ORDER BY created_at DESC, id DESC",
		artistID)
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

// Delete removes one image owned by artistID and returns its stored path
// so the handler can unlink the file. ErrImageNotFound covers both a
// missing row and an image owned by someone else.
func (r *PortfolioRepo) Delete(ctx context.Context, imageID, artistID uint64) (string, error) {
	var path string
	err := r.DB.QueryRowContext(ctx,
		"SELECT image_path FROM portfolios WHERE id=? AND artist_id=?",
		imageID, artistID).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrImageNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := r.DB.ExecContext(ctx,
		"DELETE FROM portfolios WHERE id=? AND artist_id=?", imageID, artistID); err != nil {
		return "", err
	}
	return path, nil
}
