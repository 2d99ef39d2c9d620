package repository

import (
	"context"
	"database/sql"

	"github.com/commartapp/commart-server/internal/model"
)

// ReferenceRepo reads the seeded styles and languages lookup tables.
// Seeding happens outside the application; reconciliation can only attach
// names that already exist here.
type ReferenceRepo struct{ DB *sql.DB }

func NewReferenceRepo(db *sql.DB) *ReferenceRepo { return &ReferenceRepo{DB: db} }

// ListStyles returns all styles ordered by name.
func (r *ReferenceRepo) ListStyles(ctx context.Context) ([]model.Style, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM styles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Style{}
	for rows.Next() {
		var s model.Style
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListLanguages returns all languages ordered by name.
func (r *ReferenceRepo) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM languages ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Language{}
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
