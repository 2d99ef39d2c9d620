package repository

// artist_reconcile.go converges an artist's stored profile to an edited
// desired state: scalar fields, style set, language set and newly uploaded
// portfolio images. Everything runs inside one transaction and the
// association tables are updated by diff (insert added, delete removed)
// instead of delete-all/reinsert, so a concurrent edit cannot interleave a
// wipe with a rebuild and re-running an unchanged edit touches no rows.

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/commartapp/commart-server/internal/utils"
)

// ReconcileInput is the desired profile state from PUT /profile. Style and
// language lists are complete replacements; Images are appended.
type ReconcileInput struct {
	Bio           string
	Availability  bool
	PricePolicy   string
	StyleNames    []string
	LanguageNames []string
	Images        []utils.StoredImage
}

// Reconcile converges the stored artist profile of userID to in. Unknown
// style or language names resolve to no id and are skipped without error,
// matching the reference-table invariant: only seeded names can be
// attached. Re-uploaded images are deduplicated by content hash.
func (r *ArtistRepo) Reconcile(ctx context.Context, userID uint64, in ReconcileInput) (err error) {
	// err is named so the deferred commit can propagate its failure.
	var tx *sql.Tx
	tx, err = r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// Step 1: upsert the scalar profile fields keyed by user id.
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO artist_profiles (user_id, bio, availability, price_policy)
		 VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE bio=VALUES(bio), availability=VALUES(availability),
		                         price_policy=VALUES(price_policy)`,
		userID, in.Bio, in.Availability, in.PricePolicy); err != nil {
		return err
	}

	// Steps 2-3: diff the association tables against the desired sets.
	if err = reconcileAssoc(ctx, tx, "artist_styles", "style_id", "styles", userID, in.StyleNames); err != nil {
		return err
	}
	if err = reconcileAssoc(ctx, tx, "artist_languages", "language_id", "languages", userID, in.LanguageNames); err != nil {
		return err
	}

	// Step 4: append new portfolio images, skipping content hashes the
	// artist already has so re-submitting the same file is a no-op.
	for _, img := range in.Images {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO portfolios (artist_id, image_path, content_hash)
			 SELECT ?,?,? FROM DUAL
			 WHERE NOT EXISTS (SELECT 1 FROM portfolios WHERE artist_id=? AND content_hash=?)`,
			userID, img.RelPath, img.SHA256, userID, img.SHA256); err != nil {
			return err
		}
	}
	return nil
}

// sqlTx is the subset of *sql.Tx used by the reconciliation helpers.
type sqlTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// reconcileAssoc updates one many-to-many table so that the artist's rows
// match exactly the ids resolved from names.
func reconcileAssoc(ctx context.Context, tx sqlTx, joinTable, fkCol, refTable string, userID uint64, names []string) error {
	desired, err := resolveNames(ctx, tx, refTable, names)
	if err != nil {
		return err
	}
	current, err := currentAssoc(ctx, tx, joinTable, fkCol, userID)
	if err != nil {
		return err
	}
	add, remove := DiffIDs(current, desired)

	for _, id := range remove {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+joinTable+" WHERE artist_id=? AND "+fkCol+"=?", userID, id); err != nil {
			return err
		}
	}
	for _, id := range add {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+joinTable+" (artist_id, "+fkCol+") VALUES (?,?)", userID, id); err != nil {
			return err
		}
	}
	return nil
}

// resolveNames maps reference names to ids. Names absent from the table
// silently resolve to nothing.
func resolveNames(ctx context.Context, tx sqlTx, refTable string, names []string) ([]uint64, error) {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			trimmed = append(trimmed, n)
		}
	}
	if len(trimmed) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(trimmed))
	q := "SELECT id FROM " + refTable + " WHERE name IN (" + placeholders[:len(placeholders)-1] + ")"
	args := make([]any, len(trimmed))
	for i, n := range trimmed {
		args[i] = n
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func currentAssoc(ctx context.Context, tx sqlTx, joinTable, fkCol string, userID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+fkCol+" FROM "+joinTable+" WHERE artist_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DiffIDs computes which ids must be inserted and which deleted to turn
// the current set into the desired set. Duplicates collapse; both outputs
// are sorted so the statement order is deterministic.
func DiffIDs(current, desired []uint64) (add, remove []uint64) {
	cur := make(map[uint64]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	des := make(map[uint64]bool, len(desired))
	for _, id := range desired {
		des[id] = true
	}
	for id := range des {
		if !cur[id] {
			add = append(add, id)
		}
	}
	for id := range cur {
		if !des[id] {
			remove = append(remove, id)
		}
	}
	sort.Slice(add, func(i, j int) bool { return add[i] < add[j] })
	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	return add, remove
}
