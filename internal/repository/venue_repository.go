// This file defines repository methods for venues. A Venue is the
// top-level resource: it owns tables, games, booking settings and
// bookings. Public browsing resolves venues by slug; staff operations
// always check the owner on the venue row.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used for sentinel comparisons
	"strings"      // strings normalizes slugs

	"github.com/ludohall/table-booking/internal/model"
)

// VenueRepo encapsulates all database queries related to venues. It
// depends on a sql.DB connection which should be configured elsewhere.
type VenueRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, owner_user_id, name, slug, timezone, is_active, created_at, updated_at`

func scanVenue(row *sql.Row, v *model.Venue) error {
	return row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Slug, &v.Timezone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
}

// Create inserts a new venue. On success the venue's ID, timestamps and
// defaults are populated by a follow-up SELECT. A slug collision is
// reported as ErrDuplicateKey.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	v.Slug = strings.ToLower(strings.TrimSpace(v.Slug))
	const qInsert = `INSERT INTO venues (owner_user_id, name, slug, timezone) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, v.OwnerID, v.Name, v.Slug, v.Timezone)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	const qSelect = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	return scanVenue(r.db.QueryRowContext(ctx, qSelect, v.ID), v)
}

// GetByID fetches a venue by its ID regardless of owner. It returns
// ErrVenueNotFound if no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	var v model.Venue
	if err := scanVenue(r.db.QueryRowContext(ctx, q, id), &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByIDAndOwner fetches a venue by id and verifies ownership. It
// returns ErrVenueNotFound when no such venue exists and ErrForbidden
// when the venue belongs to a different owner.
func (r *VenueRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Venue, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return v, nil
}

// GetBySlug fetches an active venue by its public slug. Inactive venues
// are invisible to the public surface, so they report ErrVenueNotFound.
func (r *VenueRepo) GetBySlug(ctx context.Context, slug string) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE slug = ? AND is_active = 1`
	var v model.Venue
	if err := scanVenue(r.db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(slug))), &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByOwner returns all venues for a specific owner ordered by id.
func (r *VenueRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE owner_user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Venue
	for rows.Next() {
		v := new(model.Venue)
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Slug, &v.Timezone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner updates venue fields (name/slug/timezone/is_active)
// if the venue belongs to the given owner. Returns ErrVenueNotFound when
// no row is affected (not found / not owned) and ErrDuplicateKey when
// the new slug collides with another venue.
func (r *VenueRepo) UpdateByIDAndOwner(ctx context.Context, v *model.Venue) error {
	v.Slug = strings.ToLower(strings.TrimSpace(v.Slug))
	const q = `UPDATE venues
	           SET name = ?, slug = ?, timezone = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_user_id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Slug, v.Timezone, v.IsActive, v.ID, v.OwnerID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}
