package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ludohall/table-booking/internal/model"
)

// GameRepo provides persistence for a venue's game library.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo constructs a GameRepo with the given DB handle.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

const gameColumns = `id, venue_id, title, copies_in_rotation, cover_url, is_active, created_at, updated_at`

func scanGame(scan func(dest ...interface{}) error, g *model.Game) error {
	var cover sql.NullString
	if err := scan(&g.ID, &g.VenueID, &g.Title, &g.CopiesInRotation, &cover, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return err
	}
	if cover.Valid {
		c := cover.String
		g.CoverURL = &c
	}
	return nil
}

// Create inserts a new game. CopiesInRotation below 1 is stored as 1 so
// availability counting always has a sane denominator. After insert the
// record is read back to populate defaults.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) error {
	copies := g.CopiesInRotation
	if copies < 1 {
		copies = 1
	}
	var cover interface{}
	if g.CoverURL != nil {
		cover = *g.CoverURL
	}
	const qInsert = `INSERT INTO games (venue_id, title, copies_in_rotation, cover_url) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, g.VenueID, g.Title, copies, cover)
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
	g.ID = uint64(id)

	const qSelect = `SELECT ` + gameColumns + ` FROM games WHERE id = ?`
	return scanGame(r.db.QueryRowContext(ctx, qSelect, g.ID).Scan, g)
}

// GetByID retrieves a game by its ID regardless of active flag. It
// returns ErrGameNotFound when no row is found.
func (r *GameRepo) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	const q = `SELECT ` + gameColumns + ` FROM games WHERE id = ?`
	var g model.Game
	if err := scanGame(r.db.QueryRowContext(ctx, q, id).Scan, &g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListByVenue returns the venue's games ordered by title. Pass
// activeOnly to hide games rotated out of the library.
func (r *GameRepo) ListByVenue(ctx context.Context, venueID uint64, activeOnly bool) ([]*model.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE venue_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Game
	for rows.Next() {
		g := new(model.Game)
		if err := scanGame(rows.Scan, g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update updates title/copies/cover/is_active for a game within a venue.
// Returns ErrGameNotFound when no row is affected and ErrDuplicateKey
// when the new title collides within the venue.
func (r *GameRepo) Update(ctx context.Context, g *model.Game) error {
	copies := g.CopiesInRotation
	if copies < 1 {
		copies = 1
	}
	var cover interface{}
	if g.CoverURL != nil {
		cover = *g.CoverURL
	}
	const q = `UPDATE games
	           SET title = ?, copies_in_rotation = ?, cover_url = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND venue_id = ?`
	res, err := r.db.ExecContext(ctx, q, g.Title, copies, cover, g.IsActive, g.ID, g.VenueID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGameNotFound
	}
	return nil
}
