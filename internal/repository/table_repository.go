package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel comparisons

	"github.com/ludohall/table-booking/internal/model"
)

// TableRepo provides methods to create and retrieve venue tables. It
// embeds a database handle to perform queries and commands.
type TableRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableColumns = `id, venue_id, label, capacity, is_active, created_at, updated_at`

func scanTable(scan func(dest ...interface{}) error, t *model.Table) error {
	var capacity sql.NullInt32
	if err := scan(&t.ID, &t.VenueID, &t.Label, &capacity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	if capacity.Valid {
		c := uint32(capacity.Int32)
		t.Capacity = &c
	}
	return nil
}

// Create inserts a new table into the database. The table must have
// VenueID and Label set; Capacity may be nil for unlimited seating.
// After insert the record is read back so timestamp and flag defaults
// are populated.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	var capacity interface{}
	if t.Capacity != nil {
		capacity = *t.Capacity
	}
	const qInsert = `INSERT INTO venue_tables (venue_id, label, capacity) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.VenueID, t.Label, capacity)
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
	t.ID = uint64(id)

	const qSelect = `SELECT ` + tableColumns + ` FROM venue_tables WHERE id = ?`
	return scanTable(r.db.QueryRowContext(ctx, qSelect, t.ID).Scan, t)
}

// GetByID retrieves a table by its ID regardless of active flag. It
// returns ErrTableNotFound when no row is found.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM venue_tables WHERE id = ?`
	var t model.Table
	if err := scanTable(r.db.QueryRowContext(ctx, q, id).Scan, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByVenue returns all tables for a venue ordered by id. Pass
// activeOnly to hide tables pulled from the floor (public surface).
func (r *TableRepo) ListByVenue(ctx context.Context, venueID uint64, activeOnly bool) ([]*model.Table, error) {
	q := `SELECT ` + tableColumns + ` FROM venue_tables WHERE venue_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Table
	for rows.Next() {
		t := new(model.Table)
		if err := scanTable(rows.Scan, t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update updates label/capacity/is_active for a table within a venue.
// Returns ErrTableNotFound when no row is affected and ErrDuplicateKey
// when the new label collides within the venue.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	var capacity interface{}
	if t.Capacity != nil {
		capacity = *t.Capacity
	}
	const q = `UPDATE venue_tables
	           SET label = ?, capacity = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND venue_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Label, capacity, t.IsActive, t.ID, t.VenueID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}
