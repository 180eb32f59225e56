package model

import "time"

// Table is one reservable table on a venue floor.  Capacity is nil when
// the table has no seat limit (standing area, large communal table).
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue the table belongs to.
//  Label     – staff-facing label ("T4", "Window booth").
//  Capacity  – maximum party size; nil = unlimited.
//  IsActive  – inactive tables cannot be booked but keep their history.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    `json:"id"`                 // venue_tables.id
	VenueID   uint64    `json:"venue_id"`           // venue_tables.venue_id
	Label     string    `json:"label"`              // venue_tables.label
	Capacity  *uint32   `json:"capacity,omitempty"` // venue_tables.capacity (nullable)
	IsActive  bool      `json:"is_active"`          // venue_tables.is_active
	CreatedAt time.Time `json:"-"`                  // venue_tables.created_at
	UpdatedAt time.Time `json:"-"`                  // venue_tables.updated_at
}
