package model

import "time"

// Game is a board game in a venue's rotation.  A game can be attached to
// a table booking for the same interval; availability is counted against
// CopiesInRotation, not against a single physical unit.
//
// Fields:
//  ID               – primary key identifier.
//  VenueID          – venue whose library holds the game.
//  Title            – game title.
//  CopiesInRotation – interchangeable physical copies available; >= 1.
//  CoverURL         – optional cover image for display.
//  IsActive         – inactive games are hidden from booking.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Game struct {
	ID               uint64    `json:"id"`                  // games.id
	VenueID          uint64    `json:"venue_id"`            // games.venue_id
	Title            string    `json:"title"`               // games.title
	CopiesInRotation uint32    `json:"copies_in_rotation"`  // games.copies_in_rotation
	CoverURL         *string   `json:"cover_url,omitempty"` // games.cover_url (nullable)
	IsActive         bool      `json:"is_active"`           // games.is_active
	CreatedAt        time.Time `json:"-"`                   // games.created_at
	UpdatedAt        time.Time `json:"-"`                   // games.updated_at
}
