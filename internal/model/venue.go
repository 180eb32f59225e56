package model

import "time"

// Venue is a location that rents out tables and keeps a game library.
// Each venue belongs to one owner account and is reachable publicly
// through its slug.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user who owns and administers the venue.
//  Name      – display name.
//  Slug      – URL key for the public booking page; unique.
//  Timezone  – IANA timezone name used for all booking-date arithmetic.
//  IsActive  – whether the venue is currently operating.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Venue struct {
	ID        uint64    `json:"id"`        // venues.id
	OwnerID   uint64    `json:"-"`         // venues.owner_user_id
	Name      string    `json:"name"`      // venues.name
	Slug      string    `json:"slug"`      // venues.slug
	Timezone  string    `json:"timezone"`  // venues.timezone
	IsActive  bool      `json:"is_active"` // venues.is_active
	CreatedAt time.Time `json:"-"`         // venues.created_at
	UpdatedAt time.Time `json:"-"`         // venues.updated_at
}
