package model

import "time"

// BookingRow mirrors the bookings table.  Times are minute-resolution
// "HH:MM" strings and the interval [StartTime, EndTime) is half-open.
// Lifecycle timestamps stay nil until the matching status transition
// happens.
type BookingRow struct {
	ID               uint64     `json:"id"`                  // bookings.id
	VenueID          uint64     `json:"venue_id"`            // bookings.venue_id
	TableID          uint64     `json:"table_id"`            // bookings.table_id
	GameID           *uint64    `json:"game_id,omitempty"`   // bookings.game_id (nullable)
	BookingDate      string     `json:"booking_date"`        // bookings.booking_date (YYYY-MM-DD)
	StartTime        string     `json:"start_time"`          // bookings.start_time (HH:MM)
	EndTime          string     `json:"end_time"`            // bookings.end_time (HH:MM)
	PartySize        uint32     `json:"party_size"`          // bookings.party_size
	GuestName        string     `json:"guest_name"`          // bookings.guest_name
	GuestEmail       *string    `json:"guest_email,omitempty"`
	GuestPhone       *string    `json:"guest_phone,omitempty"`
	Status           string     `json:"status"`            // bookings.status enum
	Source           string     `json:"source"`            // bookings.source
	ConfirmationCode string     `json:"confirmation_code"` // bookings.confirmation_code CHAR(6) UNIQUE
	Notes            *string    `json:"notes,omitempty"`
	InternalNotes    *string    `json:"internal_notes,omitempty"`
	CreatedBy        *uint64    `json:"created_by,omitempty"` // nullable; anonymous bookings allowed
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	ArrivedAt        *time.Time `json:"arrived_at,omitempty"`
	SeatedAt         *time.Time `json:"seated_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	NoShowAt         *time.Time `json:"no_show_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"-"`
}
