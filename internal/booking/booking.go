// Package booking implements the reservation engine: request validation
// against venue policy, table and game-copy availability checks, the
// race-aware creation protocol with compensating rollback, confirmation
// code assignment, and the interval conflict detector behind the staff
// timeline views.  The package performs no I/O of its own; all state
// lives behind the Store interface and side effects behind Publisher
// and Invalidator.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Booking statuses.  A booking occupies its table interval unless it is
// in one of the excluded (cancelled / no-show) statuses.
const (
	StatusPending          = "pending"
	StatusConfirmed        = "confirmed"
	StatusArrived          = "arrived"
	StatusSeated           = "seated"
	StatusCompleted        = "completed"
	StatusNoShow           = "no_show"
	StatusCancelledByGuest = "cancelled_by_guest"
	StatusCancelledByVenue = "cancelled_by_venue"
)

// Booking sources.
const (
	SourceOnline = "online"
	SourceStaff  = "staff"
	SourcePhone  = "phone"
	SourceWalkIn = "walk_in"
)

// ExcludedStatuses lists the statuses that do not occupy a table or a
// game copy.  Availability queries and the conflict detector ignore them.
var ExcludedStatuses = []string{StatusCancelledByGuest, StatusCancelledByVenue, StatusNoShow}

// IsActiveStatus reports whether a booking in the given status still
// occupies its interval.
func IsActiveStatus(status string) bool {
	for _, s := range ExcludedStatuses {
		if s == status {
			return false
		}
	}
	return true
}

// Failure codes carried by Error.  Handlers map these onto HTTP statuses.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeCapacity     Code = "CAPACITY"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeDisabled     Code = "DISABLED"
	CodeUnknown      Code = "UNKNOWN"
)

// Error is a typed creation failure with a short human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

func failf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinel errors the Store implementation must return so the engine can
// distinguish missing resources and duplicate-key races from plain
// store failures.
var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrTableNotFound = errors.New("table not found")
	ErrGameNotFound  = errors.New("game not found")
	ErrDuplicate     = errors.New("duplicate key")
)

// Policy is the resolved per-venue booking policy.  It is consumed
// read-only; loading and defaulting happen in the settings store.
type Policy struct {
	RequirePhone           bool
	RequireEmail           bool
	MinNoticeHours         int
	MaxAdvanceDays         int
	DefaultDurationMinutes int
	OnlineBookingEnabled   bool
	Timezone               string
	OpeningTime            string
	ClosingTime            string
}

// Location resolves the venue timezone, falling back to UTC when the
// stored name is empty or unknown.
func (p Policy) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Table is a reservable table.  A nil Capacity means unlimited.
type Table struct {
	ID       uint64
	VenueID  uint64
	Label    string
	Capacity *uint32
	IsActive bool
}

// Game is a copy-limited resource co-scheduled with a table.
type Game struct {
	ID       uint64
	VenueID  uint64
	Title    string
	Copies   uint32
	CoverURL *string
	IsActive bool
}

// Booking is a reservation of one table, optionally one game, for a
// contiguous interval on a calendar day.  Times are minute-resolution
// "HH:MM" strings and the interval is half-open: [StartTime, EndTime).
type Booking struct {
	ID               uint64     `json:"id"`
	VenueID          uint64     `json:"venue_id"`
	TableID          uint64     `json:"table_id"`
	GameID           *uint64    `json:"game_id,omitempty"`
	Date             string     `json:"booking_date"`
	StartTime        string     `json:"start_time"`
	EndTime          string     `json:"end_time"`
	PartySize        uint32     `json:"party_size"`
	GuestName        string     `json:"guest_name"`
	GuestEmail       *string    `json:"guest_email,omitempty"`
	GuestPhone       *string    `json:"guest_phone,omitempty"`
	Status           string     `json:"status"`
	Source           string     `json:"source"`
	ConfirmationCode string     `json:"confirmation_code"`
	Notes            *string    `json:"notes,omitempty"`
	InternalNotes    *string    `json:"internal_notes,omitempty"`
	CreatedBy        *uint64    `json:"created_by,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Store is the persistence surface the engine runs against.  Lookups
// return the sentinel errors above when a resource is missing;
// InsertBooking returns ErrDuplicate on a unique-constraint violation.
type Store interface {
	// VenuePolicy resolves the booking policy for a venue, creating
	// defaults on first access.  Returns ErrVenueNotFound.
	VenuePolicy(ctx context.Context, venueID uint64) (Policy, error)
	// TableByID loads a table regardless of active flag.
	TableByID(ctx context.Context, tableID uint64) (Table, error)
	// GameByID loads a game regardless of active flag.
	GameByID(ctx context.Context, gameID uint64) (Game, error)
	// BookingsForTable returns all bookings for one table and date whose
	// status is not in excluded.
	BookingsForTable(ctx context.Context, tableID uint64, date string, excluded []string) ([]Booking, error)
	// BookingsForGame returns all bookings for one game and date whose
	// status is not in excluded.
	BookingsForGame(ctx context.Context, gameID uint64, date string, excluded []string) ([]Booking, error)
	// CodeExists reports whether a confirmation code is already taken.
	CodeExists(ctx context.Context, code string) (bool, error)
	// InsertBooking persists b and fills in its ID and CreatedAt.
	InsertBooking(ctx context.Context, b *Booking) error
	// DeleteBooking removes a booking row; used only for the
	// compensating rollback after a post-insert conflict.
	DeleteBooking(ctx context.Context, id uint64) error
	// TablesForVenue returns the venue's tables for timeline views.
	TablesForVenue(ctx context.Context, venueID uint64) ([]Table, error)
	// BookingsForVenueAndDates returns all bookings (any status) for a
	// venue across the given dates.
	BookingsForVenueAndDates(ctx context.Context, venueID uint64, dates []string) ([]Booking, error)
}

// Publisher emits the booking.confirmed event after a successful
// creation.  Failures are logged by the implementation and ignored by
// the engine.
type Publisher interface {
	BookingConfirmed(ctx context.Context, res Result) error
}

// Invalidator drops cached staff and public views affected by a new
// booking.  Best effort; never fails the request.
type Invalidator interface {
	InvalidateBookingViews(ctx context.Context, venueID uint64)
}
