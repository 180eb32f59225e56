package model

import "time"

// VenueBookingSettings is the per-venue booking policy.  A row is
// created lazily with defaults the first time a venue's policy is
// resolved, so every venue always has an effective policy.
//
// Fields:
//  VenueID                – venue the policy applies to (primary key).
//  RequirePhone           – guests must supply a phone number.
//  RequireEmail           – guests must supply an email address.
//  MinBookingNoticeHours  – minimum notice for same-day bookings.
//  MaxAdvanceBookingDays  – how far ahead bookings may be made.
//  DefaultDurationMinutes – booking length when the guest gives neither
//                           a duration nor an end time.
//  OnlineBookingEnabled   – whether the public booking page accepts
//                           requests.
//  OpeningTime/ClosingTime – operating hours framing the timeline views.
type VenueBookingSettings struct {
	VenueID                uint64    `json:"venue_id"`                 // venue_booking_settings.venue_id
	RequirePhone           bool      `json:"require_phone"`            // venue_booking_settings.require_phone
	RequireEmail           bool      `json:"require_email"`            // venue_booking_settings.require_email
	MinBookingNoticeHours  int       `json:"min_booking_notice_hours"` // venue_booking_settings.min_booking_notice_hours
	MaxAdvanceBookingDays  int       `json:"max_advance_booking_days"` // venue_booking_settings.max_advance_booking_days
	DefaultDurationMinutes int       `json:"default_duration_minutes"` // venue_booking_settings.default_duration_minutes
	OnlineBookingEnabled   bool      `json:"online_booking_enabled"`   // venue_booking_settings.online_booking_enabled
	OpeningTime            string    `json:"opening_time"`             // venue_booking_settings.opening_time
	ClosingTime            string    `json:"closing_time"`             // venue_booking_settings.closing_time
	CreatedAt              time.Time `json:"-"`                        // venue_booking_settings.created_at
	UpdatedAt              time.Time `json:"-"`                        // venue_booking_settings.updated_at
}
