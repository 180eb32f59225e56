// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully created.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database. EventID is a
// random UUID so consumers can deduplicate redelivered messages.
type BookingConfirmedEvent struct {
	EventID          string `json:"event_id"`
	BookingID        uint64 `json:"booking_id"`
	VenueID          uint64 `json:"venue_id"`
	TableID          uint64 `json:"table_id"`
	TableLabel       string `json:"table_label"`
	GameTitle        string `json:"game_title,omitempty"`
	BookingDate      string `json:"booking_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	PartySize        uint32 `json:"party_size"`
	GuestName        string `json:"guest_name"`
	ConfirmationCode string `json:"confirmation_code"`
	Source           string `json:"source"`
	ConfirmedAt      string `json:"confirmed_at"`
}
