package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CreateRequest is the public entry payload for the creation protocol.
// Optional string fields are empty when absent; DurationMinutes is nil
// when the caller supplied an explicit end time (or nothing, in which
// case the venue's default duration applies).
type CreateRequest struct {
	VenueID         uint64
	TableID         uint64
	GameID          *uint64
	Date            string
	StartTime       string
	EndTime         string
	DurationMinutes *int
	PartySize       int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Notes           string
	InternalNotes   string
	Source          string
	CreatedBy       *uint64
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validEmail checks the local@domain.tld shape.  Deliverability is not
// our problem; this only rejects obvious typos.
func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// validPhone strips common separators and accepts 7-15 remaining digits.
func validPhone(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '+':
			return -1
		}
		return r
	}, s)
	if len(stripped) < 7 || len(stripped) > 15 {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validate checks a creation request against the venue policy and
// returns the violated rules in check order.  The caller surfaces only
// the first entry, so the order here is part of the contract.  now must
// already be in the venue's local timezone.  Validate never touches the
// store.
func Validate(req CreateRequest, pol Policy, now time.Time) []string {
	var errs []string

	// Required fields.
	if req.VenueID == 0 {
		errs = append(errs, "venue is required")
	}
	if req.TableID == 0 {
		errs = append(errs, "table is required")
	}
	if strings.TrimSpace(req.GuestName) == "" {
		errs = append(errs, "guest name is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		errs = append(errs, "booking date is required")
	}
	if strings.TrimSpace(req.StartTime) == "" {
		errs = append(errs, "start time is required")
	}
	if req.DurationMinutes == nil && strings.TrimSpace(req.EndTime) == "" {
		errs = append(errs, "either duration_minutes or end_time is required")
	}

	if req.PartySize <= 0 {
		errs = append(errs, "party_size must be a positive integer")
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		errs = append(errs, "duration_minutes must be a positive integer")
	}

	// Contact details.  Format problems are reported even when the field
	// itself was optional.
	email := strings.TrimSpace(req.GuestEmail)
	phone := strings.TrimSpace(req.GuestPhone)
	if email == "" && phone == "" {
		errs = append(errs, "either guest email or guest phone is required")
	}
	if email != "" && !validEmail(email) {
		errs = append(errs, "guest email is not a valid email address")
	}
	if phone != "" && !validPhone(phone) {
		errs = append(errs, "guest phone is not a valid phone number")
	}
	if pol.RequirePhone && phone == "" {
		errs = append(errs, "a phone number is required to book at this venue")
	}
	if pol.RequireEmail && email == "" {
		errs = append(errs, "an email address is required to book at this venue")
	}

	// Date window.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var bookingDate time.Time
	dateValid := false
	if d := strings.TrimSpace(req.Date); d != "" {
		parsed, err := ParseDate(d)
		if err != nil {
			errs = append(errs, "booking date must be a valid YYYY-MM-DD date")
		} else {
			bookingDate = parsed
			dateValid = true
			diff := DaysBetween(today, bookingDate)
			if diff < 0 {
				errs = append(errs, "booking date cannot be in the past")
			} else if pol.MaxAdvanceDays > 0 && diff > pol.MaxAdvanceDays {
				errs = append(errs, fmt.Sprintf("bookings cannot be made more than %d days in advance", pol.MaxAdvanceDays))
			}
		}
	}

	// Time formats.
	startValid := false
	if s := strings.TrimSpace(req.StartTime); s != "" {
		if IsValidTime(s) {
			startValid = true
		} else {
			errs = append(errs, "start time must be in HH:MM format")
		}
	}
	endValid := false
	if e := strings.TrimSpace(req.EndTime); e != "" {
		if IsValidTime(e) {
			endValid = true
		} else {
			errs = append(errs, "end time must be in HH:MM format")
		}
	}

	// Same-day bookings must respect the venue's notice window.
	if dateValid && startValid && DaysBetween(today, bookingDate) == 0 {
		start, _ := NormalizeTime(req.StartTime)
		startMin, _ := TimeToMinutes(start)
		nowMin := now.Hour()*60 + now.Minute()
		switch until := startMin - nowMin; {
		case until < 0:
			errs = append(errs, "start time is in the past")
		case until < pol.MinNoticeHours*60:
			errs = append(errs, fmt.Sprintf("bookings require at least %d hours notice", pol.MinNoticeHours))
		}
	}

	if startValid && endValid {
		startMin, _ := TimeToMinutes(req.StartTime)
		endMin, _ := TimeToMinutes(req.EndTime)
		if endMin <= startMin {
			errs = append(errs, "end time must be after start time")
		}
	}

	return errs
}
