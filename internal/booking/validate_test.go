package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is the fixed "wall clock" used by validation tests:
// Monday 2026-03-02, 10:00 local time.
var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testPolicy() Policy {
	return Policy{
		MinNoticeHours:         2,
		MaxAdvanceDays:         60,
		DefaultDurationMinutes: 120,
		OnlineBookingEnabled:   true,
		OpeningTime:            "09:00",
		ClosingTime:            "23:00",
	}
}

func validRequest() CreateRequest {
	return CreateRequest{
		VenueID:    1,
		TableID:    10,
		Date:       "2026-03-10",
		StartTime:  "18:00",
		EndTime:    "20:00",
		PartySize:  4,
		GuestName:  "Lena Hoffmann",
		GuestEmail: "lena@example.com",
		Source:     SourceStaff,
	}
}

func TestValidate_OK(t *testing.T) {
	errs := Validate(validRequest(), testPolicy(), testNow)
	assert.Empty(t, errs)
}

func TestValidate_RequiredFields(t *testing.T) {
	errs := Validate(CreateRequest{}, testPolicy(), testNow)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs, "venue is required")
	assert.Contains(t, errs, "table is required")
	assert.Contains(t, errs, "guest name is required")
	assert.Contains(t, errs, "booking date is required")
	assert.Contains(t, errs, "start time is required")
	assert.Contains(t, errs, "either duration_minutes or end_time is required")
	assert.Contains(t, errs, "party_size must be a positive integer")
	// First violation is the one surfaced to the client.
	assert.Equal(t, "venue is required", errs[0])
}

func TestValidate_Contact(t *testing.T) {
	req := validRequest()
	req.GuestEmail = ""
	errs := Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "either guest email or guest phone is required")

	req = validRequest()
	req.GuestEmail = "not-an-email"
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "guest email is not a valid email address")

	req = validRequest()
	req.GuestPhone = "123"
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "guest phone is not a valid phone number")

	req = validRequest()
	req.GuestPhone = "+49 (030) 123-4567"
	errs = Validate(req, testPolicy(), testNow)
	assert.Empty(t, errs)
}

func TestValidate_PolicyMandatesContact(t *testing.T) {
	pol := testPolicy()
	pol.RequirePhone = true
	req := validRequest() // has email, no phone
	errs := Validate(req, pol, testNow)
	assert.Contains(t, errs, "a phone number is required to book at this venue")

	pol = testPolicy()
	pol.RequireEmail = true
	req = validRequest()
	req.GuestEmail = ""
	req.GuestPhone = "03012345678"
	errs = Validate(req, pol, testNow)
	assert.Contains(t, errs, "an email address is required to book at this venue")
}

func TestValidate_DateWindow(t *testing.T) {
	req := validRequest()
	req.Date = "2026-03-01" // yesterday
	errs := Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "booking date cannot be in the past")

	req = validRequest()
	req.Date = "2026-06-01" // 91 days out, limit is 60
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "bookings cannot be made more than 60 days in advance")

	req = validRequest()
	req.Date = "2026-02-30"
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "booking date must be a valid YYYY-MM-DD date")
}

func TestValidate_SameDayNotice(t *testing.T) {
	// now is 10:00; notice is 2 hours.
	req := validRequest()
	req.Date = "2026-03-02"
	req.StartTime = "09:00"
	req.EndTime = "11:00"
	errs := Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "start time is in the past")

	req.StartTime = "11:00"
	req.EndTime = "13:00"
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "bookings require at least 2 hours notice")

	req.StartTime = "12:00"
	req.EndTime = "14:00"
	errs = Validate(req, testPolicy(), testNow)
	assert.Empty(t, errs)
}

func TestValidate_FutureDayIgnoresNotice(t *testing.T) {
	// A booking for tomorrow morning needs no same-day notice even
	// though it starts fewer than MinNoticeHours from now on the clock.
	req := validRequest()
	req.Date = "2026-03-03"
	req.StartTime = "09:00"
	req.EndTime = "11:00"
	errs := Validate(req, testPolicy(), testNow)
	assert.Empty(t, errs)
}

func TestValidate_TimeOrder(t *testing.T) {
	req := validRequest()
	req.StartTime = "20:00"
	req.EndTime = "18:00"
	errs := Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "end time must be after start time")

	req.EndTime = "20:00" // zero length
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "end time must be after start time")

	req.StartTime = "25:00"
	req.EndTime = "26:00"
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "start time must be in HH:MM format")
	assert.Contains(t, errs, "end time must be in HH:MM format")
}

func TestValidate_DurationOnly(t *testing.T) {
	req := validRequest()
	req.EndTime = ""
	dur := 90
	req.DurationMinutes = &dur
	errs := Validate(req, testPolicy(), testNow)
	assert.Empty(t, errs)

	bad := 0
	req.DurationMinutes = &bad
	errs = Validate(req, testPolicy(), testNow)
	assert.Contains(t, errs, "duration_minutes must be a positive integer")
}
