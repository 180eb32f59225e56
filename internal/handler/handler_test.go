package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/repository"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Meeple & Malt":          "meeple-malt",
		"  Würfel Bar  ":         "w-rfel-bar",
		"Table 42":               "table-42",
		"---":                    "",
		"Already-Slugged":        "already-slugged",
		"multiple   spaces here": "multiple-spaces-here",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "slugify(%q)", in)
	}
}

func TestValidTimezone(t *testing.T) {
	assert.True(t, validTimezone("Europe/Berlin"))
	assert.True(t, validTimezone("UTC"))
	assert.False(t, validTimezone(""))
	assert.False(t, validTimezone("Mars/Olympus_Mons"))
}

// venueContext builds an echo context for a /v1/venues/:venue_id route.
func venueContext(method, target, venueID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("venue_id")
	c.SetParamValues(venueID)
	return c, rec
}

// The ownership guard writes its own error response; handlers must stop
// there instead of continuing with a zero venue id after the response
// has been committed.
func TestOwnershipGuardStopsHandler(t *testing.T) {
	h := &BookingHandler{Venues: repository.NewVenueRepo(nil)}

	// No authenticated user in the context.
	c, rec := venueContext(http.MethodGet, "/v1/venues/1/bookings?date=2026-03-10", "1")
	require.NoError(t, h.ListByDate(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// A second body after the guard's would make this invalid JSON.
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	// Unparseable venue id with a valid user.
	c, rec = venueContext(http.MethodGet, "/v1/venues/abc/bookings?date=2026-03-10", "abc")
	c.Set("user_id", uint64(7))
	require.NoError(t, h.ListByDate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid venue_id"}`, rec.Body.String())
}

// Create must never reach the insert once the guard has rejected the
// request; the nil table repository would panic if it did.
func TestOwnershipGuardStopsTableCreate(t *testing.T) {
	h := &TableHandler{Venues: repository.NewVenueRepo(nil)}

	c, rec := venueContext(http.MethodPost, "/v1/venues/1/tables", "1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(booking.CodeValidation))
	assert.Equal(t, http.StatusNotFound, statusFor(booking.CodeNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(booking.CodeConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(booking.CodeCapacity))
	assert.Equal(t, http.StatusUnauthorized, statusFor(booking.CodeUnauthorized))
	assert.Equal(t, http.StatusForbidden, statusFor(booking.CodeDisabled))
	assert.Equal(t, http.StatusInternalServerError, statusFor(booking.CodeUnknown))
}
