package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/repository"
)

// PublicHandler serves the unauthenticated guest surface: the venue
// booking page, online booking creation, and lookup / cancellation by
// confirmation code.
type PublicHandler struct {
	Venues   *repository.VenueRepo
	Tables   *repository.TableRepo
	Games    *repository.GameRepo
	Settings *repository.SettingsRepo
	Bookings *repository.BookingRepo
	Engine   *booking.Engine
	Inv      booking.Invalidator
}

func NewPublicHandler(venues *repository.VenueRepo, tables *repository.TableRepo, games *repository.GameRepo,
	settings *repository.SettingsRepo, bookings *repository.BookingRepo, engine *booking.Engine, inv booking.Invalidator) *PublicHandler {
	if venues == nil || tables == nil || games == nil || settings == nil || bookings == nil || engine == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Venues: venues, Tables: tables, Games: games, Settings: settings, Bookings: bookings, Engine: engine, Inv: inv}
}

// VenuePage handles GET /v1/public/venues/:slug and returns everything the
// public booking form needs: the venue, its active tables and games,
// and the policy knobs that shape the form.
func (h *PublicHandler) VenuePage(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	ctx := c.Request().Context()

	v, err := h.Venues.GetBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	tables, err := h.Tables.ListByVenue(ctx, v.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	games, err := h.Games.ListByVenue(ctx, v.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	s, err := h.Settings.GetOrCreate(ctx, v.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"venue":  v,
		"tables": tables,
		"games":  games,
		"policy": echo.Map{
			"online_booking_enabled":   s.OnlineBookingEnabled,
			"require_phone":            s.RequirePhone,
			"require_email":            s.RequireEmail,
			"min_booking_notice_hours": s.MinBookingNoticeHours,
			"max_advance_booking_days": s.MaxAdvanceBookingDays,
			"default_duration_minutes": s.DefaultDurationMinutes,
			"opening_time":             s.OpeningTime,
			"closing_time":             s.ClosingTime,
		},
	})
}

// CreateBooking handles POST /v1/public/venues/:slug/bookings. The source is
// always online; internal notes and created_by are staff-only fields.
func (h *PublicHandler) CreateBooking(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	v, err := h.Venues.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	var body bookingPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Engine.Create(c.Request().Context(), booking.CreateRequest{
		VenueID:         v.ID,
		TableID:         body.TableID,
		GameID:          body.GameID,
		Date:            body.BookingDate,
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		DurationMinutes: body.DurationMinutes,
		PartySize:       body.PartySize,
		GuestName:       body.GuestName,
		GuestEmail:      body.GuestEmail,
		GuestPhone:      body.GuestPhone,
		Notes:           body.Notes,
		Source:          booking.SourceOnline,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Lookup handles GET /v1/public/bookings/:code and returns the booking behind a
// confirmation code, without internal notes.
func (h *PublicHandler) Lookup(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	b, err := h.Bookings.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	b.InternalNotes = nil // never exposed to guests
	tbl, err := h.Tables.GetByID(c.Request().Context(), b.TableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b, "table_label": tbl.Label})
}

// Cancel handles POST /v1/public/bookings/:code/cancel. Guests may cancel any
// booking that has not already finished or been cancelled.
func (h *PublicHandler) Cancel(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	switch b.Status {
	case booking.StatusCompleted:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking has already been completed"})
	case booking.StatusCancelledByGuest, booking.StatusCancelledByVenue:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
	case booking.StatusNoShow:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking was marked as a no-show"})
	}

	if err := h.Bookings.UpdateStatus(ctx, b.ID, booking.StatusCancelledByGuest); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if h.Inv != nil {
		h.Inv.InvalidateBookingViews(ctx, b.VenueID)
	}
	fresh, err := h.Bookings.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	fresh.InternalNotes = nil
	return c.JSON(http.StatusOK, fresh)
}
