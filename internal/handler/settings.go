package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/repository"
)

// SettingsHandler exposes the per-venue booking policy. Settings rows
// are created lazily with defaults on first read.
type SettingsHandler struct {
	Venues   *repository.VenueRepo
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(venues *repository.VenueRepo, settings *repository.SettingsRepo) *SettingsHandler {
	if venues == nil || settings == nil {
		panic("nil repository passed to NewSettingsHandler")
	}
	return &SettingsHandler{Venues: venues, Settings: settings}
}

// Get handles GET /v1/venues/:venue_id/settings.
func (h *SettingsHandler) Get(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	s, err := h.Settings.GetOrCreate(c.Request().Context(), venueID)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// Update handles PATCH /v1/venues/:venue_id/settings. Only provided
// fields change; opening/closing times must be HH:MM.
func (h *SettingsHandler) Update(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	cur, err := h.Settings.GetOrCreate(c.Request().Context(), venueID)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		RequirePhone           *bool   `json:"require_phone"`
		RequireEmail           *bool   `json:"require_email"`
		MinBookingNoticeHours  *int    `json:"min_booking_notice_hours"`
		MaxAdvanceBookingDays  *int    `json:"max_advance_booking_days"`
		DefaultDurationMinutes *int    `json:"default_duration_minutes"`
		OnlineBookingEnabled   *bool   `json:"online_booking_enabled"`
		OpeningTime            *string `json:"opening_time"`
		ClosingTime            *string `json:"closing_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RequirePhone != nil {
		cur.RequirePhone = *body.RequirePhone
	}
	if body.RequireEmail != nil {
		cur.RequireEmail = *body.RequireEmail
	}
	if body.MinBookingNoticeHours != nil {
		if *body.MinBookingNoticeHours < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_booking_notice_hours must not be negative"})
		}
		cur.MinBookingNoticeHours = *body.MinBookingNoticeHours
	}
	if body.MaxAdvanceBookingDays != nil {
		if *body.MaxAdvanceBookingDays < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_advance_booking_days must be at least 1"})
		}
		cur.MaxAdvanceBookingDays = *body.MaxAdvanceBookingDays
	}
	if body.DefaultDurationMinutes != nil {
		if *body.DefaultDurationMinutes < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "default_duration_minutes must be positive"})
		}
		cur.DefaultDurationMinutes = *body.DefaultDurationMinutes
	}
	if body.OnlineBookingEnabled != nil {
		cur.OnlineBookingEnabled = *body.OnlineBookingEnabled
	}
	if body.OpeningTime != nil {
		t, err := booking.NormalizeTime(strings.TrimSpace(*body.OpeningTime))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "opening_time must be HH:MM"})
		}
		cur.OpeningTime = t
	}
	if body.ClosingTime != nil {
		t, err := booking.NormalizeTime(strings.TrimSpace(*body.ClosingTime))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "closing_time must be HH:MM"})
		}
		cur.ClosingTime = t
	}
	if err := h.Settings.Update(c.Request().Context(), cur); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}
