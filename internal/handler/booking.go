package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/repository"
)

// BookingHandler exposes the staff-side booking surface: creation
// through the reservation engine, day lists, game sessions, status
// transitions and CSV export.
type BookingHandler struct {
	Venues   *repository.VenueRepo
	Bookings *repository.BookingRepo
	Engine   *booking.Engine
	Inv      booking.Invalidator
}

func NewBookingHandler(venues *repository.VenueRepo, bookings *repository.BookingRepo, engine *booking.Engine, inv booking.Invalidator) *BookingHandler {
	if venues == nil || bookings == nil || engine == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Venues: venues, Bookings: bookings, Engine: engine, Inv: inv}
}

// statusFor maps the engine's failure codes onto HTTP statuses.
func statusFor(code booking.Code) int {
	switch code {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeConflict:
		return http.StatusConflict
	case booking.CodeCapacity:
		return http.StatusUnprocessableEntity
	case booking.CodeUnauthorized:
		return http.StatusUnauthorized
	case booking.CodeDisabled:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// engineError writes a typed engine failure as JSON.
func engineError(c echo.Context, err error) error {
	var bErr *booking.Error
	if errors.As(err, &bErr) {
		return c.JSON(statusFor(bErr.Code), echo.Map{"error": bErr.Message, "code": string(bErr.Code)})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
}

// bookingPayload is shared by the staff and public creation endpoints.
type bookingPayload struct {
	TableID         uint64  `json:"table_id"`
	GameID          *uint64 `json:"game_id"`
	BookingDate     string  `json:"booking_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	PartySize       int     `json:"party_size"`
	GuestName       string  `json:"guest_name"`
	GuestEmail      string  `json:"guest_email"`
	GuestPhone      string  `json:"guest_phone"`
	Notes           string  `json:"notes"`
}

// Create handles POST /v1/venues/:venue_id/bookings. Staff bookings may
// carry internal notes and a source of staff, phone or walk_in.
func (h *BookingHandler) Create(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	// ownedVenueID already rejected requests without a user.
	userID, _ := getUserID(c)
	var body struct {
		bookingPayload
		InternalNotes string `json:"internal_notes"`
		Source        string `json:"source"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	source := strings.TrimSpace(strings.ToLower(body.Source))
	switch source {
	case "", booking.SourceStaff:
		source = booking.SourceStaff
	case booking.SourcePhone, booking.SourceWalkIn:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "source must be staff, phone or walk_in"})
	}

	res, err := h.Engine.Create(c.Request().Context(), booking.CreateRequest{
		VenueID:         venueID,
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
		InternalNotes:   body.InternalNotes,
		Source:          source,
		CreatedBy:       &userID,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// ListByDate handles GET /v1/venues/:venue_id/bookings?date=YYYY-MM-DD.
func (h *BookingHandler) ListByDate(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if _, err := booking.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a valid YYYY-MM-DD date"})
	}
	items, err := h.Bookings.ListDetailsForVenueAndDate(c.Request().Context(), venueID, date, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "items": items})
}

// Sessions handles GET /v1/venues/:venue_id/sessions?date=YYYY-MM-DD and
// lists only the bookings that reserve a game copy.
func (h *BookingHandler) Sessions(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if _, err := booking.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a valid YYYY-MM-DD date"})
	}
	items, err := h.Bookings.ListDetailsForVenueAndDate(c.Request().Context(), venueID, date, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "items": items})
}

// staffStatuses are the transitions staff may set directly. Guests
// cancel through the public surface instead.
var staffStatuses = map[string]bool{
	booking.StatusConfirmed:        true,
	booking.StatusArrived:          true,
	booking.StatusSeated:           true,
	booking.StatusCompleted:        true,
	booking.StatusNoShow:           true,
	booking.StatusCancelledByVenue: true,
}

// UpdateStatus handles PATCH /v1/venues/:venue_id/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.TrimSpace(strings.ToLower(body.Status))
	if !staffStatuses[status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	cur, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cur.VenueID != venueID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err := h.Bookings.UpdateStatus(ctx, id, status); err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if h.Inv != nil {
		h.Inv.InvalidateBookingViews(ctx, venueID)
	}
	fresh, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// ExportCSV handles GET /v1/venues/:venue_id/bookings/export?from=&to=
// and streams the bookings of a date range as a CSV attachment.
func (h *BookingHandler) ExportCSV(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	if _, err := booking.ParseDate(from); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be a valid YYYY-MM-DD date"})
	}
	if _, err := booking.ParseDate(to); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be a valid YYYY-MM-DD date"})
	}
	if to < from {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must not be before from"})
	}

	rows, err := h.Bookings.ListByVenueAndRange(c.Request().Context(), venueID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	filename := fmt.Sprintf("bookings_%d_%s_%s.csv", venueID, from, to)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	header := []string{
		"id", "booking_date", "start_time", "end_time", "table_id", "game_id",
		"party_size", "guest_name", "guest_email", "guest_phone",
		"status", "source", "confirmation_code", "created_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, b := range rows {
		gameID := ""
		if b.GameID != nil {
			gameID = strconv.FormatUint(*b.GameID, 10)
		}
		email, phone := "", ""
		if b.GuestEmail != nil {
			email = *b.GuestEmail
		}
		if b.GuestPhone != nil {
			phone = *b.GuestPhone
		}
		rec := []string{
			strconv.FormatUint(b.ID, 10),
			b.BookingDate,
			b.StartTime,
			b.EndTime,
			strconv.FormatUint(b.TableID, 10),
			gameID,
			strconv.Itoa(int(b.PartySize)),
			b.GuestName,
			email,
			phone,
			b.Status,
			b.Source,
			b.ConfirmationCode,
			b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
