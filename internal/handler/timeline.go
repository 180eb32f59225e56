package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/repository"
)

// TimelineHandler serves the staff floor timeline in day, week and
// month granularity.
type TimelineHandler struct {
	Venues *repository.VenueRepo
	Engine *booking.Engine
}

func NewTimelineHandler(venues *repository.VenueRepo, engine *booking.Engine) *TimelineHandler {
	if venues == nil || engine == nil {
		panic("nil dependency passed to NewTimelineHandler")
	}
	return &TimelineHandler{Venues: venues, Engine: engine}
}

// Get handles GET /v1/venues/:venue_id/timeline?view=day|week|month.
// Day and week take date=YYYY-MM-DD; month takes year= and month=.
func (h *TimelineHandler) Get(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}

	ctx := c.Request().Context()
	view := strings.TrimSpace(strings.ToLower(c.QueryParam("view")))
	if view == "" {
		view = "day"
	}
	switch view {
	case "day":
		v, err := h.Engine.DayTimeline(ctx, venueID, strings.TrimSpace(c.QueryParam("date")))
		if err != nil {
			return timelineError(c, err)
		}
		return c.JSON(http.StatusOK, v)
	case "week":
		v, err := h.Engine.WeekTimeline(ctx, venueID, strings.TrimSpace(c.QueryParam("date")))
		if err != nil {
			return timelineError(c, err)
		}
		return c.JSON(http.StatusOK, v)
	case "month":
		year, errY := strconv.Atoi(c.QueryParam("year"))
		month, errM := strconv.Atoi(c.QueryParam("month"))
		if errY != nil || errM != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "year and month are required"})
		}
		v, err := h.Engine.MonthTimeline(ctx, venueID, year, month)
		if err != nil {
			return timelineError(c, err)
		}
		return c.JSON(http.StatusOK, v)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "view must be day, week or month"})
	}
}

func timelineError(c echo.Context, err error) error {
	var bErr *booking.Error
	if errors.As(err, &bErr) {
		return c.JSON(statusFor(bErr.Code), echo.Map{"error": bErr.Message, "code": string(bErr.Code)})
	}
	if errors.Is(err, booking.ErrVenueNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not build timeline"})
}
