package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :param from the request path.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// ownedVenueID resolves the :venue_id path parameter to a venue owned by
// the authenticated user. When it cannot, the error response has already
// been written and ok is false; callers must stop and return nil.
func ownedVenueID(c echo.Context, venues *repository.VenueRepo) (uint64, bool) {
	ownerID, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return 0, false
	}
	venueID, err := pathID(c, "venue_id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
		return 0, false
	}
	if _, err := venues.GetByIDAndOwner(c.Request().Context(), venueID, ownerID); err != nil {
		switch err {
		case repository.ErrVenueNotFound:
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case repository.ErrForbidden:
			_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return 0, false
	}
	return venueID, true
}
