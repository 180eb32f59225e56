package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/model"
	"github.com/ludohall/table-booking/internal/repository"
)

// TableHandler manages the reservable tables of a venue.
type TableHandler struct {
	Venues *repository.VenueRepo
	Tables *repository.TableRepo
}

func NewTableHandler(venues *repository.VenueRepo, tables *repository.TableRepo) *TableHandler {
	if venues == nil || tables == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Venues: venues, Tables: tables}
}

// Create handles POST /v1/venues/:venue_id/tables.
func (h *TableHandler) Create(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	var body struct {
		Label    string  `json:"label"`
		Capacity *uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	label := strings.TrimSpace(body.Label)
	if label == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	if body.Capacity != nil && *body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
	}

	t := &model.Table{VenueID: venueID, Label: label, Capacity: body.Capacity, IsActive: true}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		if err == repository.ErrDuplicateKey {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table label already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
	}
	return c.JSON(http.StatusCreated, t)
}

// List handles GET /v1/venues/:venue_id/tables. Inactive tables are
// included so the floor plan shows retired tables too.
func (h *TableHandler) List(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	items, err := h.Tables.ListByVenue(c.Request().Context(), venueID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PATCH /v1/venues/:venue_id/tables/:id.
func (h *TableHandler) Update(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrTableNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cur.VenueID != venueID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	var body struct {
		Label    *string `json:"label"`
		Capacity *uint32 `json:"capacity"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Label != nil && strings.TrimSpace(*body.Label) != "" {
		cur.Label = strings.TrimSpace(*body.Label)
	}
	if body.Capacity != nil {
		if *body.Capacity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
		}
		cur.Capacity = body.Capacity
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if err := h.Tables.Update(c.Request().Context(), cur); err != nil {
		if err == repository.ErrDuplicateKey {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table label already in use"})
		}
		if err == repository.ErrTableNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}
