package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/model"
	"github.com/ludohall/table-booking/internal/repository"
)

// GameHandler manages the board game library of a venue.
type GameHandler struct {
	Venues *repository.VenueRepo
	Games  *repository.GameRepo
}

func NewGameHandler(venues *repository.VenueRepo, games *repository.GameRepo) *GameHandler {
	if venues == nil || games == nil {
		panic("nil repository passed to NewGameHandler")
	}
	return &GameHandler{Venues: venues, Games: games}
}

// Create handles POST /v1/venues/:venue_id/games.
func (h *GameHandler) Create(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	var body struct {
		Title            string  `json:"title"`
		CopiesInRotation *uint32 `json:"copies_in_rotation"`
		CoverURL         *string `json:"cover_url"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	copies := uint32(1)
	if body.CopiesInRotation != nil {
		if *body.CopiesInRotation == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "copies_in_rotation must be greater than zero"})
		}
		copies = *body.CopiesInRotation
	}
	var cover *string
	if body.CoverURL != nil && strings.TrimSpace(*body.CoverURL) != "" {
		s := strings.TrimSpace(*body.CoverURL)
		cover = &s
	}

	g := &model.Game{VenueID: venueID, Title: title, CopiesInRotation: copies, CoverURL: cover, IsActive: true}
	if err := h.Games.Create(c.Request().Context(), g); err != nil {
		if err == repository.ErrDuplicateKey {
			return c.JSON(http.StatusConflict, echo.Map{"error": "game title already in library"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create game"})
	}
	return c.JSON(http.StatusCreated, g)
}

// List handles GET /v1/venues/:venue_id/games.
func (h *GameHandler) List(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	items, err := h.Games.ListByVenue(c.Request().Context(), venueID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PATCH /v1/venues/:venue_id/games/:id.
func (h *GameHandler) Update(c echo.Context) error {
	venueID, ok := ownedVenueID(c, h.Venues)
	if !ok {
		return nil
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Games.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGameNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cur.VenueID != venueID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
	}
	var body struct {
		Title            *string `json:"title"`
		CopiesInRotation *uint32 `json:"copies_in_rotation"`
		CoverURL         *string `json:"cover_url"`
		IsActive         *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title != nil && strings.TrimSpace(*body.Title) != "" {
		cur.Title = strings.TrimSpace(*body.Title)
	}
	if body.CopiesInRotation != nil {
		if *body.CopiesInRotation == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "copies_in_rotation must be greater than zero"})
		}
		cur.CopiesInRotation = *body.CopiesInRotation
	}
	if body.CoverURL != nil {
		s := strings.TrimSpace(*body.CoverURL)
		if s == "" {
			cur.CoverURL = nil // empty string clears the cover
		} else {
			cur.CoverURL = &s
		}
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if err := h.Games.Update(c.Request().Context(), cur); err != nil {
		if err == repository.ErrDuplicateKey {
			return c.JSON(http.StatusConflict, echo.Map{"error": "game title already in library"})
		}
		if err == repository.ErrGameNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}
