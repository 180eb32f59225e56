package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ludohall/table-booking/internal/model"
	"github.com/ludohall/table-booking/internal/repository"
)

// VenueHandler bundles repositories for owners to manage their venues.
type VenueHandler struct {
	Venues *repository.VenueRepo
}

func NewVenueHandler(venues *repository.VenueRepo) *VenueHandler {
	if venues == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues}
}

// slugify lowercases a name and collapses everything outside [a-z0-9]
// into single hyphens. Used when the client does not supply a slug.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func validTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Create handles POST /v1/venues.
func (h *VenueHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		Timezone string `json:"timezone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	slug := strings.TrimSpace(body.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug could not be derived from name"})
	}
	tz := strings.TrimSpace(body.Timezone)
	if tz == "" {
		tz = "UTC"
	}
	if !validTimezone(tz) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown timezone"})
	}

	v := &model.Venue{OwnerID: ownerID, Name: name, Slug: slug, Timezone: tz, IsActive: true}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		if err == repository.ErrDuplicateKey {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
	}
	return c.JSON(http.StatusCreated, v)
}

// List handles GET /v1/venues and returns the venues owned by the caller.
func (h *VenueHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Venues.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/venues/:id.
func (h *VenueHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Venues.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Update handles PATCH /v1/venues/:id. Only provided fields change.
func (h *VenueHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Venues.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name     *string `json:"name"`
		Slug     *string `json:"slug"`
		Timezone *string `json:"timezone"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Slug != nil && strings.TrimSpace(*body.Slug) != "" {
		cur.Slug = strings.ToLower(strings.TrimSpace(*body.Slug))
	}
	if body.Timezone != nil {
		tz := strings.TrimSpace(*body.Timezone)
		if !validTimezone(tz) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown timezone"})
		}
		cur.Timezone = tz
	}
	if body.IsActive != nil {
		cur.IsActive = *body.IsActive
	}
	if err := h.Venues.UpdateByIDAndOwner(c.Request().Context(), cur); err != nil {
		if err == repository.ErrDuplicateKey {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}
