package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Atig-Hamza/RecoleCheck/internal/errors"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/services"
)

// ZoneHandler handles the zones of one parcel.
type ZoneHandler struct {
	service services.ZoneService
}

// NewZoneHandler creates a new ZoneHandler instance.
func NewZoneHandler(service services.ZoneService) *ZoneHandler {
	return &ZoneHandler{service: service}
}

// ZoneRequest is the zone form.
type ZoneRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r ZoneRequest) input() services.ZoneInput {
	return services.ZoneInput{Name: r.Name, Description: r.Description}
}

// ZoneResponse wraps a single zone.
type ZoneResponse struct {
	Zone *models.Zone `json:"zone"`
}

// ZoneListResponse is the newest-first list of a parcel's zones.
type ZoneListResponse struct {
	Zones []models.Zone `json:"zones"`
	Count int           `json:"count"`
}

// List handles GET /api/v1/parcels/:parcelId/zones.
func (h *ZoneHandler) List(c *gin.Context) {
	zones, err := h.service.List(c.Request.Context(), zoneScope(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ZoneListResponse{Zones: zones, Count: len(zones)})
}

// Get handles GET /api/v1/parcels/:parcelId/zones/:zoneId.
func (h *ZoneHandler) Get(c *gin.Context) {
	zone, err := h.service.Get(c.Request.Context(), zoneScope(c), c.Param("zoneId"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ZoneResponse{Zone: zone})
}

// Create handles POST /api/v1/parcels/:parcelId/zones.
func (h *ZoneHandler) Create(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	zone, err := h.service.Create(c.Request.Context(), zoneScope(c), req.input())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, ZoneResponse{Zone: zone})
}

// Update handles PUT /api/v1/parcels/:parcelId/zones/:zoneId.
func (h *ZoneHandler) Update(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	zone, err := h.service.Update(c.Request.Context(), zoneScope(c), c.Param("zoneId"), req.input())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ZoneResponse{Zone: zone})
}

// Delete handles DELETE /api/v1/parcels/:parcelId/zones/:zoneId.
func (h *ZoneHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), zoneScope(c), c.Param("zoneId")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
