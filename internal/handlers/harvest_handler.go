package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Atig-Hamza/RecoleCheck/internal/errors"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/services"
	"github.com/Atig-Hamza/RecoleCheck/internal/validation"
)

// HarvestHandler handles the harvests of one zone.
type HarvestHandler struct {
	service services.HarvestService
	loc     *time.Location
}

// NewHarvestHandler creates a new HarvestHandler. Dates are rendered in loc,
// which must match the location the service parses them in.
func NewHarvestHandler(service services.HarvestService, loc *time.Location) *HarvestHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HarvestHandler{service: service, loc: loc}
}

// HarvestRequest is the harvest form. Date is DD/MM/YYYY and Weight is
// kilograms as text.
type HarvestRequest struct {
	Date   string `json:"date"`
	Weight string `json:"weight"`
	Crop   string `json:"crop"`
	Notes  string `json:"notes"`
}

func (r HarvestRequest) input() services.HarvestInput {
	return services.HarvestInput{
		Date:   r.Date,
		Weight: r.Weight,
		Crop:   r.Crop,
		Notes:  r.Notes,
	}
}

// HarvestData is a harvest with its date also rendered as DD/MM/YYYY.
type HarvestData struct {
	models.Harvest
	DateText string `json:"dateText"`
}

// HarvestResponse wraps a single harvest.
type HarvestResponse struct {
	Harvest HarvestData `json:"harvest"`
}

// HarvestListResponse is the list of a zone's harvests, latest date first,
// with their totals.
type HarvestListResponse struct {
	Harvests []HarvestData           `json:"harvests"`
	Count    int                     `json:"count"`
	Summary  services.HarvestSummary `json:"summary"`
}

// HarvestSummaryResponse wraps the totals of a zone.
type HarvestSummaryResponse struct {
	Summary *services.HarvestSummary `json:"summary"`
}

func (h *HarvestHandler) toData(harvest models.Harvest) HarvestData {
	return HarvestData{
		Harvest:  harvest,
		DateText: validation.FormatDateIn(harvest.Date, h.loc),
	}
}

// List handles GET /api/v1/parcels/:parcelId/zones/:zoneId/harvests.
func (h *HarvestHandler) List(c *gin.Context) {
	harvests, err := h.service.List(c.Request.Context(), harvestScope(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}

	data := make([]HarvestData, 0, len(harvests))
	for _, harvest := range harvests {
		data = append(data, h.toData(harvest))
	}
	c.JSON(http.StatusOK, HarvestListResponse{
		Harvests: data,
		Count:    len(data),
		Summary:  services.SummarizeHarvests(harvests),
	})
}

// Summary handles GET /api/v1/parcels/:parcelId/zones/:zoneId/summary.
func (h *HarvestHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), harvestScope(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, HarvestSummaryResponse{Summary: summary})
}

// Get handles GET /api/v1/parcels/:parcelId/zones/:zoneId/harvests/:harvestId.
func (h *HarvestHandler) Get(c *gin.Context) {
	harvest, err := h.service.Get(c.Request.Context(), harvestScope(c), c.Param("harvestId"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, HarvestResponse{Harvest: h.toData(*harvest)})
}

// Create handles POST /api/v1/parcels/:parcelId/zones/:zoneId/harvests.
func (h *HarvestHandler) Create(c *gin.Context) {
	var req HarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	harvest, err := h.service.Create(c.Request.Context(), harvestScope(c), req.input())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, HarvestResponse{Harvest: h.toData(*harvest)})
}

// Update handles PUT /api/v1/parcels/:parcelId/zones/:zoneId/harvests/:harvestId.
func (h *HarvestHandler) Update(c *gin.Context) {
	var req HarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	harvest, err := h.service.Update(c.Request.Context(), harvestScope(c), c.Param("harvestId"), req.input())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, HarvestResponse{Harvest: h.toData(*harvest)})
}

// Delete handles DELETE /api/v1/parcels/:parcelId/zones/:zoneId/harvests/:harvestId.
func (h *HarvestHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), harvestScope(c), c.Param("harvestId")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
