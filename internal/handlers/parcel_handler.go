package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Atig-Hamza/RecoleCheck/internal/errors"
	"github.com/Atig-Hamza/RecoleCheck/internal/middleware"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/services"
)

// ParcelHandler handles parcel-related HTTP requests.
type ParcelHandler struct {
	service services.ParcelService
}

// NewParcelHandler creates a new ParcelHandler instance.
func NewParcelHandler(service services.ParcelService) *ParcelHandler {
	return &ParcelHandler{
		service: service,
	}
}

// ParcelRequest is the parcel form as typed by the user. Surface is hectares
// as text and Crops a comma separated list; both are parsed server-side.
type ParcelRequest struct {
	Name          string `json:"name"`
	Surface       string `json:"surface"`
	Crops         string `json:"crops"`
	HarvestPeriod string `json:"harvestPeriod"`
}

func (r ParcelRequest) input() services.ParcelInput {
	return services.ParcelInput{
		Name:          r.Name,
		Surface:       r.Surface,
		Crops:         r.Crops,
		HarvestPeriod: r.HarvestPeriod,
	}
}

// ParcelResponse wraps a single parcel.
type ParcelResponse struct {
	Parcel *models.Parcel `json:"parcel"`
}

// ParcelListResponse is the newest-first list of a user's parcels.
type ParcelListResponse struct {
	Parcels []models.Parcel `json:"parcels"`
	Count   int             `json:"count"`
}

// List handles GET /api/v1/parcels.
func (h *ParcelHandler) List(c *gin.Context) {
	parcels, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ParcelListResponse{Parcels: parcels, Count: len(parcels)})
}

// Get handles GET /api/v1/parcels/:parcelId.
func (h *ParcelHandler) Get(c *gin.Context) {
	parcel, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("parcelId"))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ParcelResponse{Parcel: parcel})
}

// Create handles POST /api/v1/parcels.
func (h *ParcelHandler) Create(c *gin.Context) {
	var req ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	parcel, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusCreated, ParcelResponse{Parcel: parcel})
}

// Update handles PUT /api/v1/parcels/:parcelId.
func (h *ParcelHandler) Update(c *gin.Context) {
	var req ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	parcel, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("parcelId"), req.input())
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ParcelResponse{Parcel: parcel})
}

// Delete handles DELETE /api/v1/parcels/:parcelId. Deleting a missing parcel succeeds.
func (h *ParcelHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("parcelId")); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
