package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Atig-Hamza/RecoleCheck/internal/errors"
	"github.com/Atig-Hamza/RecoleCheck/internal/middleware"
	"github.com/Atig-Hamza/RecoleCheck/internal/services"
)

// ProfileHandler handles the signed-in user's profile.
type ProfileHandler struct {
	service services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(service services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// ProfileRequest is the full profile form of PUT /profile.
type ProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// ProfilePatchRequest carries only the fields PATCH /profile changes.
type ProfilePatchRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

// Get handles GET /api/v1/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Save handles PUT /api/v1/profile. The email always comes from the session.
func (h *ProfileHandler) Save(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	profile, err := h.service.Save(c.Request.Context(), middleware.GetUserID(c), middleware.GetEmail(c), services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Patch handles PATCH /api/v1/profile.
func (h *ProfileHandler) Patch(c *gin.Context) {
	var req ProfilePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	profile, err := h.service.Patch(c.Request.Context(), middleware.GetUserID(c), services.ProfilePatchInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// DashboardHandler serves the home screen summary.
type DashboardHandler struct {
	service services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get handles GET /api/v1/dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
