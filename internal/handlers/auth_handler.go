package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Atig-Hamza/RecoleCheck/internal/auth"
	apierrors "github.com/Atig-Hamza/RecoleCheck/internal/errors"
	"github.com/Atig-Hamza/RecoleCheck/internal/middleware"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{auth: service}
}

// SignUpRequest is the registration form.
type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /api/v1/auth/sign-up.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	result, err := h.auth.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		apierrors.Handle(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// SignIn handles POST /api/v1/auth/sign-in.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	result, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apierrors.Handle(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SignOut handles POST /api/v1/auth/sign-out.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		apierrors.Handle(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/v1/me.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := h.auth.Current(middleware.GetSessionID(c))
	if !ok {
		apierrors.Unauthorized(c, apierrors.MessageSessionExpired)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}
