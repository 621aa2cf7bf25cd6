package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/gin-gonic/gin"
)

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Tenant   string `json:"tenant" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthController signs users in
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates an auth controller
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login handles POST /api/v1/auth/login
func (h *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Tenant, req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "Failed to sign in")
		return
	}

	respondOK(c, http.StatusOK, result)
}
