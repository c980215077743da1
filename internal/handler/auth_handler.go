package handler

import (
	"net/http"

	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type HospitalLoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type DriverLoginRequest struct {
	HospitalID    uint   `json:"hospital_id" binding:"required"`
	DriverName    string `json:"driver_name" binding:"required"`
	DriverContact string `json:"driver_contact" binding:"required"`
}

// LoginHospital authenticates a hospital admin
func (h *AuthHandler) LoginHospital(c *gin.Context) {
	var req HospitalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.LoginHospital(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.SuccessResponse(c, response)
}

// LoginDriver authenticates an ambulance driver against their hospital's fleet
func (h *AuthHandler) LoginDriver(c *gin.Context) {
	var req DriverLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.LoginDriver(c.Request.Context(), req.HospitalID, req.DriverName, req.DriverContact)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.SuccessResponse(c, response)
}

// Refresh generates a new access token from refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
	})
}

// Logout revokes the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		// If no cookie, just clear it and return success
		h.setRefreshCookie(c, "")
		utils.MessageResponse(c, "Logged out successfully")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, "")
	utils.MessageResponse(c, "Logged out successfully")
}

// setRefreshCookie stores token as an HttpOnly cookie. An empty token clears it.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(utils.GetRefreshTokenExpiry().Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, maxAge, "/auth", "", h.secureCookie, true)
}
