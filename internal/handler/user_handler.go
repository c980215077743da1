package handler

import (
	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService    *service.UserService
	requestService *service.RequestService
}

func NewUserHandler(userService *service.UserService, requestService *service.RequestService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		requestService: requestService,
	}
}

type RegisterUserRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,phone"`
}

// RegisterUser returns the existing user for the email or creates a new one
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// LookupUser finds a user by ?email= or ?phone=
func (h *UserHandler) LookupUser(c *gin.Context) {
	user, err := h.userService.FindUser(c.Request.Context(), c.Query("email"), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GetUserRequests returns the user's active and finished requests
func (h *UserHandler) GetUserRequests(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	requests, err := h.requestService.GetUserRequests(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, requests)
}
