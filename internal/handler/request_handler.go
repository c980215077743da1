package handler

import (
	"ambulance-request-backend/internal/middleware"
	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService *service.RequestService
}

func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

type CreateRequestRequest struct {
	UserID      uint     `json:"user_id" binding:"required"`
	HospitalID  uint     `json:"hospital_id" binding:"required"`
	AmbulanceID uint     `json:"ambulance_id" binding:"required"`
	UserLat     *float64 `json:"user_lat" binding:"required,latitude"`
	UserLng     *float64 `json:"user_lng" binding:"required,longitude"`
	CaseDetails string   `json:"case_details" binding:"max=2000"`
}

type DispatchRequest struct {
	UserID      uint     `json:"user_id" binding:"required"`
	UserLat     *float64 `json:"user_lat" binding:"required,latitude"`
	UserLng     *float64 `json:"user_lng" binding:"required,longitude"`
	CaseDetails string   `json:"case_details" binding:"max=2000"`
}

// CreateRequest books a specific ambulance chosen by the client
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), service.CreateRequestInput{
		UserID:      req.UserID,
		HospitalID:  req.HospitalID,
		AmbulanceID: req.AmbulanceID,
		UserLat:     *req.UserLat,
		UserLng:     *req.UserLng,
		CaseDetails: req.CaseDetails,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, request)
}

// Dispatch books the nearest free ambulance for the user
func (h *RequestHandler) Dispatch(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := h.requestService.Dispatch(c.Request.Context(), req.UserID, *req.UserLat, *req.UserLng, req.CaseDetails)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// UpdateStatus moves a request to its next lifecycle status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "request")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	request, err := h.requestService.UpdateRequestStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// GetHospitalRequests lists a hospital's requests, optionally filtered by ?status=
func (h *RequestHandler) GetHospitalRequests(c *gin.Context) {
	hospitalID, ok := parseID(c, "hospital")
	if !ok {
		return
	}

	requests, err := h.requestService.GetHospitalRequests(c.Request.Context(), middleware.ActorFrom(c), hospitalID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}
