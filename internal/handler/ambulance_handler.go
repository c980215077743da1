package handler

import (
	"ambulance-request-backend/internal/middleware"
	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AmbulanceHandler struct {
	ambulanceService *service.AmbulanceService
}

func NewAmbulanceHandler(ambulanceService *service.AmbulanceService) *AmbulanceHandler {
	return &AmbulanceHandler{
		ambulanceService: ambulanceService,
	}
}

type CreateAmbulanceRequest struct {
	DriverName    string  `json:"driver_name" binding:"max=255"`
	DriverContact string  `json:"driver_contact" binding:"omitempty,phone"`
	Status        string  `json:"status"`
	LocationLat   float64 `json:"location_lat" binding:"latitude"`
	LocationLng   float64 `json:"location_lng" binding:"longitude"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateLocationRequest struct {
	Lat *float64 `json:"lat" binding:"required,latitude"`
	Lng *float64 `json:"lng" binding:"required,longitude"`
}

// ListAmbulances lists the hospital's fleet, optionally filtered by ?status=
func (h *AmbulanceHandler) ListAmbulances(c *gin.Context) {
	hospitalID, ok := parseID(c, "hospital")
	if !ok {
		return
	}

	ambulances, err := h.ambulanceService.ListAmbulances(c.Request.Context(), middleware.ActorFrom(c), hospitalID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"ambulances": ambulances,
		"count":      len(ambulances),
	})
}

// CreateAmbulance adds an ambulance to the hospital's fleet
func (h *AmbulanceHandler) CreateAmbulance(c *gin.Context) {
	hospitalID, ok := parseID(c, "hospital")
	if !ok {
		return
	}

	var req CreateAmbulanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	ambulance, err := h.ambulanceService.CreateAmbulance(c.Request.Context(), middleware.ActorFrom(c), hospitalID, service.CreateAmbulanceInput{
		DriverName:    req.DriverName,
		DriverContact: req.DriverContact,
		Status:        req.Status,
		LocationLat:   req.LocationLat,
		LocationLng:   req.LocationLng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, ambulance)
}

// UpdateStatus sets an ambulance status by hand
func (h *AmbulanceHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "ambulance")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	ambulance, err := h.ambulanceService.UpdateAmbulanceStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, ambulance)
}

// UpdateLocation reports the ambulance's current position
func (h *AmbulanceHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseID(c, "ambulance")
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	ambulance, err := h.ambulanceService.UpdateAmbulanceLocation(c.Request.Context(), middleware.ActorFrom(c), id, *req.Lat, *req.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, ambulance)
}

// GetRequests lists the requests served by the ambulance, optionally filtered by ?status=
func (h *AmbulanceHandler) GetRequests(c *gin.Context) {
	id, ok := parseID(c, "ambulance")
	if !ok {
		return
	}

	requests, err := h.ambulanceService.GetAmbulanceRequests(c.Request.Context(), middleware.ActorFrom(c), id, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}
