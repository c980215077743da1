package handler

import (
	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	hospitalService *service.HospitalService
}

func NewHospitalHandler(hospitalService *service.HospitalService) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
	}
}

type RegisterHospitalRequest struct {
	Name            string   `json:"name" binding:"required,max=255"`
	Password        string   `json:"password" binding:"required,min=6"`
	LocationLat     *float64 `json:"location_lat" binding:"required,latitude"`
	LocationLng     *float64 `json:"location_lng" binding:"required,longitude"`
	ContactNumber   string   `json:"contact_number" binding:"omitempty,phone"`
	TotalAmbulances int      `json:"total_ambulances" binding:"min=0,max=500"`
}

// GetAllHospitals lists every registered hospital
func (h *HospitalHandler) GetAllHospitals(c *gin.Context) {
	hospitals, err := h.hospitalService.ListHospitals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetHospital retrieves a specific hospital by ID
func (h *HospitalHandler) GetHospital(c *gin.Context) {
	id, ok := parseID(c, "hospital")
	if !ok {
		return
	}

	hospital, err := h.hospitalService.GetHospital(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, hospital)
}

// RegisterHospital creates a hospital with its placeholder fleet
func (h *HospitalHandler) RegisterHospital(c *gin.Context) {
	var req RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	hospital, err := h.hospitalService.RegisterHospital(c.Request.Context(), service.RegisterHospitalInput{
		Name:            req.Name,
		Password:        req.Password,
		LocationLat:     *req.LocationLat,
		LocationLng:     *req.LocationLng,
		ContactNumber:   req.ContactNumber,
		TotalAmbulances: req.TotalAmbulances,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, hospital)
}
