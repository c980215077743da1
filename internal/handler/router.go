package handler

import (
	"ambulance-request-backend/internal/middleware"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Hospital  *HospitalHandler
	Ambulance *AmbulanceHandler
	Request   *RequestHandler
	Events    *EventsHandler
}

// RegisterRoutes mounts the public, hospital-scoped and session routes on r
func RegisterRoutes(r *gin.Engine, h Handlers) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "ambulance-request-backend",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/hospital/login", h.Auth.LoginHospital)
		auth.POST("/driver/login", h.Auth.LoginDriver)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	api := r.Group("/api/v1")

	// Public user-facing routes
	api.POST("/users", h.User.RegisterUser)
	api.GET("/users/lookup", h.User.LookupUser)
	api.GET("/users/:id/requests", h.User.GetUserRequests)
	api.GET("/users/:id/requests/events", h.Events.UserEvents)

	api.GET("/hospitals", h.Hospital.GetAllHospitals)
	api.GET("/hospitals/:id", h.Hospital.GetHospital)
	api.POST("/hospitals", h.Hospital.RegisterHospital)

	api.POST("/requests", h.Request.CreateRequest)
	api.POST("/requests/dispatch", h.Request.Dispatch)

	// Hospital-scoped routes (authenticated)
	hospital := api.Group("/hospitals/:id")
	hospital.Use(middleware.AuthMiddleware(), middleware.RequireHospitalAccess())
	{
		hospital.GET("/ambulances", h.Ambulance.ListAmbulances)
		hospital.GET("/requests", h.Request.GetHospitalRequests)
		hospital.GET("/requests/events", h.Events.HospitalEvents)

		// Admin-only routes
		hospital.POST("/ambulances", middleware.RequireRole(utils.RoleHospital), h.Ambulance.CreateAmbulance)
	}

	// Resource routes; ownership is checked against the loaded row
	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware())
	{
		secured.PATCH("/ambulances/:id/status", middleware.RequireRole(utils.RoleHospital), h.Ambulance.UpdateStatus)
		secured.PATCH("/ambulances/:id/location", h.Ambulance.UpdateLocation)
		secured.GET("/ambulances/:id/requests", h.Ambulance.GetRequests)
		secured.PATCH("/requests/:id/status", h.Request.UpdateStatus)
	}
}
