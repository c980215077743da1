package handler

import (
	"net/http"
	"strconv"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError writes err in the response envelope with the status its
// sentinel maps to. Internal failures are logged and hidden from clients.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString("requestID")).
			Str("path", c.FullPath()).
			Msg("request failed")
		utils.ErrorResponse(c, status, "Internal server error")
		return
	}
	utils.ErrorResponse(c, status, err.Error())
}

func bindingError(c *gin.Context, err error) {
	utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name+" ID")
		return 0, false
	}
	return uint(id), true
}
