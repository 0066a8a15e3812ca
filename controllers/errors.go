package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

var errInvalidBody = errors.New("Request body must be a JSON object with a data field.")

// respondServiceError maps a service error to its status code. Anything that
// is neither a missing record nor a client error is logged and hidden behind
// a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case services.IsClientError(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("request failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Internal server error"))
	}
}
