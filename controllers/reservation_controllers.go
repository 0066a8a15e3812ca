package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type ReservationController struct {
	Service services.ReservationService
	Hub     *floor.Hub
}

func NewReservationController(service services.ReservationService, hub *floor.Hub) *ReservationController {
	return &ReservationController{Service: service, Hub: hub}
}

// ListReservations -> ?date= first, then ?mobile_number=, else everything
func (rc *ReservationController) ListReservations(c *gin.Context) {
	filter := services.ReservationFilter{
		Date:         c.Query("date"),
		MobileNumber: c.Query("mobile_number"),
	}

	reservations, err := rc.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req utils.DataRequest[services.ReservationPayload]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	reservation, err := rc.Service.Create(c.Request.Context(), req.Data)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Hub.ReservationCreated(reservation)
	utils.RespondJSON(c, http.StatusCreated, reservation)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	reservation, err := rc.Service.Get(c.Request.Context(), c.Param("reservation_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservation -> full edit of the guest and booking fields
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req utils.DataRequest[services.ReservationPayload]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	reservation, err := rc.Service.Update(c.Request.Context(), c.Param("reservation_id"), req.Data)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Hub.ReservationUpdated(reservation)
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	var req utils.DataRequest[struct {
		Status string `json:"status"`
	}]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	reservation, err := rc.Service.UpdateStatus(c.Request.Context(), c.Param("reservation_id"), req.Data.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Hub.ReservationUpdated(reservation)
	utils.RespondJSON(c, http.StatusOK, reservation)
}
