package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type TableController struct {
	Service services.TableService
	Hub     *floor.Hub
}

func NewTableController(service services.TableService, hub *floor.Hub) *TableController {
	return &TableController{Service: service, Hub: hub}
}

// GetAllTables -> ordered by table name
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req utils.DataRequest[services.TablePayload]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	table, err := tc.Service.Create(c.Request.Context(), req.Data)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tc.Hub.TableCreated(table)
	utils.RespondJSON(c, http.StatusCreated, table)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	table, err := tc.Service.Get(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, table)
}

// SeatReservation -> PUT /tables/:table_id/seat with {"data":{"reservation_id":...}}
func (tc *TableController) SeatReservation(c *gin.Context) {
	var req utils.DataRequest[struct {
		ReservationID string `json:"reservation_id"`
	}]
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	seating, err := tc.Service.Seat(c.Request.Context(), c.Param("table_id"), req.Data.ReservationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tc.Hub.TableUpdated(seating.Table, seating.Reservation)
	utils.RespondJSON(c, http.StatusOK, seating)
}

// FinishTable -> DELETE /tables/:table_id/seat
func (tc *TableController) FinishTable(c *gin.Context) {
	seating, err := tc.Service.Finish(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tc.Hub.TableUpdated(seating.Table, seating.Reservation)
	utils.RespondJSON(c, http.StatusOK, seating)
}
