package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/database/dbtest"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/services"
)

// Monday 3 June 2030, noon UTC.
var fixedNow = time.Date(2030, time.June, 3, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func setupRouter(rs services.ReservationService, ts services.TableService, hub *floor.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	reservationCtrl := controllers.NewReservationController(rs, hub)
	router.GET("/reservations", reservationCtrl.ListReservations)
	router.POST("/reservations", reservationCtrl.CreateReservation)
	router.GET("/reservations/:reservation_id", reservationCtrl.GetReservation)
	router.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	router.PUT("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)

	tableCtrl := controllers.NewTableController(ts, hub)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables/:table_id", tableCtrl.GetTableByID)
	router.PUT("/tables/:table_id/seat", tableCtrl.SeatReservation)
	router.DELETE("/tables/:table_id/seat", tableCtrl.FinishTable)

	router.GET("/floor/ws", controllers.NewFloorController(hub, "*").FloorSocket)
	return router
}

// setupSQLiteRouter wires the real services over an in-memory database.
func setupSQLiteRouter(t *testing.T) (*gin.Engine, *floor.Hub) {
	t.Helper()
	store := database.NewStore(dbtest.Open(t))
	schedule := config.DefaultRestaurant()
	schedule.Location = time.UTC
	v := services.NewValidator(schedule, func() time.Time { return fixedNow })

	hub := floor.NewHub()
	return setupRouter(services.NewReservationWorkflow(store, v), services.NewFloorService(store, v), hub), hub
}

func doJSON(t *testing.T, router http.Handler, method, url string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func wrap(data interface{}) map[string]interface{} {
	return map[string]interface{}{"data": data}
}

func adaLovelace() map[string]interface{} {
	return map[string]interface{}{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"mobile_number":    "555-0100",
		"reservation_date": "2030-06-10",
		"reservation_time": "18:30",
		"people":           2,
	}
}
