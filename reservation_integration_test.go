package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/database/dbtest"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func testConfig(authEnabled bool) *config.Config {
	restaurant := config.DefaultRestaurant()
	restaurant.Location = time.UTC
	return &config.Config{
		Port:        "0",
		GinMode:     gin.TestMode,
		CORSOrigin:  "*",
		Restaurant:  restaurant,
		AuthEnabled: authEnabled,
		JWTSecret:   "integration-secret",
	}
}

// next returns the first date strictly after today that falls on day.
func next(day time.Weekday) string {
	d := time.Now().In(time.UTC).AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(models.DateLayout)
}

func call(t *testing.T, r http.Handler, method, url, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func adaLovelace(date string) map[string]interface{} {
	return map[string]interface{}{"data": map[string]interface{}{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"mobile_number":    "555-0100",
		"reservation_date": date,
		"reservation_time": "18:30",
		"people":           2,
	}}
}

func status(s string) map[string]interface{} {
	return map[string]interface{}{"data": map[string]string{"status": s}}
}

// TestReservationLifecycle books Ada Lovelace for next Monday, seats her,
// and checks that she cannot go back to booked.
func TestReservationLifecycle(t *testing.T) {
	r := router.SetupRouter(dbtest.Open(t), testConfig(false))

	code, env := call(t, r, http.MethodPost, "/reservations", "", adaLovelace(next(time.Monday)))
	require.Equal(t, http.StatusCreated, code, env.Error)
	var created models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.StatusBooked, created.Status)

	url := "/reservations/" + created.ID + "/status"
	code, env = call(t, r, http.MethodPut, url, "", status("seated"))
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = call(t, r, http.MethodPut, url, "", status("booked"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Error)
}

func TestClosedDayIsRejected(t *testing.T) {
	r := router.SetupRouter(dbtest.Open(t), testConfig(false))

	code, env := call(t, r, http.MethodPost, "/reservations", "", adaLovelace(next(time.Tuesday)))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "The restaurant is closed on Tuesdays.")
}

func TestSeatingOnTheFloor(t *testing.T) {
	r := router.SetupRouter(dbtest.Open(t), testConfig(false))

	code, env := call(t, r, http.MethodPost, "/tables", "", map[string]interface{}{
		"data": map[string]interface{}{"table_name": "Patio 2", "capacity": 4},
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var table models.Table
	require.NoError(t, json.Unmarshal(env.Data, &table))

	code, env = call(t, r, http.MethodPost, "/reservations", "", adaLovelace(next(time.Wednesday)))
	require.Equal(t, http.StatusCreated, code, env.Error)
	var reservation models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &reservation))

	code, env = call(t, r, http.MethodPut, "/tables/"+table.ID+"/seat", "", map[string]interface{}{
		"data": map[string]string{"reservation_id": reservation.ID},
	})
	require.Equal(t, http.StatusOK, code, env.Error)

	// Cancelling a seated party frees the table.
	code, env = call(t, r, http.MethodPut, "/reservations/"+reservation.ID+"/status", "", status("cancelled"))
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = call(t, r, http.MethodGet, "/tables/"+table.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &table))
	assert.False(t, table.Occupied)
	assert.Nil(t, table.ReservationID)
}

func TestStaffAuth(t *testing.T) {
	r := router.SetupRouter(dbtest.Open(t), testConfig(true))

	register := func(name, email string) int {
		code, _ := call(t, r, http.MethodPost, "/register", "", map[string]interface{}{
			"data": map[string]string{"name": name, "email": email, "password": "correct-horse"},
		})
		return code
	}
	login := func(email string) string {
		code, env := call(t, r, http.MethodPost, "/login", "", map[string]interface{}{
			"data": map[string]string{"email": email, "password": "correct-horse"},
		})
		require.Equal(t, http.StatusOK, code, env.Error)
		var out struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &out))
		return out.Token
	}

	require.Equal(t, http.StatusCreated, register("Maria", "maria@example.com"))
	require.Equal(t, http.StatusCreated, register("Hank", "hank@example.com"))
	managerToken := login("maria@example.com")
	hostToken := login("hank@example.com")

	code, _ := call(t, r, http.MethodGet, "/reservations", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodPost, "/reservations", "", adaLovelace(next(time.Monday)))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, r, http.MethodPost, "/reservations", hostToken, adaLovelace(next(time.Monday)))
	assert.Equal(t, http.StatusCreated, code, env.Error)

	table := map[string]interface{}{"data": map[string]interface{}{"table_name": "Bar #1", "capacity": 2}}
	code, _ = call(t, r, http.MethodPost, "/tables", hostToken, table)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = call(t, r, http.MethodPost, "/tables", managerToken, table)
	assert.Equal(t, http.StatusCreated, code, env.Error)
}

func TestPing(t *testing.T) {
	r := router.SetupRouter(dbtest.Open(t), testConfig(false))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
