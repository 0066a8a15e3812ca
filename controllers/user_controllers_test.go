package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/database/dbtest"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

func setupUserRouter(t *testing.T) (*gin.Engine, *gorm.DB, *utils.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)

	router := gin.New()
	userCtrl := controllers.NewUserController(db, tokens)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router, db, tokens
}

func TestRegister_FirstAccountIsManager(t *testing.T) {
	router, db, _ := setupUserRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/register", wrap(map[string]string{
		"name": "Maria", "email": "Maria@Example.com", "password": "correct-horse",
	}))
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	assert.NotContains(t, string(env.Data), "correct-horse")

	w, env = doJSON(t, router, http.MethodPost, "/register", wrap(map[string]string{
		"name": "Hank", "email": "hank@example.com", "password": "correct-horse",
	}))
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	var users []models.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "maria@example.com", users[0].Email)
	assert.Equal(t, models.RoleManager, users[0].Role)
	assert.Equal(t, models.RoleHost, users[1].Role)
	assert.NotEqual(t, "correct-horse", users[0].Password)
}

func TestRegister_Rejections(t *testing.T) {
	router, _, _ := setupUserRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/register", wrap(map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "short",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/register", wrap(map[string]string{
		"name": "Maria", "email": "not-an-email", "password": "correct-horse",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := wrap(map[string]string{"name": "Maria", "email": "maria@example.com", "password": "correct-horse"})
	w, _ = doJSON(t, router, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)
	w, env := doJSON(t, router, http.MethodPost, "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is already registered", env.Error)
}

func TestLogin(t *testing.T) {
	router, _, tokens := setupUserRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/register", wrap(map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "correct-horse",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, router, http.MethodPost, "/login", wrap(map[string]string{
		"email": "maria@example.com", "password": "wrong-horse",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", env.Error)

	w, env = doJSON(t, router, http.MethodPost, "/login", wrap(map[string]string{
		"email": "nobody@example.com", "password": "correct-horse",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(t, router, http.MethodPost, "/login", wrap(map[string]string{
		"email": "maria@example.com", "password": "correct-horse",
	}))
	require.Equal(t, http.StatusOK, w.Code, env.Error)
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, models.RoleManager, out.Role)

	claims, err := tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, claims.Role)
}
