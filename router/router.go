package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

const tokenTTL = 12 * time.Hour

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if cfg.RateLimit > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimit, time.Second).RateLimit())
	}

	store := database.NewStore(db)
	validator := services.NewValidator(cfg.Restaurant, time.Now)
	hub := floor.NewHub()

	reservationCtrl := controllers.NewReservationController(services.NewReservationWorkflow(store, validator), hub)
	tableCtrl := controllers.NewTableController(services.NewFloorService(store, validator), hub)
	floorCtrl := controllers.NewFloorController(hub, cfg.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Writes are open unless staff auth is switched on.
	writes := r.Group("/")
	managers := r.Group("/")
	sockets := r.Group("/")
	if cfg.AuthEnabled {
		tokens := utils.NewTokenIssuer(cfg.JWTSecret, tokenTTL)
		userCtrl := controllers.NewUserController(db, tokens)

		public := r.Group("/")
		public.Use(middlewares.NewStrictRateLimiter(time.Minute, 5).RateLimit())
		{
			public.POST("/register", userCtrl.Register)
			public.POST("/login", userCtrl.Login)
		}

		writes.Use(middlewares.AuthMiddleware(tokens))
		managers.Use(middlewares.AuthMiddleware(tokens), middlewares.RequireRole(models.RoleManager))
		sockets.Use(middlewares.WebSocketAuthMiddleware(tokens))
	}

	// RESERVATIONS
	r.GET("/reservations", reservationCtrl.ListReservations)
	r.GET("/reservations/:reservation_id", reservationCtrl.GetReservation)
	writes.POST("/reservations", reservationCtrl.CreateReservation)
	writes.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	writes.PUT("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)

	// TABLES
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	managers.POST("/tables", tableCtrl.CreateTable)
	writes.PUT("/tables/:table_id/seat", tableCtrl.SeatReservation)
	writes.DELETE("/tables/:table_id/seat", tableCtrl.FinishTable)

	// Live floor feed
	sockets.GET("/floor/ws", floorCtrl.FloorSocket)

	return r
}
