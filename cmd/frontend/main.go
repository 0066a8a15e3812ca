// Command frontend serves the host-stand pages on top of the reservations API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/client"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/views"
)

func main() {
	utils.InitLogger()

	cfg, err := config.LoadFrontend()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	api, err := client.New(client.Config{BaseURL: cfg.APIBaseURL, Token: cfg.APIToken})
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to create API client: %v", err)
	}

	var opts []views.Option
	// The floor feed is opened by the browser, which must never see the
	// staff token.
	if cfg.APIToken == "" {
		opts = append(opts, views.WithFloorFeed(cfg.FloorFeedURL()))
	}

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.LoggerMiddleware())
	views.NewServer(api, cfg.Location, opts...).Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Frontend listening on port %s (api=%s)", cfg.Port, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Fatalf("Server forced to shutdown: %v", err)
	}
	utils.InfoLogger.Println("Frontend stopped")
}
