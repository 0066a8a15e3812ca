package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/utils"
)

type FloorController struct {
	Hub      *floor.Hub
	upgrader websocket.Upgrader
}

// NewFloorController accepts websocket handshakes from allowedOrigin, or
// from anywhere when it is "*".
func NewFloorController(hub *floor.Hub, allowedOrigin string) *FloorController {
	return &FloorController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// FloorSocket -> GET /floor/ws, pushes every floor change until the client leaves
func (fc *FloorController) FloorSocket(c *gin.Context) {
	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("floor websocket upgrade: %v", err)
		return
	}

	fc.Hub.Register(ws)
	defer fc.Hub.Unregister(ws)

	// Clients only listen; reading keeps close frames flowing.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
