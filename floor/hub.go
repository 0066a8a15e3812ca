package floor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

// Event types
const (
	EventReservationCreate = "reservation_create"
	EventReservationUpdate = "reservation_update"
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	// Time allowed to write one message to a client.
	writeWait = 10 * time.Second
	// Pings keep idle connections alive and expose dead peers.
	pingPeriod = 50 * time.Second
	// Messages queued per client before it is dropped as too slow.
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the open floor connections (host stand, dashboards) and fans
// every floor change out to them. Each client has its own queue and writer
// goroutine, so a client that stops reading never holds up Broadcast.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds conn and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()
	go h.writePump(c)
}

// Unregister drops the connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.drop(c)
	}
}

// drop must be called with the mutex held.
func (h *Hub) drop(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
	c.conn.Close()
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.Errorf("send floor message: %v", err)
				h.Unregister(c.conn)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unregister(c.conn)
				return
			}
		}
	}
}

func (h *Hub) ReservationCreated(r *models.Reservation) {
	h.Broadcast(Message{Event: EventReservationCreate, Data: r})
}

func (h *Hub) ReservationUpdated(r *models.Reservation) {
	h.Broadcast(Message{Event: EventReservationUpdate, Data: r})
}

func (h *Hub) TableCreated(t *models.Table) {
	h.Broadcast(Message{Event: EventTableCreate, Data: t})
}

// TableUpdated announces a seat or finish. reservation may be nil.
func (h *Hub) TableUpdated(t *models.Table, reservation *models.Reservation) {
	h.Broadcast(Message{
		Event: EventTableUpdate,
		Data: map[string]interface{}{
			"table":       t,
			"reservation": reservation,
		},
	})
}

// Broadcast queues msg for every client without waiting on any of them. A
// client whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithField("event", msg.Event).Errorf("marshal floor message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("broadcasting floor message")

	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.WithField("event", msg.Event).Error("floor client too slow, dropping it")
			h.drop(c)
		}
	}
}
