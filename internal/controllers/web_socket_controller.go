package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/metrics"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
	"entregas_tracker/internal/services"
)

const (
	writeWait      = 10 * time.Second
	subscriberSend = 32
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// LocationHub fans recorded pings out to connected admin subscribers.
// A subscriber that cannot keep up is disconnected rather than waited on.
type LocationHub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]bool
	broadcast   chan models.LocationPing
}

func NewLocationHub() *LocationHub {
	return &LocationHub{
		subscribers: make(map[*subscriber]bool),
		broadcast:   make(chan models.LocationPing, 100),
	}
}

// Run delivers published pings until ctx is done.
func (h *LocationHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case p := <-h.broadcast:
			msg, err := json.Marshal(p)
			if err != nil {
				logrus.WithError(err).Error("Failed to encode location broadcast")
				continue
			}
			h.mu.Lock()
			for s := range h.subscribers {
				select {
				case s.send <- msg:
				default:
					logrus.WithField("conn_ptr", fmt.Sprintf("%p", s.conn)).Warn("Subscriber too slow, disconnecting")
					h.removeLocked(s)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish implements services.PingPublisher. It never blocks.
func (h *LocationHub) Publish(p models.LocationPing) {
	select {
	case h.broadcast <- p:
	default:
		logrus.Warn("Location broadcast channel full, dropping message")
	}
}

func (h *LocationHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *LocationHub) register(conn *websocket.Conn) *subscriber {
	s := &subscriber{conn: conn, send: make(chan []byte, subscriberSend)}
	h.mu.Lock()
	h.subscribers[s] = true
	h.mu.Unlock()
	metrics.LiveFeedSubscribers.Inc()
	return s
}

func (h *LocationHub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

func (h *LocationHub) removeLocked(s *subscriber) {
	if _, ok := h.subscribers[s]; !ok {
		return
	}
	delete(h.subscribers, s)
	close(s.send)
	metrics.LiveFeedSubscribers.Dec()
}

func (h *LocationHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subscribers {
		h.removeLocked(s)
	}
}

// PingRecorder stores a ping; LocationService satisfies it.
type PingRecorder interface {
	Record(ctx context.Context, in services.PingInput) (*models.LocationPing, error)
}

type WebSocketController struct {
	hub      *LocationHub
	recorder PingRecorder
}

func NewWebSocketController(hub *LocationHub, recorder PingRecorder) *WebSocketController {
	return &WebSocketController{hub: hub, recorder: recorder}
}

// HandleLocationWebSocket serves GET /ws/locations?token=. Drivers push
// pings on the connection; admins receive every recorded ping.
func (h *WebSocketController) HandleLocationWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	claims, err := middleware.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	id := claims.Identity()
	middleware.SetIdentity(c, id)
	if id.Role != models.RoleDriver && id.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "role not allowed on the live feed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	log := logrus.WithFields(logrus.Fields{
		"user_id":  id.ID,
		"role":     id.Role,
		"conn_ptr": fmt.Sprintf("%p", conn),
	})
	log.Info("WebSocket connection established")
	if id.Role == models.RoleDriver {
		h.serveDriver(c.Request.Context(), conn, id.ID, log)
	} else {
		h.serveSubscriber(conn, log)
	}
	log.Info("WebSocket connection closed")
}

// serveDriver reads pings from a driver. The driver id always comes from
// the token, whatever the payload says.
func (h *WebSocketController) serveDriver(ctx context.Context, conn *websocket.Conn, driverID uint, log *logrus.Entry) {
	for {
		var in services.PingInput
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("Driver socket read ended")
			}
			return
		}
		in.DriverID = driverID

		var reply interface{}
		p, err := h.recorder.Record(ctx, in)
		switch {
		case err == nil:
			reply = gin.H{"status": "saved", "id": p.ID, "timestamp": p.RecordedAt}
		case apperr.KindOf(err) == apperr.KindInternal:
			log.WithError(err).Error("Failed to save location")
			reply = gin.H{"error": "Failed to save location"}
		default:
			e, _ := apperr.As(err)
			reply = gin.H{"error": e.Msg}
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("Failed to acknowledge location")
			return
		}
	}
}

// serveSubscriber pumps hub messages to the connection. The read loop only
// detects the client going away.
func (h *WebSocketController) serveSubscriber(conn *websocket.Conn, log *logrus.Entry) {
	s := h.hub.register(conn)
	defer h.hub.unregister(s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			log.Debug("Subscriber sent unexpected message, ignoring")
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-s.send:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.WithError(err).Warn("Failed to send broadcast message")
				return
			}
		}
	}
}
