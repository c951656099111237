package controllers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

func liveFeedServer(t *testing.T, recorder PingRecorder) (*LocationHub, string) {
	t.Helper()
	middleware.Configure("ws-secret", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewLocationHub()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/locations", NewWebSocketController(hub, recorder).HandleLocationWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/locations"
}

func dial(t *testing.T, url string, id models.Identity) *websocket.Conn {
	t.Helper()
	token, err := middleware.GenerateToken(id)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAdminReceivesPublishedPings(t *testing.T) {
	hub, url := liveFeedServer(t, &stubLocations{})
	conn := dial(t, url, models.Identity{ID: 1, Role: models.RoleAdmin})

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Publish(models.LocationPing{ID: 9, DriverID: 7, Latitude: 1.5, Longitude: 2.5})

	var got models.LocationPing
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint(9), got.ID)
	assert.Equal(t, 1.5, got.Latitude)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestDriverPushUsesTokenIdentity(t *testing.T) {
	rec := &stubLocations{}
	_, url := liveFeedServer(t, rec)
	conn := dial(t, url, models.Identity{ID: 7, Role: models.RoleDriver})

	require.NoError(t, conn.WriteJSON(gin.H{"transportista_id": 99, "latitud": 1, "longitud": 2}))
	var ack map[string]interface{}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ack))

	assert.Equal(t, "saved", ack["status"])
	assert.Equal(t, uint(7), rec.recorded.DriverID)
}

func TestLiveFeedRejectsCustomersAndBadTokens(t *testing.T) {
	_, url := liveFeedServer(t, &stubLocations{})

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=junk", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)

	token, err := middleware.GenerateToken(models.Identity{ID: 3, Role: models.RoleCustomer})
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
