package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
)

// WebSocketRoutes mounts the live feed. Authentication happens in the
// handler from ?token= since browsers cannot set headers on upgrade.
func WebSocketRoutes(r *gin.Engine, h *controllers.WebSocketController) {
	ws := r.Group("/ws")
	{
		ws.GET("/locations", h.HandleLocationWebSocket)
	}
}
