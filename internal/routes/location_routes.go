package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

func LocationRoutes(r *gin.Engine, h *controllers.LocationController) {
	staff := middleware.RequireRole(models.RoleDriver, models.RoleAdmin)

	locations := r.Group("/locations")
	locations.Use(middleware.RequireAuth())
	{
		locations.POST("", staff, h.RecordLocation)
		locations.GET("/history/:driverId", staff, h.History)
		locations.GET("/track/:driverId", staff, h.Track)
		locations.GET("/latest/:driverId", staff, h.Latest)
		locations.GET("/recent", middleware.RequireRole(models.RoleAdmin), h.Recent)
		locations.GET("/assigned", h.Assigned)
	}
}
