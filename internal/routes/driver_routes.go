package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

func DriverRoutes(r *gin.Engine, h *controllers.DriverController) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.RequireAuth())
	{
		drivers.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleDriver), h.ListDrivers)
		drivers.POST("", middleware.RequireRole(models.RoleAdmin), h.CreateDriver)
		drivers.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), h.DeleteDriver)
	}
}
