package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

func PhotoRoutes(r *gin.Engine, h *controllers.PhotoController) {
	photos := r.Group("/photos")
	photos.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDriver))
	{
		photos.POST("/:clienteId", h.UploadPhoto)
		photos.GET("/:clienteId", h.GetPhoto)
		photos.DELETE("/:clienteId", h.DeletePhoto)
	}
}
