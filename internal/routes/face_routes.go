package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

func FaceRoutes(r *gin.Engine, h *controllers.FaceController) {
	face := r.Group("/face")
	face.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDriver))
	{
		face.POST("/register", h.RegisterFace)
		face.POST("/verify", h.VerifyFace)
		face.GET("/history/:clienteId", h.History)
		face.GET("/status/:clienteId", h.Status)
		face.GET("/image/:clienteId", h.Image)
	}
}
