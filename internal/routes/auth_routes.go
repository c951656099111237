package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/middleware"
)

func AuthRoutes(r *gin.Engine, h *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.LoginUser)
		auth.GET("/verify", middleware.RequireAuth(), h.VerifyToken)
	}
}
