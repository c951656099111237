package routes

import (
	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

func CustomerRoutes(r *gin.Engine, h *controllers.CustomerController) {
	admin := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleDriver)

	customers := r.Group("/customers")
	customers.Use(middleware.RequireAuth())
	{
		customers.GET("", staff, h.ListCustomers)
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", staff, h.GetCustomer)
		customers.PUT("/:id", admin, h.UpdateCustomer)
		customers.DELETE("/:id", admin, h.DeleteCustomer)
		customers.PUT("/:id/estado", staff, h.UpdateStatus)
		customers.PUT("/:id/driver", admin, h.AssignDriver)
	}

	r.GET("/orders", middleware.RequireAuth(), h.ListOrders)
}
