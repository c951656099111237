package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/models"
)

type RouteLister interface {
	List(ctx context.Context) ([]models.Route, error)
}

type RouteController struct {
	routes RouteLister
}

func NewRouteController(routes RouteLister) *RouteController {
	return &RouteController{routes: routes}
}

// ListRoutes handles GET /routes; stops come in delivery order.
func (h *RouteController) ListRoutes(c *gin.Context) {
	routes, err := h.routes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if routes == nil {
		routes = []models.Route{}
	}
	c.JSON(http.StatusOK, routes)
}
