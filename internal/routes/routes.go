package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/logger"
	"entregas_tracker/internal/middleware"
)

// Handlers groups the controllers mounted by SetupRouter.
type Handlers struct {
	Auth      *controllers.AuthController
	Customers *controllers.CustomerController
	Locations *controllers.LocationController
	Faces     *controllers.FaceController
	Photos    *controllers.PhotoController
	Drivers   *controllers.DriverController
	Routes    *controllers.RouteController
	WebSocket *controllers.WebSocketController
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		ginlog.SetLogger(
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/metrics", "/healthz"}),
			ginlog.WithWriter(logger.Writer()),
		),
		gin.Recovery(),
		middleware.CORS(),
		middleware.Instrument(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	AuthRoutes(r, h.Auth)
	CustomerRoutes(r, h.Customers)
	LocationRoutes(r, h.Locations)
	FaceRoutes(r, h.Faces)
	PhotoRoutes(r, h.Photos)
	DriverRoutes(r, h.Drivers)
	WebSocketRoutes(r, h.WebSocket)

	r.GET("/routes", middleware.RequireAuth(), h.Routes.ListRoutes)

	return r
}
