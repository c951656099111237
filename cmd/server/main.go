package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/config"
	"entregas_tracker/internal/controllers"
	"entregas_tracker/internal/logger"
	"entregas_tracker/internal/metrics"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/repository"
	"entregas_tracker/internal/routes"
	"entregas_tracker/internal/services"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	// Initialize structured logging to file
	logger.Setup(settings.Log.File, settings.Log.Level, settings.Log.Stdout)
	if settings.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db, err := config.InitDB(settings.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Database initialisation failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	metrics.Register()
	middleware.Configure(settings.JWTSecret, settings.JWTTTL)

	limits := services.Limits{
		OnlineWindow:      settings.OnlineWindow,
		HistoryLimit:      settings.HistoryLimit,
		RecentLimit:       settings.RecentLimit,
		VerificationLimit: settings.VerificationLimit,
		MaxPageSize:       settings.MaxPageSize,
	}

	customerRepo := repository.NewCustomerRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	faceRepo := repository.NewFaceRepository(db)
	userRepo := repository.NewUserRepository(db)
	routeRepo := repository.NewRouteRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := controllers.NewLocationHub()
	go hub.Run(ctx)

	lifecycle := services.NewLifecycleService(customerRepo, userRepo)
	locations := services.NewLocationService(locationRepo, customerRepo, hub, limits)
	photos := services.NewPhotoService(settings.PhotosDir, customerRepo)
	faces := services.NewFaceService(faceRepo, customerRepo, photos, limits)
	users := services.NewUserService(userRepo)

	if err := users.EnsureAdmin(ctx, services.Credentials{
		Email:    settings.AdminEmail,
		Password: settings.AdminPassword,
	}); err != nil {
		logrus.WithError(err).Fatal("Could not create bootstrap admin")
	}

	r := routes.SetupRouter(routes.Handlers{
		Auth:      controllers.NewAuthController(users),
		Customers: controllers.NewCustomerController(lifecycle),
		Locations: controllers.NewLocationController(locations),
		Faces:     controllers.NewFaceController(faces, settings.MaxUploadBytes),
		Photos:    controllers.NewPhotoController(photos, settings.MaxUploadBytes),
		Drivers:   controllers.NewDriverController(users),
		Routes:    controllers.NewRouteController(routeRepo),
		WebSocket: controllers.NewWebSocketController(hub, locations),
	})

	server := &http.Server{
		Addr:         ":" + settings.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.WithField("port", settings.Port).Info("Server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
		return
	}
	logrus.Info("Server shutdown complete")
}
