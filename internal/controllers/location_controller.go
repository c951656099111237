package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
	"entregas_tracker/internal/services"
)

type LocationService interface {
	Record(ctx context.Context, in services.PingInput) (*models.LocationPing, error)
	History(ctx context.Context, driverID uint, limit int) ([]models.LocationPing, error)
	Latest(ctx context.Context, driverID uint) (*models.LocationPing, error)
	RecentAll(ctx context.Context, limit int) ([]models.DriverPing, error)
	AssignedView(ctx context.Context, caller models.Identity) ([]models.DriverPing, error)
	Track(ctx context.Context, driverID uint, limit int) (json.RawMessage, error)
}

type LocationController struct {
	svc LocationService
}

func NewLocationController(svc LocationService) *LocationController {
	return &LocationController{svc: svc}
}

// RecordLocation handles POST /locations. Drivers may only report for
// themselves; an omitted transportista_id means the caller.
func (h *LocationController) RecordLocation(c *gin.Context) {
	var in services.PingInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	who := caller(c)
	if who.Role == models.RoleDriver {
		if in.DriverID == 0 {
			in.DriverID = who.ID
		}
		if in.DriverID != who.ID {
			respondError(c, apperr.Forbidden("drivers can only report their own location"))
			return
		}
	}

	p, err := h.svc.Record(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "timestamp": p.RecordedAt})
}

func (h *LocationController) History(c *gin.Context) {
	driverID, err := paramID(c, "driverId")
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	pings, err := h.svc.History(c.Request.Context(), driverID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if pings == nil {
		pings = []models.LocationPing{}
	}
	c.JSON(http.StatusOK, pings)
}

// Track handles GET /locations/track/:driverId as a GeoJSON Feature.
func (h *LocationController) Track(c *gin.Context) {
	driverID, err := paramID(c, "driverId")
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	feature, err := h.svc.Track(c.Request.Context(), driverID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", feature)
}

func (h *LocationController) Latest(c *gin.Context) {
	driverID, err := paramID(c, "driverId")
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.svc.Latest(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LocationController) Recent(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	pings, err := h.svc.RecentAll(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if pings == nil {
		pings = []models.DriverPing{}
	}
	c.JSON(http.StatusOK, pings)
}

// Assigned handles GET /locations/assigned, scoped by the bearer identity.
func (h *LocationController) Assigned(c *gin.Context) {
	pings, err := h.svc.AssignedView(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pings)
}
