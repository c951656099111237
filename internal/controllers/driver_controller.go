package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/models"
	"entregas_tracker/internal/services"
)

type DriverService interface {
	ListDrivers(ctx context.Context) ([]models.User, error)
	CreateDriver(ctx context.Context, in services.Credentials) (*models.User, error)
	DeleteDriver(ctx context.Context, id uint) error
}

type DriverController struct {
	svc DriverService
}

func NewDriverController(svc DriverService) *DriverController {
	return &DriverController{svc: svc}
}

type driverResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func (h *DriverController) ListDrivers(c *gin.Context) {
	drivers, err := h.svc.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]driverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, driverResponse{ID: d.ID, Email: d.Email})
	}
	c.JSON(http.StatusOK, out)
}

func (h *DriverController) CreateDriver(c *gin.Context) {
	var body services.Credentials
	if err := bindJSON(c, &body); err != nil {
		respondError(c, err)
		return
	}
	u, err := h.svc.CreateDriver(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, driverResponse{ID: u.ID, Email: u.Email})
}

// DeleteDriver removes the account, its location history and its
// assignments.
func (h *DriverController) DeleteDriver(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.DeleteDriver(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted"})
}
