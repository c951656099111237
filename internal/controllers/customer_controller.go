package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/models"
	"entregas_tracker/internal/services"
)

// CustomerService is the lifecycle manager as used by the HTTP layer.
type CustomerService interface {
	Create(ctx context.Context, in services.CustomerInput) (*models.Customer, error)
	List(ctx context.Context) ([]models.CustomerView, error)
	Get(ctx context.Context, id uint) (*models.Customer, error)
	Update(ctx context.Context, id uint, p services.CustomerPatch) (*models.Customer, error)
	UpdateStatus(ctx context.Context, id uint, requested string) (*services.StatusResult, error)
	AssignDriver(ctx context.Context, id uint, driverID *uint) error
	Delete(ctx context.Context, id uint) error
	Orders(ctx context.Context, public bool) ([]services.OrderSummary, error)
}

type CustomerController struct {
	svc CustomerService
}

func NewCustomerController(svc CustomerService) *CustomerController {
	return &CustomerController{svc: svc}
}

// CreateCustomer handles POST /customers. Customer logins always own the
// orders they create.
func (h *CustomerController) CreateCustomer(c *gin.Context) {
	var in services.CustomerInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	if who := caller(c); who.Role == models.RoleCustomer {
		in.OwnerUserID = &who.ID
	}

	customer, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerController) ListCustomers(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CustomerController) GetCustomer(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	customer, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id. Only the editable fields are
// accepted; anything else in the body is a 400.
func (h *CustomerController) UpdateCustomer(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var patch services.CustomerPatch
	if err := bindStrictJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateStatus handles PUT /customers/:id/estado.
func (h *CustomerController) UpdateStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var body struct {
		Status string `json:"estado"`
	}
	if err := bindJSON(c, &body); err != nil {
		respondError(c, err)
		return
	}
	res, err := h.svc.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AssignDriver handles PUT /customers/:id/driver.
func (h *CustomerController) AssignDriver(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var body struct {
		DriverID *uint `json:"transportista_id"`
	}
	if err := bindJSON(c, &body); err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.AssignDriver(c.Request.Context(), id, body.DriverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Driver assigned",
		"id":               id,
		"transportista_id": *body.DriverID,
	})
}

func (h *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// ListOrders handles GET /orders. Only staff see address and contact.
func (h *CustomerController) ListOrders(c *gin.Context) {
	who := caller(c)
	public := who.Role != models.RoleAdmin && who.Role != models.RoleDriver
	orders, err := h.svc.Orders(c.Request.Context(), public)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
