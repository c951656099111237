package services

import (
	"context"
	"strings"

	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/metrics"
	"entregas_tracker/internal/models"
)

// CustomerStore is the customer table as seen by the lifecycle manager.
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	List(ctx context.Context) ([]models.CustomerView, error)
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	MarkDelivered(ctx context.Context, id uint) (bool, error)
	AssignDriver(ctx context.Context, id, driverID uint) error
	Delete(ctx context.Context, id uint) error
}

// UserLookup resolves user accounts by id.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// CustomerInput is the order intake payload.
type CustomerInput struct {
	Name        string   `json:"nombre"`
	Address     string   `json:"direccion"`
	Contact     string   `json:"contacto"`
	Order       string   `json:"pedido"`
	PhotoID     *string  `json:"fotoId"`
	Latitude    *float64 `json:"latitud"`
	Longitude   *float64 `json:"longitud"`
	OwnerUserID *uint    `json:"usuario_id"`
}

// CustomerPatch is the allow-listed set of editable customer fields.
// Status and driver assignment have their own operations.
type CustomerPatch struct {
	Name      *string  `json:"nombre"`
	Address   *string  `json:"direccion"`
	Contact   *string  `json:"contacto"`
	Order     *string  `json:"pedido"`
	PhotoID   *string  `json:"fotoId"`
	Latitude  *float64 `json:"latitud"`
	Longitude *float64 `json:"longitud"`
}

// StatusResult is the outcome of a delivery status request.
type StatusResult struct {
	ID               uint                  `json:"id"`
	Status           models.DeliveryStatus `json:"estado"`
	AlreadyDelivered bool                  `json:"yaEntregado,omitempty"`
}

// OrderSummary is the order-centric projection of a customer.
type OrderSummary struct {
	ID      uint    `json:"id"`
	Name    string  `json:"nombre"`
	Address string  `json:"direccion,omitempty"`
	Contact string  `json:"contacto,omitempty"`
	Order   string  `json:"pedido"`
	PhotoID *string `json:"fotoId"`
}

type LifecycleService struct {
	customers CustomerStore
	users     UserLookup
}

func NewLifecycleService(customers CustomerStore, users UserLookup) *LifecycleService {
	return &LifecycleService{customers: customers, users: users}
}

func (s *LifecycleService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Order = strings.TrimSpace(in.Order)
	if in.Name == "" || in.Address == "" || in.Contact == "" || in.Order == "" {
		return nil, apperr.InvalidInput("nombre, direccion, contacto and pedido are required")
	}
	if err := validateCoords(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}
	if in.PhotoID != nil && strings.TrimSpace(*in.PhotoID) == "" {
		in.PhotoID = nil
	}

	c := &models.Customer{
		Name:        in.Name,
		Address:     in.Address,
		Contact:     in.Contact,
		Order:       in.Order,
		PhotoID:     in.PhotoID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      models.StatusPending,
		OwnerUserID: in.OwnerUserID,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *LifecycleService) List(ctx context.Context) ([]models.CustomerView, error) {
	out, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.CustomerView{}
	}
	return out, nil
}

func (s *LifecycleService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// Orders projects customers as orders; public callers get no address or contact.
func (s *LifecycleService) Orders(ctx context.Context, public bool) ([]OrderSummary, error) {
	list, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]OrderSummary, 0, len(list))
	for _, c := range list {
		o := OrderSummary{ID: c.ID, Name: c.Name, Order: c.Order, PhotoID: c.PhotoID}
		if !public {
			o.Address, o.Contact = c.Address, c.Contact
		}
		out = append(out, o)
	}
	return out, nil
}

// Update applies an allow-listed patch. Column names come from this
// function, never from the request.
func (s *LifecycleService) Update(ctx context.Context, id uint, p CustomerPatch) (*models.Customer, error) {
	fields := make(map[string]interface{})
	for col, v := range map[string]*string{
		"nombre":    p.Name,
		"direccion": p.Address,
		"contacto":  p.Contact,
		"pedido":    p.Order,
	} {
		if v == nil {
			continue
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return nil, apperr.InvalidInput(col + " must not be empty")
		}
		fields[col] = trimmed
	}
	if p.PhotoID != nil {
		if ref := strings.TrimSpace(*p.PhotoID); ref != "" {
			fields["foto_id"] = ref
		} else {
			fields["foto_id"] = nil
		}
	}
	if p.Latitude != nil || p.Longitude != nil {
		if err := validateCoords(p.Latitude, p.Longitude); err != nil {
			return nil, err
		}
		fields["latitud"] = *p.Latitude
		fields["longitud"] = *p.Longitude
	}
	if len(fields) == 0 {
		return nil, apperr.InvalidInput("no updatable fields supplied")
	}

	if err := s.customers.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.customers.FindByID(ctx, id)
}

// UpdateStatus handles a delivery status request. Only a move to
// delivered is accepted; repeating it on a delivered customer succeeds
// with AlreadyDelivered set and changes nothing.
func (s *LifecycleService) UpdateStatus(ctx context.Context, id uint, requested string) (*StatusResult, error) {
	target, err := models.ParseDeliveryStatus(strings.TrimSpace(requested))
	if err != nil || target != models.StatusDelivered {
		metrics.StatusTransitionsTotal.WithLabelValues("rejected").Inc()
		return nil, apperr.InvalidTransition("status transition not allowed")
	}

	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusDelivered {
		metrics.StatusTransitionsTotal.WithLabelValues("already_delivered").Inc()
		return &StatusResult{ID: id, Status: models.StatusDelivered, AlreadyDelivered: true}, nil
	}
	if !models.CanTransition(c.Status, target) {
		metrics.StatusTransitionsTotal.WithLabelValues("rejected").Inc()
		return nil, apperr.InvalidTransition("status transition not allowed")
	}

	changed, err := s.customers.MarkDelivered(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Another confirmation got there first, or the row vanished.
		if _, err := s.customers.FindByID(ctx, id); err != nil {
			return nil, err
		}
		metrics.StatusTransitionsTotal.WithLabelValues("already_delivered").Inc()
		return &StatusResult{ID: id, Status: models.StatusDelivered, AlreadyDelivered: true}, nil
	}

	metrics.StatusTransitionsTotal.WithLabelValues("delivered").Inc()
	logrus.WithFields(logrus.Fields{"customer_id": id, "from": c.Status}).Info("Order marked as delivered")
	return &StatusResult{ID: id, Status: models.StatusDelivered}, nil
}

// AssignDriver overwrites the customer's driver. Reassignment is always legal.
func (s *LifecycleService) AssignDriver(ctx context.Context, id uint, driverID *uint) error {
	if driverID == nil || *driverID == 0 {
		return apperr.InvalidInput("transportista_id is required")
	}
	u, err := s.users.FindByID(ctx, *driverID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("driver not found")
		}
		return err
	}
	if u.Role != models.RoleDriver {
		return apperr.NotFound("driver not found")
	}
	if err := s.customers.AssignDriver(ctx, id, *driverID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"customer_id": id, "driver_id": *driverID}).Info("Driver assigned to customer")
	return nil
}

func (s *LifecycleService) Delete(ctx context.Context, id uint) error {
	return s.customers.Delete(ctx, id)
}

func validateCoords(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return apperr.InvalidInput("latitud and longitud must be given together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return apperr.InvalidInput("coordinates out of range")
	}
	return nil
}
