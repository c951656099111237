package services

import (
	"context"
	"math"
	"strings"
	"time"

	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/metrics"
	"entregas_tracker/internal/models"
)

// LocationStore is the ping log as seen by LocationService.
type LocationStore interface {
	Create(ctx context.Context, p *models.LocationPing) error
	History(ctx context.Context, driverID uint, limit int) ([]models.LocationPing, error)
	Recent(ctx context.Context, limit int) ([]models.DriverPing, error)
	PingedDriverIDs(ctx context.Context) ([]uint, error)
	Since(ctx context.Context, driverIDs []uint, since time.Time) ([]models.DriverPing, error)
}

// OrderLookup finds a customer login's undelivered orders.
type OrderLookup interface {
	OpenOrdersForOwner(ctx context.Context, ownerID uint) ([]models.Customer, error)
}

// PingPublisher receives every recorded ping (the live feed).
type PingPublisher interface {
	Publish(p models.LocationPing)
}

// PingInput is a driver's location report. Latitude and Longitude are
// pointers so that an explicit 0 is distinguishable from a missing value.
type PingInput struct {
	DriverID  uint     `json:"transportista_id"`
	Latitude  *float64 `json:"latitud"`
	Longitude *float64 `json:"longitud"`
	Speed     float64  `json:"velocidad"`
	Heading   string   `json:"direccion"`
}

type LocationService struct {
	store     LocationStore
	orders    OrderLookup
	publisher PingPublisher
	limits    Limits
	now       func() time.Time
}

func NewLocationService(store LocationStore, orders OrderLookup, publisher PingPublisher, limits Limits) *LocationService {
	return &LocationService{
		store:     store,
		orders:    orders,
		publisher: publisher,
		limits:    limits,
		now:       time.Now,
	}
}

// Record appends one ping stamped with the server clock. Every call
// produces a new row.
func (s *LocationService) Record(ctx context.Context, in PingInput) (*models.LocationPing, error) {
	if err := validatePing(in); err != nil {
		return nil, err
	}
	p := &models.LocationPing{
		DriverID:   in.DriverID,
		Latitude:   *in.Latitude,
		Longitude:  *in.Longitude,
		Speed:      in.Speed,
		Heading:    strings.TrimSpace(in.Heading),
		RecordedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	metrics.PingsRecordedTotal.Inc()
	if s.publisher != nil {
		s.publisher.Publish(*p)
	}
	logrus.WithFields(logrus.Fields{
		"driver_id": p.DriverID,
		"ping_id":   p.ID,
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
	}).Debug("Driver location recorded")
	return p, nil
}

func validatePing(in PingInput) error {
	if in.DriverID == 0 || in.Latitude == nil || in.Longitude == nil {
		return apperr.InvalidInput("transportista_id, latitud and longitud are required")
	}
	lat, lon := *in.Latitude, *in.Longitude
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return apperr.InvalidInput("latitud must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return apperr.InvalidInput("longitud must be between -180 and 180")
	}
	if in.Speed < 0 || math.IsNaN(in.Speed) {
		return apperr.InvalidInput("velocidad must not be negative")
	}
	return nil
}

// History returns up to limit of the driver's pings, newest first.
func (s *LocationService) History(ctx context.Context, driverID uint, limit int) ([]models.LocationPing, error) {
	if driverID == 0 {
		return nil, apperr.InvalidInput("transportista_id is required")
	}
	return s.store.History(ctx, driverID, s.limits.page(limit, s.limits.HistoryLimit))
}

// Latest returns the driver's most recent ping.
func (s *LocationService) Latest(ctx context.Context, driverID uint) (*models.LocationPing, error) {
	pings, err := s.History(ctx, driverID, 1)
	if err != nil {
		return nil, err
	}
	if len(pings) == 0 {
		return nil, apperr.NotFound("no location found for this driver")
	}
	return &pings[0], nil
}

// RecentAll is the admin view: newest pings across all drivers, not
// collapsed per driver.
func (s *LocationService) RecentAll(ctx context.Context, limit int) ([]models.DriverPing, error) {
	return s.store.Recent(ctx, s.limits.page(limit, s.limits.RecentLimit))
}

// AssignedView returns one current position per driver visible to caller.
func (s *LocationService) AssignedView(ctx context.Context, caller models.Identity) ([]models.DriverPing, error) {
	var (
		pinged []uint
		orders []models.Customer
		err    error
	)
	switch caller.Role {
	case models.RoleAdmin:
		pinged, err = s.store.PingedDriverIDs(ctx)
	case models.RoleCustomer:
		orders, err = s.orders.OpenOrdersForOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, err
	}

	candidates, err := VisibleDrivers(caller, pinged, orders)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []models.DriverPing{}, nil
	}

	since := s.now().UTC().Add(-s.limits.OnlineWindow)
	pings, err := s.store.Since(ctx, candidates, since)
	if err != nil {
		return nil, err
	}
	return LatestPerDriver(pings, candidates, since), nil
}
