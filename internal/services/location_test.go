package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newLocationService(store *fakeLocations, orders OrderLookup, pub PingPublisher) (*LocationService, *time.Time) {
	svc := NewLocationService(store, orders, pub, DefaultLimits())
	clock := t0
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func record(t *testing.T, svc *LocationService, driverID uint, lat, lon float64) *models.LocationPing {
	t.Helper()
	p, err := svc.Record(context.Background(), PingInput{
		DriverID:  driverID,
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lon),
	})
	require.NoError(t, err)
	return p
}

func TestLatestAndHistoryReturnNewestPing(t *testing.T) {
	store := newFakeLocations()
	svc, clock := newLocationService(store, newFakeCustomers(), nil)

	record(t, svc, 7, 1, 1)
	*clock = t0.Add(10 * time.Minute)
	second := record(t, svc, 7, 2, 2)

	latest, err := svc.Latest(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 2.0, latest.Latitude)
	assert.Equal(t, t0.Add(10*time.Minute), latest.RecordedAt)

	hist, err := svc.History(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, second.ID, hist[0].ID)
}

func TestLatestWithoutPingsIsNotFound(t *testing.T) {
	svc, _ := newLocationService(newFakeLocations(), newFakeCustomers(), nil)
	_, err := svc.Latest(context.Background(), 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newLocationService(newFakeLocations(), newFakeCustomers(), nil)
	cases := map[string]PingInput{
		"missing driver":    {Latitude: floatPtr(1), Longitude: floatPtr(1)},
		"missing latitude":  {DriverID: 1, Longitude: floatPtr(1)},
		"missing longitude": {DriverID: 1, Latitude: floatPtr(1)},
		"latitude range":    {DriverID: 1, Latitude: floatPtr(91), Longitude: floatPtr(1)},
		"longitude range":   {DriverID: 1, Latitude: floatPtr(1), Longitude: floatPtr(-181)},
		"negative speed":    {DriverID: 1, Latitude: floatPtr(1), Longitude: floatPtr(1), Speed: -3},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), in)
			assert.True(t, apperr.Is(err, apperr.KindInvalidInput), "got %v", err)
		})
	}
}

func TestRecordAcceptsZeroCoordinatesAndPublishes(t *testing.T) {
	store := newFakeLocations()
	pub := &fakePublisher{}
	svc, _ := newLocationService(store, newFakeCustomers(), pub)

	p := record(t, svc, 3, 0, 0)
	assert.NotZero(t, p.ID)
	require.Len(t, pub.got, 1)
	assert.Equal(t, p.ID, pub.got[0].ID)

	// Every call is a new row.
	record(t, svc, 3, 0, 0)
	assert.Len(t, store.pings, 2)
}

func TestHistoryLimitIsClamped(t *testing.T) {
	store := newFakeLocations()
	svc, _ := newLocationService(store, newFakeCustomers(), nil)
	svc.limits.MaxPageSize = 2
	for i := 0; i < 4; i++ {
		record(t, svc, 1, 1, 1)
	}
	hist, err := svc.History(context.Background(), 1, 1000)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestRecentAllIsNotCollapsed(t *testing.T) {
	store := newFakeLocations()
	store.emails[1] = "ana@example.com"
	svc, _ := newLocationService(store, newFakeCustomers(), nil)
	record(t, svc, 1, 1, 1)
	record(t, svc, 1, 1, 2)

	recent, err := svc.RecentAll(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "ana@example.com", recent[0].DriverEmail)
}

func TestAssignedViewCustomerWithoutDriverIsEmpty(t *testing.T) {
	store := newFakeLocations()
	customers := newFakeCustomers(models.Customer{ID: 3, OwnerUserID: uintPtr(3)})
	svc, _ := newLocationService(store, customers, nil)
	record(t, svc, 7, 1, 1)

	out, err := svc.AssignedView(context.Background(), models.Identity{ID: 3, Role: models.RoleCustomer})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestAssignedViewCustomerSeesOnlyOwnOpenAssignments(t *testing.T) {
	store := newFakeLocations()
	customers := newFakeCustomers(
		models.Customer{ID: 1, OwnerUserID: uintPtr(3), DriverID: uintPtr(7)},
		models.Customer{ID: 2, OwnerUserID: uintPtr(3), DriverID: uintPtr(8), Status: models.StatusDelivered},
		models.Customer{ID: 4, OwnerUserID: uintPtr(99), DriverID: uintPtr(9)},
	)
	svc, clock := newLocationService(store, customers, nil)
	record(t, svc, 7, 1, 1)
	record(t, svc, 8, 2, 2)
	record(t, svc, 9, 3, 3)
	*clock = t0.Add(5 * time.Minute)
	newest := record(t, svc, 7, 1.5, 1.5)

	out, err := svc.AssignedView(context.Background(), models.Identity{ID: 3, Role: models.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint(7), out[0].DriverID)
	assert.Equal(t, newest.ID, out[0].ID)
}

func TestAssignedViewAdminOmitsOfflineDrivers(t *testing.T) {
	store := newFakeLocations()
	svc, clock := newLocationService(store, newFakeCustomers(), nil)
	record(t, svc, 9, 1, 1)
	*clock = t0.Add(90 * time.Minute)
	record(t, svc, 7, 2, 2)
	*clock = t0.Add(100 * time.Minute)
	record(t, svc, 8, 3, 3)

	out, err := svc.AssignedView(context.Background(), models.Identity{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(8), out[0].DriverID, "newest first")
	assert.Equal(t, uint(7), out[1].DriverID)
}

func TestAssignedViewForbiddenForDrivers(t *testing.T) {
	svc, _ := newLocationService(newFakeLocations(), newFakeCustomers(), nil)
	_, err := svc.AssignedView(context.Background(), models.Identity{ID: 7, Role: models.RoleDriver})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}
