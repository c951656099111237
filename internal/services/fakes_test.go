package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

type fakeLocations struct {
	mu     sync.Mutex
	nextID uint
	pings  []models.LocationPing
	emails map[uint]string
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{emails: map[uint]string{}}
}

func (f *fakeLocations) Create(_ context.Context, p *models.LocationPing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.pings = append(f.pings, *p)
	return nil
}

func (f *fakeLocations) sorted() []models.LocationPing {
	out := append([]models.LocationPing(nil), f.pings...)
	sort.Slice(out, func(i, j int) bool { return out[i].NewerThan(out[j]) })
	return out
}

func (f *fakeLocations) History(_ context.Context, driverID uint, limit int) ([]models.LocationPing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.LocationPing
	for _, p := range f.sorted() {
		if p.DriverID == driverID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLocations) Recent(_ context.Context, limit int) ([]models.DriverPing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DriverPing
	for _, p := range f.sorted() {
		if len(out) == limit {
			break
		}
		out = append(out, models.DriverPing{LocationPing: p, DriverEmail: f.emails[p.DriverID]})
	}
	return out, nil
}

func (f *fakeLocations) PingedDriverIDs(_ context.Context) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, p := range f.pings {
		ids = append(ids, p.DriverID)
	}
	return ids, nil
}

func (f *fakeLocations) Since(_ context.Context, driverIDs []uint, since time.Time) ([]models.DriverPing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[uint]bool{}
	for _, id := range driverIDs {
		want[id] = true
	}
	var out []models.DriverPing
	for _, p := range f.sorted() {
		if want[p.DriverID] && !p.RecordedAt.Before(since) {
			out = append(out, models.DriverPing{LocationPing: p, DriverEmail: f.emails[p.DriverID]})
		}
	}
	return out, nil
}

type fakePublisher struct {
	got []models.LocationPing
}

func (f *fakePublisher) Publish(p models.LocationPing) { f.got = append(f.got, p) }

type fakeCustomers struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Customer
}

func newFakeCustomers(seed ...models.Customer) *fakeCustomers {
	f := &fakeCustomers{rows: map[uint]*models.Customer{}}
	for i := range seed {
		c := seed[i]
		if c.Status == "" {
			c.Status = models.StatusPending
		}
		f.rows[c.ID] = &c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCustomers) List(_ context.Context) ([]models.CustomerView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CustomerView
	for _, c := range f.rows {
		out = append(out, models.CustomerView{Customer: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCustomers) FindByID(_ context.Context, id uint) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("customer not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("customer not found")
	}
	for col, v := range fields {
		switch col {
		case "nombre":
			c.Name = v.(string)
		case "direccion":
			c.Address = v.(string)
		case "contacto":
			c.Contact = v.(string)
		case "pedido":
			c.Order = v.(string)
		case "foto_id":
			if v == nil {
				c.PhotoID = nil
			} else {
				ref := v.(string)
				c.PhotoID = &ref
			}
		case "latitud":
			lat := v.(float64)
			c.Latitude = &lat
		case "longitud":
			lon := v.(float64)
			c.Longitude = &lon
		default:
			panic("unexpected column " + col)
		}
	}
	return nil
}

func (f *fakeCustomers) MarkDelivered(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.Status == models.StatusDelivered {
		return false, nil
	}
	c.Status = models.StatusDelivered
	return true, nil
}

func (f *fakeCustomers) AssignDriver(_ context.Context, id, driverID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("customer not found")
	}
	c.DriverID = &driverID
	return nil
}

func (f *fakeCustomers) SetPhoto(_ context.Context, id uint, ref *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("customer not found")
	}
	c.PhotoID = ref
	return nil
}

func (f *fakeCustomers) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("customer not found")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCustomers) OpenOrdersForOwner(_ context.Context, ownerID uint) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Customer
	for _, c := range f.rows {
		if c.OwnerUserID != nil && *c.OwnerUserID == ownerID && c.Open() {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeFaces struct {
	mu       sync.Mutex
	samples  map[uint]*models.FaceSample
	attempts []models.VerificationAttempt
}

func newFakeFaces() *fakeFaces {
	return &fakeFaces{samples: map[uint]*models.FaceSample{}}
}

func (f *fakeFaces) SampleByCustomer(_ context.Context, customerID uint) (*models.FaceSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.samples[customerID]
	if !ok {
		return nil, apperr.NotFound("face not registered")
	}
	return s, nil
}

func (f *fakeFaces) CreateSample(_ context.Context, s *models.FaceSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.samples[s.CustomerID]; ok {
		return apperr.Conflict("customer already has a registered face")
	}
	s.ID = uint(len(f.samples) + 1)
	s.RegisteredAt = time.Now()
	f.samples[s.CustomerID] = s
	return nil
}

func (f *fakeFaces) CreateAttempt(_ context.Context, a *models.VerificationAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uint(len(f.attempts) + 1)
	f.attempts = append(f.attempts, *a)
	return nil
}

func (f *fakeFaces) Attempts(_ context.Context, customerID uint, limit int) ([]models.VerificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VerificationRecord
	for i := len(f.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		if f.attempts[i].CustomerID == customerID {
			out = append(out, models.VerificationRecord{VerificationAttempt: f.attempts[i]})
		}
	}
	return out, nil
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.User
}

func newFakeUsers(seed ...models.User) *fakeUsers {
	f := &fakeUsers{rows: map[uint]*models.User{}}
	for i := range seed {
		u := seed[i]
		f.rows[u.ID] = &u
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.rows {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Email == u.Email {
			return apperr.Conflict("email already in use")
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) DeleteDriver(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok || u.Role != models.RoleDriver {
		return apperr.NotFound("driver not found")
	}
	delete(f.rows, id)
	return nil
}

func uintPtr(v uint) *uint { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }
func stringPtr(v string) *string { return &v }
