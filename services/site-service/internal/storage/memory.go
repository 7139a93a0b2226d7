package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

// Memory keeps every collection in process memory. Each collection has its
// own lock, so concurrent requests may read and create freely. Nothing
// survives a restart.
type Memory struct {
	now   func() time.Time
	newID func() string

	providers    *collection[model.Provider]
	appointments *collection[model.Appointment]
	contacts     *collection[model.Contact]
	testimonials *collection[model.Testimonial]
}

var _ Backend = (*Memory)(nil)

// NewMemory returns a memory store holding the sample providers and
// testimonials.
func NewMemory() *Memory {
	m := newMemory()
	// Memory creates cannot fail.
	_ = Seed(context.Background(), m)
	return m
}

func newMemory() *Memory {
	return &Memory{
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		providers:    newCollection[model.Provider](),
		appointments: newCollection[model.Appointment](),
		contacts:     newCollection[model.Contact](),
		testimonials: newCollection[model.Testimonial](),
	}
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close() error               { return nil }

func (m *Memory) ListProviders(context.Context) ([]model.Provider, error) {
	return m.providers.all(), nil
}

func (m *Memory) GetProvider(_ context.Context, id string) (model.Provider, bool, error) {
	p, ok := m.providers.get(id)
	return p, ok, nil
}

func (m *Memory) CreateProvider(_ context.Context, in model.ProviderInput) (model.Provider, error) {
	p := model.NewProvider(m.newID(), in)
	m.providers.insert(p.ID, p)
	return p, nil
}

func (m *Memory) ListAppointments(context.Context) ([]model.Appointment, error) {
	return m.appointments.all(), nil
}

func (m *Memory) GetAppointment(_ context.Context, id string) (model.Appointment, bool, error) {
	a, ok := m.appointments.get(id)
	return a, ok, nil
}

func (m *Memory) CreateAppointment(_ context.Context, in model.AppointmentInput) (model.Appointment, error) {
	a := model.NewAppointment(m.newID(), in, m.now())
	m.appointments.insert(a.ID, a)
	return a, nil
}

func (m *Memory) ListAppointmentsByProvider(_ context.Context, providerID string) ([]model.Appointment, error) {
	return m.appointments.filter(func(a model.Appointment) bool {
		return a.ProviderID == providerID
	}), nil
}

func (m *Memory) ListContacts(context.Context) ([]model.Contact, error) {
	return m.contacts.all(), nil
}

func (m *Memory) GetContact(_ context.Context, id string) (model.Contact, bool, error) {
	c, ok := m.contacts.get(id)
	return c, ok, nil
}

func (m *Memory) CreateContact(_ context.Context, in model.ContactInput) (model.Contact, error) {
	c := model.NewContact(m.newID(), in, m.now())
	m.contacts.insert(c.ID, c)
	return c, nil
}

func (m *Memory) ListTestimonials(context.Context) ([]model.Testimonial, error) {
	return m.testimonials.all(), nil
}

func (m *Memory) GetTestimonial(_ context.Context, id string) (model.Testimonial, bool, error) {
	t, ok := m.testimonials.get(id)
	return t, ok, nil
}

func (m *Memory) CreateTestimonial(_ context.Context, in model.TestimonialInput) (model.Testimonial, error) {
	t := model.NewTestimonial(m.newID(), in)
	m.testimonials.insert(t.ID, t)
	return t, nil
}

// collection maps generated ids to owned records and remembers insertion
// order for listing.
type collection[T any] struct {
	mu    sync.RWMutex
	byID  map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{byID: map[string]T{}}
}

func (c *collection[T]) insert(id string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = v
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byID[id]
	return v, ok
}

func (c *collection[T]) all() []T {
	return c.filter(nil)
}

// filter returns matching records in insertion order; never nil.
func (c *collection[T]) filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := c.byID[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}
