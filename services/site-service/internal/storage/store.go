// Package storage holds the site's record collections behind one contract,
// Store, with an in-memory backing and two SQL backings (Postgres, SQLite).
//
// A missing record is not an error: Get* methods report it through their
// found result. Errors only come from the backing itself.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/md-rashed-zaman/ambersite/libs/db"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

type Store interface {
	ListProviders(ctx context.Context) ([]model.Provider, error)
	GetProvider(ctx context.Context, id string) (model.Provider, bool, error)
	CreateProvider(ctx context.Context, in model.ProviderInput) (model.Provider, error)

	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (model.Appointment, bool, error)
	CreateAppointment(ctx context.Context, in model.AppointmentInput) (model.Appointment, error)
	ListAppointmentsByProvider(ctx context.Context, providerID string) ([]model.Appointment, error)

	ListContacts(ctx context.Context) ([]model.Contact, error)
	GetContact(ctx context.Context, id string) (model.Contact, bool, error)
	CreateContact(ctx context.Context, in model.ContactInput) (model.Contact, error)

	ListTestimonials(ctx context.Context) ([]model.Testimonial, error)
	GetTestimonial(ctx context.Context, id string) (model.Testimonial, bool, error)
	CreateTestimonial(ctx context.Context, in model.TestimonialInput) (model.Testimonial, error)
}

// Backend is a Store with a lifecycle owned by the process entry point.
type Backend interface {
	Store
	Ping(ctx context.Context) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown store driver")

type Options struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	// Seed inserts the sample rows into empty SQL backings. The memory
	// backing always starts seeded.
	Seed   bool
	Logger *slog.Logger
}

// NormalizeDriver canonicalizes a driver name; an empty name means memory.
func NormalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return DriverMemory
	}
	return driver
}

// Open builds the backing named by opts.Driver, applying migrations for SQL
// backings.
func Open(ctx context.Context, opts Options) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch NormalizeDriver(opts.Driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		var pool *db.Pool
		pool, err = db.Open(ctx, opts.DatabaseURL, db.Options{})
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		backend, err = NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
	case DriverSQLite:
		backend, err = OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}

	if opts.Seed {
		seeded, err := SeedIfEmpty(ctx, backend)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("seeding store: %w", err)
		}
		if seeded && opts.Logger != nil {
			opts.Logger.Info("seeded sample data", "driver", opts.Driver)
		}
	}
	return backend, nil
}
