package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/ambersite/libs/db"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
	"github.com/pressly/goose/v3"
)

const (
	providerColumns    = `id, name, category, experience, rating, review_count, image_url, verified`
	appointmentColumns = `id, provider_id, client_name, client_email, client_phone, appointment_date, appointment_time, notes, status, created_at`
	contactColumns     = `id, name, email, subject, message, created_at`
	testimonialColumns = `id, client_name, client_role, content, rating, image_url`
)

// Postgres stores records in Postgres through a pgx pool.
type Postgres struct {
	pool *db.Pool
	now  func() time.Time
}

var _ Backend = (*Postgres)(nil)

// NewPostgres applies migrations and returns a store over pool. The store
// takes ownership of the pool.
func NewPostgres(ctx context.Context, pool *db.Pool) (*Postgres, error) {
	sqlDB := pool.SQLDB()
	defer sqlDB.Close()
	if err := migrate(ctx, sqlDB, goose.DialectPostgres, "postgres"); err != nil {
		return nil, err
	}
	return &Postgres{
		pool: pool,
		// timestamptz keeps microseconds.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}, nil
}

func (s *Postgres) Ping(ctx context.Context) error { return db.ReadyCheck(s.pool)(ctx) }

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) ListProviders(ctx context.Context) ([]model.Provider, error) {
	return queryAll[model.Provider](ctx, s.pool, `SELECT `+providerColumns+` FROM providers ORDER BY seq`)
}

func (s *Postgres) GetProvider(ctx context.Context, id string) (model.Provider, bool, error) {
	return queryOne[model.Provider](ctx, s.pool, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id)
}

func (s *Postgres) CreateProvider(ctx context.Context, in model.ProviderInput) (model.Provider, error) {
	p := model.NewProvider(uuid.NewString(), in)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO providers (id, name, category, experience, rating, review_count, image_url, verified)
		VALUES (@id, @name, @category, @experience, @rating, @review_count, @image_url, @verified)
	`, pgx.NamedArgs{
		"id":           p.ID,
		"name":         p.Name,
		"category":     p.Category,
		"experience":   p.Experience,
		"rating":       p.Rating,
		"review_count": p.ReviewCount,
		"image_url":    p.ImageURL,
		"verified":     p.Verified,
	})
	if err != nil {
		return model.Provider{}, fmt.Errorf("insert provider: %w", err)
	}
	return p, nil
}

func (s *Postgres) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	out, err := queryAll[model.Appointment](ctx, s.pool, `SELECT `+appointmentColumns+` FROM appointments ORDER BY seq`)
	return utcAppointments(out), err
}

func (s *Postgres) GetAppointment(ctx context.Context, id string) (model.Appointment, bool, error) {
	a, ok, err := queryOne[model.Appointment](ctx, s.pool, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, ok, err
}

func (s *Postgres) CreateAppointment(ctx context.Context, in model.AppointmentInput) (model.Appointment, error) {
	a := model.NewAppointment(uuid.NewString(), in, s.now())
	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointments
			(id, provider_id, client_name, client_email, client_phone, appointment_date, appointment_time, notes, status, created_at)
		VALUES (@id, @provider_id, @client_name, @client_email, @client_phone, @appointment_date, @appointment_time, @notes, @status, @created_at)
	`, pgx.NamedArgs{
		"id":               a.ID,
		"provider_id":      a.ProviderID,
		"client_name":      a.ClientName,
		"client_email":     a.ClientEmail,
		"client_phone":     a.ClientPhone,
		"appointment_date": a.AppointmentDate,
		"appointment_time": a.AppointmentTime,
		"notes":            a.Notes,
		"status":           a.Status,
		"created_at":       a.CreatedAt,
	})
	if err != nil {
		return model.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return a, nil
}

func (s *Postgres) ListAppointmentsByProvider(ctx context.Context, providerID string) ([]model.Appointment, error) {
	out, err := queryAll[model.Appointment](ctx, s.pool,
		`SELECT `+appointmentColumns+` FROM appointments WHERE provider_id = $1 ORDER BY seq`, providerID)
	return utcAppointments(out), err
}

func (s *Postgres) ListContacts(ctx context.Context) ([]model.Contact, error) {
	out, err := queryAll[model.Contact](ctx, s.pool, `SELECT `+contactColumns+` FROM contacts ORDER BY seq`)
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, err
}

func (s *Postgres) GetContact(ctx context.Context, id string) (model.Contact, bool, error) {
	c, ok, err := queryOne[model.Contact](ctx, s.pool, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, ok, err
}

func (s *Postgres) CreateContact(ctx context.Context, in model.ContactInput) (model.Contact, error) {
	c := model.NewContact(uuid.NewString(), in, s.now())
	_, err := s.pool.Exec(ctx, `
		INSERT INTO contacts (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Email, c.Subject, c.Message, c.CreatedAt)
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return queryAll[model.Testimonial](ctx, s.pool, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY seq`)
}

func (s *Postgres) GetTestimonial(ctx context.Context, id string) (model.Testimonial, bool, error) {
	return queryOne[model.Testimonial](ctx, s.pool, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id)
}

func (s *Postgres) CreateTestimonial(ctx context.Context, in model.TestimonialInput) (model.Testimonial, error) {
	t := model.NewTestimonial(uuid.NewString(), in)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO testimonials (id, client_name, client_role, content, rating, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.ClientName, t.ClientRole, t.Content, t.Rating, t.ImageURL)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}
	return t, nil
}

func queryAll[T any](ctx context.Context, pool *db.Pool, sql string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func queryOne[T any](ctx context.Context, pool *db.Pool, sql string, args ...any) (T, bool, error) {
	var zero T
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return zero, false, err
	}
	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func utcAppointments(out []model.Appointment) []model.Appointment {
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out
}
