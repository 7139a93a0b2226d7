package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLite stores records in a single SQLite file.
type SQLite struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ Backend = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	conn, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	if err := migrate(ctx, conn.DB, goose.DialectSQLite3, "sqlite"); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLite{
		db:  conn,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing sqlite: %w", err)
	}
	return nil
}

func (s *SQLite) ListProviders(ctx context.Context) ([]model.Provider, error) {
	out := []model.Provider{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+providerColumns+` FROM providers ORDER BY rowid`)
	return out, err
}

func (s *SQLite) GetProvider(ctx context.Context, id string) (model.Provider, bool, error) {
	var p model.Provider
	ok, err := getOne(ctx, s.db, &p, `SELECT `+providerColumns+` FROM providers WHERE id = ?`, id)
	return p, ok, err
}

func (s *SQLite) CreateProvider(ctx context.Context, in model.ProviderInput) (model.Provider, error) {
	p := model.NewProvider(uuid.NewString(), in)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO providers (`+providerColumns+`)
		VALUES (:id, :name, :category, :experience, :rating, :review_count, :image_url, :verified)
	`, p)
	if err != nil {
		return model.Provider{}, fmt.Errorf("insert provider: %w", err)
	}
	return p, nil
}

func (s *SQLite) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	out := []model.Appointment{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+appointmentColumns+` FROM appointments ORDER BY rowid`)
	return utcAppointments(out), err
}

func (s *SQLite) GetAppointment(ctx context.Context, id string) (model.Appointment, bool, error) {
	var a model.Appointment
	ok, err := getOne(ctx, s.db, &a, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, ok, err
}

func (s *SQLite) CreateAppointment(ctx context.Context, in model.AppointmentInput) (model.Appointment, error) {
	a := model.NewAppointment(uuid.NewString(), in, s.now())
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (:id, :provider_id, :client_name, :client_email, :client_phone, :appointment_date, :appointment_time, :notes, :status, :created_at)
	`, a)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return a, nil
}

func (s *SQLite) ListAppointmentsByProvider(ctx context.Context, providerID string) ([]model.Appointment, error) {
	out := []model.Appointment{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT `+appointmentColumns+` FROM appointments WHERE provider_id = ? ORDER BY rowid`, providerID)
	return utcAppointments(out), err
}

func (s *SQLite) ListContacts(ctx context.Context) ([]model.Contact, error) {
	out := []model.Contact{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+contactColumns+` FROM contacts ORDER BY rowid`)
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, err
}

func (s *SQLite) GetContact(ctx context.Context, id string) (model.Contact, bool, error) {
	var c model.Contact
	ok, err := getOne(ctx, s.db, &c, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, ok, err
}

func (s *SQLite) CreateContact(ctx context.Context, in model.ContactInput) (model.Contact, error) {
	c := model.NewContact(uuid.NewString(), in, s.now())
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (:id, :name, :email, :subject, :message, :created_at)
	`, c)
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

func (s *SQLite) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	out := []model.Testimonial{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY rowid`)
	return out, err
}

func (s *SQLite) GetTestimonial(ctx context.Context, id string) (model.Testimonial, bool, error) {
	var t model.Testimonial
	ok, err := getOne(ctx, s.db, &t, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id)
	return t, ok, err
}

func (s *SQLite) CreateTestimonial(ctx context.Context, in model.TestimonialInput) (model.Testimonial, error) {
	t := model.NewTestimonial(uuid.NewString(), in)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO testimonials (`+testimonialColumns+`)
		VALUES (:id, :client_name, :client_role, :content, :rating, :image_url)
	`, t)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}
	return t, nil
}

func getOne(ctx context.Context, conn *sqlx.DB, dest any, query string, args ...any) (bool, error) {
	err := conn.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
