package storage

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/ambersite/libs/db"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

// openTestPostgres returns a Postgres store in a schema of its own, dropped
// when the test ends. It skips unless DATABASE_URL is set.
func openTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	admin, err := db.Open(ctx, dsn, db.Options{MaxConns: 1})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(admin.Close)

	schema := "site_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(ctx, `CREATE SCHEMA `+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), `DROP SCHEMA `+schema+` CASCADE`)
	})

	pool, err := db.Open(ctx, withSearchPath(dsn, schema), db.Options{MaxConns: 4})
	if err != nil {
		t.Fatalf("connect postgres (%s): %v", schema, err)
	}
	s, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		t.Fatalf("new postgres store: %v", err)
	}
	// Registered after the admin cleanups, so it runs before the schema drop.
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// withSearchPath adds a search_path runtime parameter to a URL or
// keyword/value connection string.
func withSearchPath(dsn, schema string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return dsn + " search_path=" + schema
}

func TestPostgres_OrderAndTimestamps(t *testing.T) {
	s := openTestPostgres(t)
	ctx := context.Background()

	var created []model.Appointment
	for i := 0; i < 3; i++ {
		a, err := s.CreateAppointment(ctx, sampleAppointment("p-order"))
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		created = append(created, a)
	}
	if created[0].CreatedAt.Nanosecond()%int(time.Microsecond) != 0 {
		t.Fatalf("createdAt not truncated to microseconds: %s", created[0].CreatedAt)
	}

	got, err := s.ListAppointmentsByProvider(ctx, "p-order")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(created) {
		t.Fatalf("expected %d appointments, got %d", len(created), len(got))
	}
	for i := range created {
		if !sameAppointment(created[i], got[i]) {
			t.Fatalf("row %d differs:\ncreated %+v\nread    %+v", i, created[i], got[i])
		}
		if got[i].CreatedAt.Location() != time.UTC {
			t.Fatalf("createdAt not UTC: %s", got[i].CreatedAt.Location())
		}
	}

	img := "https://images.example/p.jpg"
	p, err := s.CreateProvider(ctx, model.ProviderInput{Name: "N", Category: "C", Experience: "E", ImageURL: &img, Verified: true})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	back, ok, err := s.GetProvider(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("get provider: ok=%v err=%v", ok, err)
	}
	if back.ImageURL == nil || *back.ImageURL != img || back.Rating != model.DefaultRating || !back.Verified {
		t.Fatalf("unexpected provider %+v", back)
	}
}
