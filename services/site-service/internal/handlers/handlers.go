package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/events"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/notify"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/storage"
)

type Handler struct {
	store    storage.Store
	logger   *slog.Logger
	events   events.Publisher
	notifier *notify.Notifier
	validate *validator.Validate
}

// New wires the handlers. A nil publisher or notifier disables that side
// effect.
func New(store storage.Store, logger *slog.Logger, publisher events.Publisher, notifier *notify.Notifier) *Handler {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Handler{
		store:    store,
		logger:   logger,
		events:   publisher,
		notifier: notifier,
		validate: newValidator(),
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/providers", h.ListProviders)
	mux.HandleFunc("POST /api/providers", h.CreateProvider)
	mux.HandleFunc("GET /api/providers/{id}", h.GetProvider)
	mux.HandleFunc("GET /api/providers/{id}/appointments", h.ListProviderAppointments)

	mux.HandleFunc("GET /api/appointments", h.ListAppointments)
	mux.HandleFunc("POST /api/appointments", h.CreateAppointment)
	mux.HandleFunc("GET /api/appointments/{id}", h.GetAppointment)

	mux.HandleFunc("GET /api/contacts", h.ListContacts)
	mux.HandleFunc("POST /api/contacts", h.CreateContact)
	mux.HandleFunc("GET /api/contacts/{id}", h.GetContact)

	mux.HandleFunc("GET /api/testimonials", h.ListTestimonials)
	mux.HandleFunc("POST /api/testimonials", h.CreateTestimonial)
	mux.HandleFunc("GET /api/testimonials/{id}", h.GetTestimonial)

	mux.HandleFunc("POST /api/careers/applications", h.CreateCareerApplication)
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so clients can map errors onto form fields.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into req, trims it and runs the
// validation rules. On failure it writes the 400 response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, kind model.Kind, req trimmer) bool {
	if err := httpx.DecodeJSON(r, req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		metrics.IncValidationFailure(string(kind))
		httpx.WriteError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	req.trim()

	err := h.validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.logger.Error("validation failed unexpectedly", "kind", kind, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "validation error")
		return false
	}
	metrics.IncValidationFailure(string(kind))
	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorBody{Message: "invalid request", Errors: fields})
	return false
}

type trimmer interface {
	trim()
}

func (h *Handler) storeFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("store operation failed",
		"op", op,
		"request_id", httpx.RequestIDFromContext(r.Context()),
		"err", err,
	)
	httpx.WriteError(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) publish(ctx context.Context, eventType, aggregateID string, payload any) {
	evt, err := events.New(ctx, eventType, aggregateID, payload)
	if err == nil {
		err = h.events.Publish(ctx, evt)
	}
	if err != nil {
		h.logger.Warn("event not published", "type", eventType, "aggregate_id", aggregateID, "err", err)
	}
}

func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
