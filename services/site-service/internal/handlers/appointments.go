package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/events"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

type createAppointmentRequest struct {
	ProviderID      string  `json:"providerId" validate:"required,max=64"`
	ClientName      string  `json:"clientName" validate:"required,max=200"`
	ClientEmail     string  `json:"clientEmail" validate:"required,email,max=254"`
	ClientPhone     string  `json:"clientPhone" validate:"required,max=40"`
	AppointmentDate string  `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime string  `json:"appointmentTime" validate:"required,max=20"`
	Notes           *string `json:"notes" validate:"omitnil,max=2000"`
	Status          string  `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

func (req *createAppointmentRequest) trim() {
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientEmail = strings.TrimSpace(req.ClientEmail)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	req.AppointmentDate = strings.TrimSpace(req.AppointmentDate)
	req.AppointmentTime = strings.TrimSpace(req.AppointmentTime)
	req.Notes = trimPtr(req.Notes)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
}

func (req *createAppointmentRequest) input() model.AppointmentInput {
	return model.AppointmentInput{
		ProviderID:      req.ProviderID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Notes:           req.Notes,
		Status:          req.Status,
	}
}

type appointmentBookedPayload struct {
	AppointmentID   string `json:"appointment_id"`
	ProviderID      string `json:"provider_id"`
	ClientEmail     string `json:"client_email"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Status          string `json:"status"`
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.store.ListAppointments(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list appointments", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, ok, err := h.store.GetAppointment(r.Context(), pathID(r))
	if err != nil {
		h.storeFailed(w, r, "get appointment", err)
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, appt)
}

// CreateAppointment books an appointment. The provider id is not checked
// against existing providers.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if !h.decodeAndValidate(w, r, model.KindAppointment, &req) {
		return
	}
	ctx := r.Context()
	appt, err := h.store.CreateAppointment(ctx, req.input())
	if err != nil {
		h.storeFailed(w, r, "create appointment", err)
		return
	}
	metrics.IncRecordCreated(string(model.KindAppointment))

	h.publish(ctx, events.TypeAppointmentBooked, appt.ID, appointmentBookedPayload{
		AppointmentID:   appt.ID,
		ProviderID:      appt.ProviderID,
		ClientEmail:     appt.ClientEmail,
		AppointmentDate: appt.AppointmentDate,
		AppointmentTime: appt.AppointmentTime,
		Status:          appt.Status,
	})

	if h.notifier != nil {
		var provider *model.Provider
		if p, ok, err := h.store.GetProvider(ctx, appt.ProviderID); err != nil {
			h.logger.Warn("provider lookup for confirmation failed", "provider_id", appt.ProviderID, "err", err)
		} else if ok {
			provider = &p
		}
		h.notifier.AppointmentBooked(ctx, appt, provider)
	}

	httpx.WriteJSON(w, http.StatusCreated, appt)
}
