package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/events"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

type createContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (req *createContactRequest) trim() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
}

type contactReceivedPayload struct {
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.ListContacts(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list contacts", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, contacts)
}

func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	contact, ok, err := h.store.GetContact(r.Context(), pathID(r))
	if err != nil {
		h.storeFailed(w, r, "get contact", err)
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "Contact not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, contact)
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if !h.decodeAndValidate(w, r, model.KindContact, &req) {
		return
	}
	h.createContact(w, r, model.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
}

func (h *Handler) createContact(w http.ResponseWriter, r *http.Request, in model.ContactInput) {
	ctx := r.Context()
	contact, err := h.store.CreateContact(ctx, in)
	if err != nil {
		h.storeFailed(w, r, "create contact", err)
		return
	}
	metrics.IncRecordCreated(string(model.KindContact))
	h.publish(ctx, events.TypeContactReceived, contact.ID, contactReceivedPayload{
		ContactID: contact.ID,
		Email:     contact.Email,
		Subject:   contact.Subject,
	})
	httpx.WriteJSON(w, http.StatusCreated, contact)
}
