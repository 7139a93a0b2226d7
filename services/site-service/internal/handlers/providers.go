package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

type createProviderRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Experience  string  `json:"experience" validate:"required,max=100"`
	Rating      *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	ReviewCount *int    `json:"reviewCount" validate:"omitnil,min=0"`
	ImageURL    *string `json:"imageUrl" validate:"omitnil,url"`
	Verified    *bool   `json:"verified"`
}

func (req *createProviderRequest) trim() {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Experience = strings.TrimSpace(req.Experience)
	req.ImageURL = trimPtr(req.ImageURL)
}

func (req *createProviderRequest) input() model.ProviderInput {
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}
	return model.ProviderInput{
		Name:        req.Name,
		Category:    req.Category,
		Experience:  req.Experience,
		Rating:      intOr(req.Rating, model.DefaultRating),
		ReviewCount: intOr(req.ReviewCount, 0),
		ImageURL:    req.ImageURL,
		Verified:    verified,
	}
}

func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.store.ListProviders(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list providers", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, providers)
}

func (h *Handler) GetProvider(w http.ResponseWriter, r *http.Request) {
	provider, ok, err := h.store.GetProvider(r.Context(), pathID(r))
	if err != nil {
		h.storeFailed(w, r, "get provider", err)
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "Provider not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, provider)
}

func (h *Handler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req createProviderRequest
	if !h.decodeAndValidate(w, r, model.KindProvider, &req) {
		return
	}
	provider, err := h.store.CreateProvider(r.Context(), req.input())
	if err != nil {
		h.storeFailed(w, r, "create provider", err)
		return
	}
	metrics.IncRecordCreated(string(model.KindProvider))
	httpx.WriteJSON(w, http.StatusCreated, provider)
}

// ListProviderAppointments answers with an empty list for unknown providers.
func (h *Handler) ListProviderAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.store.ListAppointmentsByProvider(r.Context(), pathID(r))
	if err != nil {
		h.storeFailed(w, r, "list provider appointments", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, appointments)
}
