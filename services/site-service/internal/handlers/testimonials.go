package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

type createTestimonialRequest struct {
	ClientName string  `json:"clientName" validate:"required,max=200"`
	ClientRole string  `json:"clientRole" validate:"required,max=200"`
	Content    string  `json:"content" validate:"required,max=2000"`
	Rating     *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	ImageURL   *string `json:"imageUrl" validate:"omitnil,url"`
}

func (req *createTestimonialRequest) trim() {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientRole = strings.TrimSpace(req.ClientRole)
	req.Content = strings.TrimSpace(req.Content)
	req.ImageURL = trimPtr(req.ImageURL)
}

func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.store.ListTestimonials(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list testimonials", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, testimonials)
}

func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	testimonial, ok, err := h.store.GetTestimonial(r.Context(), pathID(r))
	if err != nil {
		h.storeFailed(w, r, "get testimonial", err)
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, testimonial)
}

func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req createTestimonialRequest
	if !h.decodeAndValidate(w, r, model.KindTestimonial, &req) {
		return
	}
	testimonial, err := h.store.CreateTestimonial(r.Context(), model.TestimonialInput{
		ClientName: req.ClientName,
		ClientRole: req.ClientRole,
		Content:    req.Content,
		Rating:     intOr(req.Rating, model.DefaultRating),
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		h.storeFailed(w, r, "create testimonial", err)
		return
	}
	metrics.IncRecordCreated(string(model.KindTestimonial))
	httpx.WriteJSON(w, http.StatusCreated, testimonial)
}
