package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

const internshipSubject = "Internship Application"

type careerApplicationRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Subject      string `json:"subject" validate:"max=200"`
	Position     string `json:"position" validate:"required,max=200"`
	Experience   string `json:"experience" validate:"required,max=100"`
	Portfolio    string `json:"portfolio" validate:"omitempty,url"`
	Availability string `json:"availability" validate:"required,max=100"`
	Message      string `json:"message" validate:"max=5000"`
}

func (req *careerApplicationRequest) trim() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Position = strings.TrimSpace(req.Position)
	req.Experience = strings.TrimSpace(req.Experience)
	req.Portfolio = strings.TrimSpace(req.Portfolio)
	req.Availability = strings.TrimSpace(req.Availability)
	req.Message = strings.TrimSpace(req.Message)
}

// contactInput folds the application into a contact message.
func (req *careerApplicationRequest) contactInput() model.ContactInput {
	subject := req.Subject
	if subject == "" {
		subject = internshipSubject
	}
	portfolio := req.Portfolio
	if portfolio == "" {
		portfolio = "Not provided"
	}
	message := fmt.Sprintf("Position: %s\nExperience Level: %s\nPortfolio: %s\nAvailability: %s\n\nAdditional Message:\n%s",
		req.Position, req.Experience, portfolio, req.Availability, req.Message)
	return model.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: subject,
		Message: message,
	}
}

// CreateCareerApplication stores an internship application as a contact.
func (h *Handler) CreateCareerApplication(w http.ResponseWriter, r *http.Request) {
	var req careerApplicationRequest
	if !h.decodeAndValidate(w, r, model.KindContact, &req) {
		return
	}
	h.createContact(w, r, req.contactInput())
}
