// Package model holds the records stored by the site backend and the
// inputs used to create them. Inputs never carry server-owned fields.
package model

import "time"

const (
	DefaultRating = 5

	StatusPending = "pending"
)

// Kind names a record collection.
type Kind string

const (
	KindProvider    Kind = "provider"
	KindAppointment Kind = "appointment"
	KindContact     Kind = "contact"
	KindTestimonial Kind = "testimonial"
)

type Provider struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Category    string  `json:"category" db:"category"`
	Experience  string  `json:"experience" db:"experience"`
	Rating      int     `json:"rating" db:"rating"`
	ReviewCount int     `json:"reviewCount" db:"review_count"`
	ImageURL    *string `json:"imageUrl" db:"image_url"`
	Verified    bool    `json:"verified" db:"verified"`
}

type ProviderInput struct {
	Name        string
	Category    string
	Experience  string
	Rating      int
	ReviewCount int
	ImageURL    *string
	Verified    bool
}

type Appointment struct {
	ID              string    `json:"id" db:"id"`
	ProviderID      string    `json:"providerId" db:"provider_id"`
	ClientName      string    `json:"clientName" db:"client_name"`
	ClientEmail     string    `json:"clientEmail" db:"client_email"`
	ClientPhone     string    `json:"clientPhone" db:"client_phone"`
	AppointmentDate string    `json:"appointmentDate" db:"appointment_date"`
	AppointmentTime string    `json:"appointmentTime" db:"appointment_time"`
	Notes           *string   `json:"notes" db:"notes"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

type AppointmentInput struct {
	ProviderID      string
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	AppointmentDate string
	AppointmentTime string
	Notes           *string
	Status          string
}

type Contact struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Testimonial struct {
	ID         string  `json:"id" db:"id"`
	ClientName string  `json:"clientName" db:"client_name"`
	ClientRole string  `json:"clientRole" db:"client_role"`
	Content    string  `json:"content" db:"content"`
	Rating     int     `json:"rating" db:"rating"`
	ImageURL   *string `json:"imageUrl" db:"image_url"`
}

type TestimonialInput struct {
	ClientName string
	ClientRole string
	Content    string
	Rating     int
	ImageURL   *string
}

// NewProvider builds the stored record for in, filling column defaults.
func NewProvider(id string, in ProviderInput) Provider {
	rating := in.Rating
	if rating == 0 {
		rating = DefaultRating
	}
	return Provider{
		ID:          id,
		Name:        in.Name,
		Category:    in.Category,
		Experience:  in.Experience,
		Rating:      rating,
		ReviewCount: in.ReviewCount,
		ImageURL:    cloneString(in.ImageURL),
		Verified:    in.Verified,
	}
}

func NewAppointment(id string, in AppointmentInput, createdAt time.Time) Appointment {
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	return Appointment{
		ID:              id,
		ProviderID:      in.ProviderID,
		ClientName:      in.ClientName,
		ClientEmail:     in.ClientEmail,
		ClientPhone:     in.ClientPhone,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		Notes:           cloneString(in.Notes),
		Status:          status,
		CreatedAt:       createdAt,
	}
}

func NewContact(id string, in ContactInput, createdAt time.Time) Contact {
	return Contact{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: createdAt,
	}
}

func NewTestimonial(id string, in TestimonialInput) Testimonial {
	rating := in.Rating
	if rating == 0 {
		rating = DefaultRating
	}
	return Testimonial{
		ID:         id,
		ClientName: in.ClientName,
		ClientRole: in.ClientRole,
		Content:    in.Content,
		Rating:     rating,
		ImageURL:   cloneString(in.ImageURL),
	}
}

// cloneString keeps stored records from aliasing caller memory.
func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
