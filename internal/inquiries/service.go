// Package inquiries validates the contact and custom design forms. Submissions
// are acknowledged but neither stored nor delivered.
package inquiries

import (
	"context"

	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/validation"
)

const (
	ContactAck = "Message sent! (Demo only)"
	DesignAck  = "Design submitted! (Demo only)"
)

// ContactForm is the general enquiry form.
type ContactForm struct {
	Name    string `json:"name" validate:"required,notblank_trim,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,notblank_trim,max=4000"`
}

// DesignForm requests a custom garment print.
type DesignForm struct {
	Name        string `json:"name" validate:"required,notblank_trim,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Garment     string `json:"garment" validate:"required,oneof=tee hoodie shorts joggers cap"`
	Description string `json:"description" validate:"required,notblank_trim,max=4000"`
}

// Acknowledgement is returned for an accepted submission.
type Acknowledgement struct {
	Message string `json:"message"`
}

type Service interface {
	SubmitContact(ctx context.Context, form ContactForm) (Acknowledgement, error)
	SubmitDesign(ctx context.Context, form DesignForm) (Acknowledgement, error)
}

type service struct {
	logg *logger.Logger
}

func NewService(logg *logger.Logger) Service {
	return &service{logg: logg}
}

func (s *service) SubmitContact(ctx context.Context, form ContactForm) (Acknowledgement, error) {
	if err := validation.Struct(&form); err != nil {
		return Acknowledgement{}, err
	}
	s.record(ctx, "contact")
	return Acknowledgement{Message: ContactAck}, nil
}

func (s *service) SubmitDesign(ctx context.Context, form DesignForm) (Acknowledgement, error) {
	if err := validation.Struct(&form); err != nil {
		return Acknowledgement{}, err
	}
	s.record(ctx, "design")
	return Acknowledgement{Message: DesignAck}, nil
}

// record logs the form kind only; submitted fields stay out of the logs.
func (s *service) record(ctx context.Context, kind string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithField(ctx, "form", kind), "inquiry.received")
}
