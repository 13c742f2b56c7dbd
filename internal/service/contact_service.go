package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

const contactSubject = "Thank you for contacting GeniusBaby Cosmetics"

const contactBody = `<p>Hi %s,</p>
<p>We received your message and will get back to you soon.</p>
<blockquote>%s</blockquote>
<p>GeniusBaby Cosmetics</p>`

// ContactInput carries a contact form submission.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactResult reports a stored submission. EmailSent is false when mail
// is unconfigured or delivery failed; the message is kept either way.
type ContactResult struct {
	ID        string `json:"id"`
	EmailSent bool   `json:"email_sent"`
}

// ContactService stores contact form submissions and sends confirmations.
type ContactService struct {
	contacts repository.ContactRepository
	mailer   Mailer
}

// NewContactService constructs a ContactService.
func NewContactService(contacts repository.ContactRepository, mailer Mailer) *ContactService {
	return &ContactService{contacts: contacts, mailer: mailer}
}

// SubmitMessage validates and stores a submission, then sends the
// confirmation mail best effort.
func (s *ContactService) SubmitMessage(ctx context.Context, in ContactInput) (*ContactResult, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, utils.ErrMissingFields
	}

	if err := s.contacts.Create(ctx, msg); err != nil {
		return nil, err
	}

	result := &ContactResult{ID: msg.ID.Hex()}
	if s.mailer != nil && s.mailer.Enabled() {
		body := fmt.Sprintf(contactBody, html.EscapeString(msg.Name), html.EscapeString(msg.Message))
		if err := s.mailer.Send(ctx, msg.Email, contactSubject, body); err != nil {
			log.Warn().Err(err).Str("email", msg.Email).Msg("Contact confirmation email failed")
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

// ListMessages pages through stored submissions for the admin console.
func (s *ContactService) ListMessages(ctx context.Context, page, limit int) ([]models.ContactMessage, int, error) {
	return s.contacts.List(ctx, page, limit)
}
