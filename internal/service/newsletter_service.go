package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

const welcomeSubject = "Welcome to GeniusBaby Cosmetics"

const welcomeBody = `<p>Hi,</p>
<p>Thanks for subscribing to the GeniusBaby Cosmetics newsletter. We will keep you posted on new arrivals and offers.</p>
<p>If this was not you, you can <a href="%s">unsubscribe</a> at any time.</p>`

// SubscribeResult reports the outcome of a newsletter signup.
type SubscribeResult struct {
	Email             string `json:"email"`
	AlreadySubscribed bool   `json:"already_subscribed"`
	EmailSent         bool   `json:"email_sent"`
}

// NewsletterService manages the mailing list.
type NewsletterService struct {
	subscribers repository.SubscriberRepository
	mailer      Mailer
	secret      string
	baseURL     string
}

// NewNewsletterService constructs a NewsletterService. baseURL is the
// public origin used in unsubscribe links.
func NewNewsletterService(subscribers repository.SubscriberRepository, mailer Mailer, secret, baseURL string) *NewsletterService {
	return &NewsletterService{
		subscribers: subscribers,
		mailer:      mailer,
		secret:      secret,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Subscribe stores a new subscriber and sends the welcome mail. Signing up
// twice is reported, not rejected, and a mail failure never fails the
// signup.
func (s *NewsletterService) Subscribe(ctx context.Context, rawEmail string) (*SubscribeResult, error) {
	email := strings.ToLower(strings.TrimSpace(rawEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, utils.ErrInvalidEmail
	}

	err := s.subscribers.Create(ctx, &models.Subscriber{Email: email})
	if errors.Is(err, utils.ErrAlreadySubscribed) {
		return &SubscribeResult{Email: email, AlreadySubscribed: true}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &SubscribeResult{Email: email}
	if s.mailer != nil && s.mailer.Enabled() {
		body := fmt.Sprintf(welcomeBody, s.unsubscribeLink(email))
		if err := s.mailer.Send(ctx, email, welcomeSubject, body); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Welcome email failed")
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

// unsubscribeLink builds the signed opt-out URL for an address.
func (s *NewsletterService) unsubscribeLink(email string) string {
	return fmt.Sprintf("%s/v1/unsubscribe?email=%s&token=%s",
		s.baseURL, url.QueryEscape(email), utils.UnsubscribeToken(email, s.secret))
}

// Unsubscribe removes a subscriber after checking the signed token.
func (s *NewsletterService) Unsubscribe(ctx context.Context, rawEmail, token string) error {
	email := strings.ToLower(strings.TrimSpace(rawEmail))
	if !utils.VerifyUnsubscribeToken(email, token, s.secret) {
		return utils.ErrInvalidSignature
	}
	return s.subscribers.DeleteByEmail(ctx, email)
}

// ListSubscribers pages through the mailing list for the admin console.
func (s *NewsletterService) ListSubscribers(ctx context.Context, page, limit int) ([]models.Subscriber, int, error) {
	return s.subscribers.List(ctx, page, limit)
}
