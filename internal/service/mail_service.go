package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/Haroldke13/geniusbabycosmetics/internal/config"
)

// Mailer delivers transactional mail. Implementations report Enabled so
// callers can record a message as skipped rather than failed when SMTP is
// not configured.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MailService sends transactional mail over SMTP.
type MailService struct {
	cfg    config.MailConfig
	client *mail.Client
}

// NewMailService constructs a MailService. Without SMTP credentials the
// service stays disabled and Send returns an error.
func NewMailService(cfg config.MailConfig) (*MailService, error) {
	if !cfg.Enabled() {
		return &MailService{cfg: cfg}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return &MailService{cfg: cfg, client: client}, nil
}

// Enabled reports whether SMTP credentials are configured.
func (s *MailService) Enabled() bool {
	return s.client != nil
}

// Send delivers one HTML message.
func (s *MailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.client == nil {
		return errors.New("mail is not configured")
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.Sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	return s.client.DialAndSendWithContext(ctx, m)
}
