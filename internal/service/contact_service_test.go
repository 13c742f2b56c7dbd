package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

func TestSubmitMessage(t *testing.T) {
	repo := &fakeContactRepo{}
	mailer := &fakeMailer{enabled: true}
	svc := NewContactService(repo, mailer)

	res, err := svc.SubmitMessage(context.Background(), ContactInput{
		Name:    "  Wanjiku  ",
		Email:   " wanjiku@example.com ",
		Phone:   "0712345678",
		Message: " Do you stock sunscreen for babies? ",
	})
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}
	if res.ID == "" {
		t.Errorf("ID empty")
	}
	if !res.EmailSent {
		t.Errorf("EmailSent = false")
	}

	if len(repo.messages) != 1 {
		t.Fatalf("stored %d messages", len(repo.messages))
	}
	stored := repo.messages[0]
	if stored.Name != "Wanjiku" || stored.Email != "wanjiku@example.com" || stored.Phone != "0712345678" {
		t.Errorf("stored = %+v", stored)
	}
	if stored.Message != "Do you stock sunscreen for babies?" {
		t.Errorf("Message = %q", stored.Message)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails", len(mailer.sent))
	}
	if mailer.sent[0].subject != "Thank you for contacting GeniusBaby Cosmetics" {
		t.Errorf("subject = %q", mailer.sent[0].subject)
	}
}

func TestSubmitMessageEscapesHTML(t *testing.T) {
	mailer := &fakeMailer{enabled: true}
	svc := NewContactService(&fakeContactRepo{}, mailer)

	_, err := svc.SubmitMessage(context.Background(), ContactInput{
		Name:    "<b>Bold</b>",
		Email:   "x@example.com",
		Message: "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}
	body := mailer.sent[0].body
	if strings.Contains(body, "<script>") || !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("body not escaped: %q", body)
	}
}

func TestSubmitMessageMissingFields(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, &fakeMailer{})

	tests := []ContactInput{
		{Email: "x@example.com", Message: "hi"},
		{Name: "A", Message: "hi"},
		{Name: "A", Email: "x@example.com"},
		{Name: "  ", Email: "x@example.com", Message: "hi"},
	}
	for _, in := range tests {
		if _, err := svc.SubmitMessage(context.Background(), in); !errors.Is(err, utils.ErrMissingFields) {
			t.Errorf("SubmitMessage(%+v) error = %v", in, err)
		}
	}
	if len(repo.messages) != 0 {
		t.Errorf("stored %d messages from invalid input", len(repo.messages))
	}
}

func TestSubmitMessageWithoutMail(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, &fakeMailer{enabled: false})

	res, err := svc.SubmitMessage(context.Background(), ContactInput{
		Name:    "Akinyi",
		Email:   "akinyi@example.com",
		Message: "Opening hours?",
	})
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}
	if res.EmailSent {
		t.Errorf("EmailSent = true without mail config")
	}
	if len(repo.messages) != 1 {
		t.Errorf("message not stored")
	}
}

func TestSubmitMessageMailFailure(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, &fakeMailer{enabled: true, err: errors.New("smtp down")})

	res, err := svc.SubmitMessage(context.Background(), ContactInput{
		Name:    "Otieno",
		Email:   "otieno@example.com",
		Message: "Order status",
	})
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}
	if res.EmailSent {
		t.Errorf("EmailSent = true despite failure")
	}
	if len(repo.messages) != 1 {
		t.Errorf("message not stored on mail failure")
	}
}
