package config

import (
	"strings"
	"testing"
	"time"
)

func setCoreEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_TOKEN", "test-admin")
}

func TestLoadDefaults(t *testing.T) {
	setCoreEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PerPage != 12 {
		t.Errorf("PerPage = %d, want 12", cfg.PerPage)
	}
	if cfg.Mongo.Database != "geniusbabycosmetics" {
		t.Errorf("Mongo.Database = %q", cfg.Mongo.Database)
	}
	if cfg.Mpesa.BaseURL != "https://sandbox.safaricom.co.ke" {
		t.Errorf("Mpesa.BaseURL = %q", cfg.Mpesa.BaseURL)
	}
	if cfg.Mpesa.Enabled() {
		t.Error("Mpesa should be disabled without credentials")
	}
	if cfg.Mail.Enabled() {
		t.Error("Mail should be disabled without a username")
	}
	if cfg.Worker.PaymentSweepInterval != 30*time.Second {
		t.Errorf("PaymentSweepInterval = %v", cfg.Worker.PaymentSweepInterval)
	}
	if cfg.Mpesa.SessionTTL != 15*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Mpesa.SessionTTL)
	}
}

func TestLoadRejectsMissingCoreSettings(t *testing.T) {
	cases := []struct {
		name  string
		unset string
		want  string
	}{
		{"mongo uri", "MONGO_URI", "MONGO_URI"},
		{"secret key", "SECRET_KEY", "SECRET_KEY"},
		{"admin token", "ADMIN_TOKEN", "ADMIN_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnv(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("Load should fail without %s", tc.unset)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %s", err, tc.want)
			}
		})
	}
}

func TestLoadMpesaEnabled(t *testing.T) {
	setCoreEnv(t)
	t.Setenv("MPESA_CONSUMER_KEY", "key")
	t.Setenv("MPESA_CONSUMER_SECRET", "secret")
	t.Setenv("MPESA_PASSKEY", "passkey")
	t.Setenv("MPESA_CALLBACK_URL", "https://shop.example.com/v1/mpesa/callback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Mpesa.Enabled() {
		t.Error("Mpesa should be enabled with full credentials")
	}
	if cfg.Mpesa.ShortCode != "174379" {
		t.Errorf("ShortCode = %q, want sandbox default", cfg.Mpesa.ShortCode)
	}
}

func TestLoadMailSenderFallsBackToUsername(t *testing.T) {
	setCoreEnv(t)
	t.Setenv("MAIL_USERNAME", "shop@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mail.Sender != "shop@example.com" {
		t.Errorf("Sender = %q, want username fallback", cfg.Mail.Sender)
	}
	if !cfg.Mail.Enabled() {
		t.Error("Mail should be enabled with host and username")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setCoreEnv(t)
	t.Setenv("PAYMENT_SWEEP_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject an unparseable duration")
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	setCoreEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://shop.example.co.ke, ,https://admin.example.co.ke ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://shop.example.co.ke", "https://admin.example.co.ke"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], origin)
		}
	}
}

func TestLoadCORSOriginsEmpty(t *testing.T) {
	setCoreEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("CORSOrigins = %v, want none", cfg.CORSOrigins)
	}
}
