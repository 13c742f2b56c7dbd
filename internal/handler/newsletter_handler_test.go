package handler

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

func TestSubscribe(t *testing.T) {
	ts := newTestServer()

	w := ts.postJSON(t, "/v1/subscribe", map[string]string{"email": " Wanjiku@Example.COM "})
	env := wantSuccess(t, w, 200)
	if env.Message != "Subscribed successfully" {
		t.Fatalf("message = %q", env.Message)
	}

	var result struct {
		Email             string `json:"email"`
		AlreadySubscribed bool   `json:"already_subscribed"`
		EmailSent         bool   `json:"email_sent"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Email != "wanjiku@example.com" {
		t.Fatalf("email = %q, want lowercased trimmed address", result.Email)
	}
	if !result.EmailSent {
		t.Fatalf("email_sent = false with mail enabled")
	}
	if len(ts.mailer.sent) != 1 || ts.mailer.sent[0] != "wanjiku@example.com" {
		t.Fatalf("welcome mail recipients = %v", ts.mailer.sent)
	}
}

func TestSubscribeTwice(t *testing.T) {
	ts := newTestServer()

	ts.postJSON(t, "/v1/subscribe", map[string]string{"email": "repeat@example.com"})
	w := ts.postJSON(t, "/v1/subscribe", map[string]string{"email": "repeat@example.com"})

	env := wantSuccess(t, w, 200)
	if env.Message != "You're already subscribed. Thank you!" {
		t.Fatalf("message = %q", env.Message)
	}
	if len(ts.mailer.sent) != 1 {
		t.Fatalf("welcome mails = %d, want only the first signup to send one", len(ts.mailer.sent))
	}
}

func TestSubscribeInvalidEmail(t *testing.T) {
	ts := newTestServer()

	for _, email := range []string{"", "   ", "not-an-address"} {
		w := ts.postJSON(t, "/v1/subscribe", map[string]string{"email": email})
		wantError(t, w, 400, "INVALID_EMAIL")
	}
	if len(ts.subscribers.subs) != 0 {
		t.Fatalf("stored %d subscribers from invalid input", len(ts.subscribers.subs))
	}
}

func TestUnsubscribe(t *testing.T) {
	ts := newTestServer()
	ts.postJSON(t, "/v1/subscribe", map[string]string{"email": "leaver@example.com"})

	token := utils.UnsubscribeToken("leaver@example.com", testJWTSecret)
	w := ts.get(t, "/v1/unsubscribe?email="+url.QueryEscape("leaver@example.com")+"&token="+token)

	env := wantSuccess(t, w, 200)
	if env.Message != "Unsubscribed successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	if len(ts.subscribers.subs) != 0 {
		t.Fatalf("subscriber still stored after unsubscribe")
	}
}

func TestUnsubscribeBadToken(t *testing.T) {
	ts := newTestServer()
	ts.postJSON(t, "/v1/subscribe", map[string]string{"email": "stay@example.com"})

	w := ts.get(t, "/v1/unsubscribe?email=stay@example.com&token=forged")
	wantError(t, w, 403, "INVALID_TOKEN")
	if len(ts.subscribers.subs) != 1 {
		t.Fatalf("subscriber removed despite bad token")
	}

	// A token minted for one address must not release another.
	other := utils.UnsubscribeToken("other@example.com", testJWTSecret)
	w = ts.get(t, "/v1/unsubscribe?email=stay@example.com&token="+other)
	wantError(t, w, 403, "INVALID_TOKEN")
}

func TestUnsubscribeUnknownAddress(t *testing.T) {
	ts := newTestServer()

	token := utils.UnsubscribeToken("ghost@example.com", testJWTSecret)
	w := ts.get(t, "/v1/unsubscribe?email=ghost@example.com&token="+token)
	wantError(t, w, 404, "SUBSCRIBER_NOT_FOUND")
}

func TestListSubscribers(t *testing.T) {
	ts := newTestServer()
	ts.postJSON(t, "/v1/subscribe", map[string]string{"email": "a@example.com"})
	ts.postJSON(t, "/v1/subscribe", map[string]string{"email": "b@example.com"})

	w := ts.do(t, "GET", "/v1/admin/subscribers", nil, adminHeaders())
	env := wantSuccess(t, w, 200)

	var data struct {
		Subscribers []struct {
			Email string `json:"email"`
		} `json:"subscribers"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode subscribers: %v", err)
	}
	if len(data.Subscribers) != 2 {
		t.Fatalf("subscribers = %d, want 2", len(data.Subscribers))
	}
	if env.Meta.Pagination == nil || env.Meta.Pagination.TotalItems != 2 {
		t.Fatalf("pagination = %+v, want totalItems 2", env.Meta.Pagination)
	}
	if env.Meta.Pagination.Page != 1 || env.Meta.Pagination.Limit != 50 {
		t.Fatalf("pagination defaults = %+v, want page 1 limit 50", env.Meta.Pagination)
	}
}
