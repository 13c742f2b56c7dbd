package daraja

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"local format", "0712345678", "254712345678"},
		{"international format", "254712345678", "254712345678"},
		{"surrounding whitespace", "  0712345678  ", "254712345678"},
		{"missing prefix", "712345678", ""},
		{"too short", "25471234567", ""},
		{"non safaricom prefix", "0812345678", ""},
		{"plus prefix", "+254712345678", ""},
		{"empty", "", ""},
		{"letters", "07one234567", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPhone(tt.phone); got != tt.want {
				t.Errorf("FormatPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestProperty_FormatPhoneNormalizesLocalNumbers(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every 07 number becomes its 2547 form", prop.ForAll(
		func(phone string) bool {
			got := FormatPhone(phone)
			if got != "254"+phone[1:] {
				t.Logf("FAIL: FormatPhone(%q) = %q", phone, got)
				return false
			}
			if FormatPhone(got) != got {
				t.Logf("FAIL: normalized %q not stable", got)
				return false
			}
			return true
		},
		gen.RegexMatch(`^07[0-9]{8}$`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// newTestClient wires a client against a fake Daraja server and counts
// token grants.
func newTestClient(t *testing.T, stk http.HandlerFunc) (*Client, *int) {
	t.Helper()

	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "test-token",
			"expires_in":   "3599",
		})
	})
	mux.HandleFunc("/mpesa/", stk)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "testpasskey",
		CallbackURL:    "https://example.com/v1/mpesa/callback",
	})
	return client, &tokenCalls
}

func TestSTKPush(t *testing.T) {
	var got stkPushRequest
	client, tokenCalls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mpesa/stkpush/v1/processrequest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"MerchantRequestID":   "29115-34620561-1",
			"CheckoutRequestID":   "ws_CO_191220191020363925",
			"ResponseCode":        "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage":     "Success. Request accepted for processing",
		})
	})

	resp, err := client.STKPush(context.Background(), STKPushInput{
		Phone:  "254712345678",
		Amount: 1500,
	})
	if err != nil {
		t.Fatalf("STKPush() error = %v", err)
	}
	if !resp.Accepted() {
		t.Errorf("Accepted() = false, want true")
	}
	if resp.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Errorf("CheckoutRequestID = %q", resp.CheckoutRequestID)
	}

	if got.BusinessShortCode != "174379" || got.PartyB != "174379" {
		t.Errorf("shortcode fields = %q / %q", got.BusinessShortCode, got.PartyB)
	}
	if got.TransactionType != "CustomerPayBillOnline" {
		t.Errorf("TransactionType = %q", got.TransactionType)
	}
	if got.PartyA != "254712345678" || got.PhoneNumber != "254712345678" {
		t.Errorf("phone fields = %q / %q", got.PartyA, got.PhoneNumber)
	}
	if got.Amount != 1500 {
		t.Errorf("Amount = %d", got.Amount)
	}
	if got.AccountReference != "GeniusBaby Order" || got.TransactionDesc != "Payment for order" {
		t.Errorf("defaults not applied: %q / %q", got.AccountReference, got.TransactionDesc)
	}
	if len(got.Timestamp) != 14 {
		t.Errorf("Timestamp = %q, want 14 digits", got.Timestamp)
	}
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "testpasskey" + got.Timestamp))
	if got.Password != wantPassword {
		t.Errorf("Password = %q, want %q", got.Password, wantPassword)
	}

	// A second push reuses the cached token.
	if _, err := client.STKPush(context.Background(), STKPushInput{Phone: "254712345678", Amount: 10}); err != nil {
		t.Fatalf("second STKPush() error = %v", err)
	}
	if *tokenCalls != 1 {
		t.Errorf("token endpoint called %d times, want 1", *tokenCalls)
	}
}

func TestSTKPushBusinessReject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"requestId":    "16813-15-1",
			"errorCode":    "400.002.02",
			"errorMessage": "Bad Request - Invalid PhoneNumber",
		})
	})

	resp, err := client.STKPush(context.Background(), STKPushInput{Phone: "254712345678", Amount: 10})
	if err != nil {
		t.Fatalf("STKPush() error = %v", err)
	}
	if resp.Accepted() {
		t.Errorf("Accepted() = true for a reject")
	}
	if resp.Err() == nil || !strings.Contains(resp.Err().Error(), "400.002.02") {
		t.Errorf("Err() = %v, want error code in message", resp.Err())
	}
}

func TestSTKQuery(t *testing.T) {
	t.Run("resolved cancel", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/mpesa/stkpushquery/v1/query" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req stkQueryRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.CheckoutRequestID != "ws_CO_1" {
				t.Errorf("CheckoutRequestID = %q", req.CheckoutRequestID)
			}
			json.NewEncoder(w).Encode(map[string]string{
				"ResponseCode":      "0",
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_1",
				"ResultCode":        "1032",
				"ResultDesc":        "Request cancelled by user",
			})
		})

		resp, err := client.STKQuery(context.Background(), "ws_CO_1")
		if err != nil {
			t.Fatalf("STKQuery() error = %v", err)
		}
		if !resp.Resolved() {
			t.Errorf("Resolved() = false, want true")
		}
		if code := resp.ResultCodeInt(); code != 1032 || !IsCancelled(code) {
			t.Errorf("ResultCodeInt() = %d", code)
		}
	})

	t.Run("still processing", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"requestId":    "16813-15-1",
				"errorCode":    "500.001.1001",
				"errorMessage": "The transaction is being processed",
			})
		})

		resp, err := client.STKQuery(context.Background(), "ws_CO_2")
		if err != nil {
			t.Fatalf("STKQuery() error = %v", err)
		}
		if resp.Resolved() {
			t.Errorf("Resolved() = true while processing")
		}
		if resp.ErrorCode != ErrCodeProcessing {
			t.Errorf("ErrorCode = %q, want %q", resp.ErrorCode, ErrCodeProcessing)
		}
	})
}

func TestCallbackDecode(t *testing.T) {
	payload := `{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "29115-34620561-1",
	      "CheckoutRequestID": "ws_CO_191220191020363925",
	      "ResultCode": 0,
	      "ResultDesc": "The service request is processed successfully.",
	      "CallbackMetadata": {
	        "Item": [
	          {"Name": "Amount", "Value": 1500.00},
	          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
	          {"Name": "TransactionDate", "Value": 20260823104512},
	          {"Name": "PhoneNumber", "Value": 254712345678}
	        ]
	      }
	    }
	  }
	}`

	var env CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}

	cb := env.Body.StkCallback
	if !cb.Success() {
		t.Errorf("Success() = false, want true")
	}
	if cb.Receipt() != "NLJ7RT61SV" {
		t.Errorf("Receipt() = %q", cb.Receipt())
	}
	if cb.Amount() != 1500 {
		t.Errorf("Amount() = %v", cb.Amount())
	}
	if cb.PhoneNumber() != "254712345678" {
		t.Errorf("PhoneNumber() = %q", cb.PhoneNumber())
	}
	if cb.TransactionDate() != "20260823104512" {
		t.Errorf("TransactionDate() = %q", cb.TransactionDate())
	}
}

func TestCallbackDecodeFailure(t *testing.T) {
	payload := `{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "29115-34620561-1",
	      "CheckoutRequestID": "ws_CO_191220191020363925",
	      "ResultCode": 1032,
	      "ResultDesc": "Request cancelled by user"
	    }
	  }
	}`

	var env CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}

	cb := env.Body.StkCallback
	if cb.Success() {
		t.Errorf("Success() = true for a cancel")
	}
	if cb.Receipt() != "" || cb.Amount() != 0 {
		t.Errorf("metadata should be empty, got %q / %v", cb.Receipt(), cb.Amount())
	}
	if !IsCancelled(cb.ResultCode) || IsTimeout(cb.ResultCode) {
		t.Errorf("classification wrong for %d", cb.ResultCode)
	}
}
