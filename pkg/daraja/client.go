package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL  = "https://sandbox.safaricom.co.ke"
	maxResponseSize = 1 << 20

	// tokenSafety is shaved off the advertised token lifetime so a cached
	// token is never presented mid-expiry.
	tokenSafety = 60 * time.Second
)

// Daraja expects password timestamps in Kenyan local time.
var nairobi = time.FixedZone("EAT", 3*3600)

var phoneRe = regexp.MustCompile(`^(?:2547\d{8}|07\d{8})$`)

// FormatPhone normalizes a Safaricom MSISDN to 2547XXXXXXXX form. Returns
// "" for anything else.
func FormatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if !phoneRe.MatchString(phone) {
		return ""
	}
	if strings.HasPrefix(phone, "07") {
		return "254" + phone[1:]
	}
	return phone
}

// Config holds Daraja credentials and endpoints.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
}

// Client is a Daraja API client with a cached OAuth token.
type Client struct {
	config     Config
	httpClient *http.Client
	debug      bool

	tokenMu  sync.RWMutex
	token    string
	tokenExp time.Time
}

// NewClient creates a Daraja client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		debug: os.Getenv("ENV") == "development",
	}
}

// ensureToken returns a valid access token, fetching a fresh grant when the
// cached one is missing or about to expire.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	if c.token != "" && time.Now().Before(c.tokenExp) {
		token := c.token
		c.tokenMu.RUnlock()
		return token, nil
	}
	c.tokenMu.RUnlock()

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token request returned status %d: %s", resp.StatusCode, string(body))
	}

	var grant oauthResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", fmt.Errorf("unmarshal token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	lifetime := time.Hour
	if secs, err := strconv.Atoi(grant.ExpiresIn); err == nil && secs > 0 {
		lifetime = time.Duration(secs) * time.Second
	}
	if lifetime > tokenSafety {
		lifetime -= tokenSafety
	}

	c.token = grant.AccessToken
	c.tokenExp = time.Now().Add(lifetime)
	return c.token, nil
}

// timestamp returns the password timestamp for the current instant.
func (c *Client) timestamp() string {
	return time.Now().In(nairobi).Format("20060102150405")
}

// password derives the STK password for a given timestamp.
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.config.ShortCode + c.config.Passkey + timestamp))
}

// STKPush asks Daraja to pop a payment prompt on the customer handset.
func (c *Client) STKPush(ctx context.Context, input STKPushInput) (*STKPushResponse, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	if input.AccountReference == "" {
		input.AccountReference = "GeniusBaby Order"
	}
	if input.TransactionDesc == "" {
		input.TransactionDesc = "Payment for order"
	}

	ts := c.timestamp()
	payload := stkPushRequest{
		BusinessShortCode: c.config.ShortCode,
		Password:          c.password(ts),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            input.Amount,
		PartyA:            input.Phone,
		PartyB:            c.config.ShortCode,
		PhoneNumber:       input.Phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  input.AccountReference,
		TransactionDesc:   input.TransactionDesc,
	}

	var result STKPushResponse
	if err := c.doRequest(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// STKQuery asks Daraja for the outcome of an earlier push.
func (c *Client) STKQuery(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := c.timestamp()
	payload := stkQueryRequest{
		BusinessShortCode: c.config.ShortCode,
		Password:          c.password(ts),
		Timestamp:         ts,
		CheckoutRequestID: checkoutRequestID,
	}

	var result STKQueryResponse
	if err := c.doRequest(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doRequest posts a JSON payload to a Daraja endpoint. Business rejects
// arrive as JSON bodies on non-2xx statuses, so any body that decodes is
// handed back for result-code inspection.
func (c *Client) doRequest(ctx context.Context, path, token string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", path).
			RawJSON("payload", body).
			Msg("[DARAJA] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", path).
			Int("status", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[DARAJA] Received response")
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("daraja returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
