package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/httpx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

// Client wraps the PayPal Orders v2 API.
type Client interface {
	// CreateOrder opens an order for the given amount and returns the
	// provider order id plus the buyer approval link.
	CreateOrder(ctx context.Context, amount float64, currency string, description string) (*Order, error)

	// CaptureOrder captures an approved order.
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
}

type Order struct {
	ID         string
	Status     string
	ApproveURL string
	Raw        json.RawMessage
}

type CaptureResult struct {
	ID        string
	Status    string
	Completed bool
	Raw       json.RawMessage
}

type client struct {
	log        *logger.Logger
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
	maxRetries int

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	clientID := strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_ID"))
	secret := strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_SECRET"))
	if clientID == "" || secret == "" {
		return nil, fmt.Errorf("missing PAYPAL_CLIENT_ID / PAYPAL_CLIENT_SECRET")
	}

	baseURL := strings.TrimSpace(os.Getenv("PAYPAL_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api-m.sandbox.paypal.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := envutil.Int("PAYPAL_TIMEOUT_SECONDS", 30)
	maxRetries := envutil.Int("PAYPAL_MAX_RETRIES", 4)

	return &client{
		log:        log.With("client", "PayPalClient"),
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

// ---------- OAuth ----------

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached bearer token, refreshing it one minute before expiry.
func (c *client) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), "POST",
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("paypal: empty access token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// ---------- Orders ----------

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	Amount      amount `json:"amount"`
	Description string `json:"description,omitempty"`
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func (c *client) CreateOrder(ctx context.Context, amt float64, currency string, description string) (*Order, error) {
	if amt <= 0 {
		return nil, fmt.Errorf("paypal: amount must be positive")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}

	wire := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount:      amount{CurrencyCode: currency, Value: fmt.Sprintf("%.2f", amt)},
			Description: strings.TrimSpace(description),
		}},
	}

	raw, err := c.do(ctx, "POST", "/v2/checkout/orders", wire)
	if err != nil {
		return nil, err
	}

	var parsed orderResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("paypal: order response missing id")
	}

	out := &Order{ID: parsed.ID, Status: parsed.Status, Raw: raw}
	for _, l := range parsed.Links {
		if l.Rel == "approve" {
			out.ApproveURL = l.Href
		}
	}
	return out, nil
}

func (c *client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("paypal: orderID required")
	}

	raw, err := c.do(ctx, "POST", "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", struct{}{})
	if err != nil {
		return nil, err
	}

	var parsed orderResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	return &CaptureResult{
		ID:        parsed.ID,
		Status:    parsed.Status,
		Completed: parsed.Status == "COMPLETED",
		Raw:       raw,
	}, nil
}

// ---------- HTTP / retry helpers ----------

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "paypal: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("paypal http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return raw, nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("PayPal request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, errors.New("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have been revoked early; drop the cache so the next
		// attempt re-authenticates.
		c.tokenMu.Lock()
		c.accessToken = ""
		c.tokenMu.Unlock()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return resp, raw, nil
}
