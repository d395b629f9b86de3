package flouci

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
	"time"

	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/httpx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

// Client wraps the Flouci payment gateway. Amounts are in millimes.
type Client interface {
	// GeneratePayment opens a payment and returns the id plus the
	// hosted payment link the buyer completes it on.
	GeneratePayment(ctx context.Context, amountMillimes int64, trackingID string) (*Payment, error)

	// VerifyPayment reports whether the payment completed.
	VerifyPayment(ctx context.Context, paymentID string) (*VerifyResult, error)
}

type Payment struct {
	ID      string
	PayURL  string
	Raw     json.RawMessage
	Success bool
}

type VerifyResult struct {
	Status    string
	Completed bool
	Raw       json.RawMessage
}

type client struct {
	log        *logger.Logger
	baseURL    string
	appToken   string
	appSecret  string
	acceptCard bool
	timeoutMin int
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	appToken := strings.TrimSpace(os.Getenv("FLOUCI_APP_TOKEN"))
	appSecret := strings.TrimSpace(os.Getenv("FLOUCI_APP_SECRET"))
	if appToken == "" || appSecret == "" {
		return nil, fmt.Errorf("missing FLOUCI_APP_TOKEN / FLOUCI_APP_SECRET")
	}

	baseURL := strings.TrimSpace(os.Getenv("FLOUCI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://developers.flouci.com/api"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := envutil.Int("FLOUCI_TIMEOUT_SECONDS", 30)
	maxRetries := envutil.Int("FLOUCI_MAX_RETRIES", 4)

	return &client{
		log:        log.With("client", "FlouciClient"),
		baseURL:    baseURL,
		appToken:   appToken,
		appSecret:  appSecret,
		acceptCard: envutil.Bool("FLOUCI_ACCEPT_CARD", true),
		timeoutMin: envutil.Int("FLOUCI_SESSION_TIMEOUT_MINUTES", 20),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

// ---------- wire types ----------

type generateRequest struct {
	AppToken          string `json:"app_token"`
	AppSecret         string `json:"app_secret"`
	Amount            string `json:"amount"`
	AcceptCard        bool   `json:"accept_card"`
	SessionTimeoutSec int    `json:"session_timeout_secs"`
	SuccessLink       string `json:"success_link,omitempty"`
	FailLink          string `json:"fail_link,omitempty"`
	DeveloperTracking string `json:"developer_tracking_id,omitempty"`
}

type generateResponse struct {
	Result struct {
		Link      string `json:"link"`
		PaymentID string `json:"payment_id"`
		Success   bool   `json:"success"`
	} `json:"result"`
}

type verifyResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Status string `json:"status"`
	} `json:"result"`
}

func (c *client) GeneratePayment(ctx context.Context, amountMillimes int64, trackingID string) (*Payment, error) {
	if amountMillimes <= 0 {
		return nil, fmt.Errorf("flouci: amount must be positive")
	}

	wire := generateRequest{
		AppToken:          c.appToken,
		AppSecret:         c.appSecret,
		Amount:            fmt.Sprintf("%d", amountMillimes),
		AcceptCard:        c.acceptCard,
		SessionTimeoutSec: c.timeoutMin * 60,
		SuccessLink:       strings.TrimSpace(os.Getenv("FLOUCI_SUCCESS_LINK")),
		FailLink:          strings.TrimSpace(os.Getenv("FLOUCI_FAIL_LINK")),
		DeveloperTracking: strings.TrimSpace(trackingID),
	}

	raw, err := c.do(ctx, "POST", "/generate_payment", wire, false)
	if err != nil {
		return nil, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Result.PaymentID == "" {
		return nil, fmt.Errorf("flouci: generate response missing payment_id")
	}
	return &Payment{
		ID:      parsed.Result.PaymentID,
		PayURL:  parsed.Result.Link,
		Success: parsed.Result.Success,
		Raw:     raw,
	}, nil
}

func (c *client) VerifyPayment(ctx context.Context, paymentID string) (*VerifyResult, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("flouci: paymentID required")
	}

	raw, err := c.do(ctx, "GET", "/verify_payment/"+url.PathEscape(paymentID), nil, true)
	if err != nil {
		return nil, err
	}

	var parsed verifyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(parsed.Result.Status))
	return &VerifyResult{
		Status:    status,
		Completed: parsed.Success && status == "SUCCESS",
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
		return "flouci: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("flouci http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) do(ctx context.Context, method, path string, body any, authHeaders bool) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body, authHeaders)
		if err == nil {
			return raw, nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Flouci request retrying",
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

func (c *client) doOnce(ctx context.Context, method, path string, body any, authHeaders bool) (*http.Response, []byte, error) {
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
	req.Header.Set("Content-Type", "application/json")
	if authHeaders {
		// Verify endpoint authenticates via headers, not the body.
		req.Header.Set("apppublic", c.appToken)
		req.Header.Set("appsecret", c.appSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return resp, raw, nil
}
