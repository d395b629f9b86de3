package mailjet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wanderly/wanderly-backend/internal/pkg/ctxutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
	"github.com/wanderly/wanderly-backend/internal/pkg/httpx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	SecretKey        string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
	MaxRetries       int
}

func ConfigFromEnv() Config {
	timeoutSec := envutil.Int("MAILJET_TIMEOUT_SECONDS", 30)
	maxRetries := envutil.Int("MAILJET_MAX_RETRIES", 4)
	return Config{
		APIKey:           strings.TrimSpace(os.Getenv("MAILJET_API_KEY")),
		SecretKey:        strings.TrimSpace(os.Getenv("MAILJET_SECRET_KEY")),
		BaseURL:          strings.TrimSpace(os.Getenv("MAILJET_BASE_URL")),
		DefaultFromEmail: strings.TrimSpace(os.Getenv("MAILJET_FROM_EMAIL")),
		DefaultFromName:  strings.TrimSpace(os.Getenv("MAILJET_FROM_NAME")),
		Timeout:          time.Duration(timeoutSec) * time.Second,
		MaxRetries:       maxRetries,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("missing MAILJET_API_KEY / MAILJET_SECRET_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.mailjet.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 4
	}

	return &client{
		log:        log.With("client", "MailjetClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	maxRetries int
}

// --- public request/response types ---

type EmailAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type SendEmailRequest struct {
	From    EmailAddress
	To      []EmailAddress
	Subject string
	Text    string
	HTML    string
}

type SendEmailResult struct {
	StatusCode int
	MessageIDs []int64
}

// --- Mailjet v3.1 wire types ---

type sendRequest struct {
	Messages []wireMessage `json:"Messages"`
}

type wireMessage struct {
	From     EmailAddress   `json:"From"`
	To       []EmailAddress `json:"To"`
	Subject  string         `json:"Subject,omitempty"`
	TextPart string         `json:"TextPart,omitempty"`
	HTMLPart string         `json:"HTMLPart,omitempty"`
}

type sendResponse struct {
	Messages []struct {
		Status string `json:"Status"`
		To     []struct {
			MessageID int64 `json:"MessageID"`
		} `json:"To"`
	} `json:"Messages"`
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("mailjet client unavailable")
	}

	if strings.TrimSpace(req.From.Email) == "" {
		req.From.Email = c.cfg.DefaultFromEmail
		if strings.TrimSpace(req.From.Name) == "" {
			req.From.Name = c.cfg.DefaultFromName
		}
	}
	req.From.Email = strings.TrimSpace(req.From.Email)
	req.Subject = strings.TrimSpace(req.Subject)

	if req.From.Email == "" {
		return nil, fmt.Errorf("mailjet: From.Email required (or set MAILJET_FROM_EMAIL)")
	}
	if len(req.To) == 0 {
		return nil, fmt.Errorf("mailjet: To required")
	}
	if req.Subject == "" {
		return nil, fmt.Errorf("mailjet: Subject required")
	}
	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.HTML) == "" {
		return nil, fmt.Errorf("mailjet: Text or HTML content required")
	}

	wire := sendRequest{Messages: []wireMessage{{
		From:     req.From,
		To:       req.To,
		Subject:  req.Subject,
		TextPart: req.Text,
		HTMLPart: req.HTML,
	}}}

	resp, raw, err := c.do(ctx, "POST", "/v3.1/send", wire)
	if err != nil {
		return nil, err
	}

	out := &SendEmailResult{StatusCode: resp.StatusCode}
	var parsed sendResponse
	if json.Unmarshal(raw, &parsed) == nil {
		for _, m := range parsed.Messages {
			for _, to := range m.To {
				out.MessageIDs = append(out.MessageIDs, to.MessageID)
			}
		}
	}
	return out, nil
}

// ---------- HTTP / retry helpers ----------

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "mailjet: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("mailjet http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) do(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return resp, raw, nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Mailjet request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, nil, errors.New("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.SecretKey)
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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return resp, raw, nil
}
