package pricefeed

import (
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

// Client fetches current prices for watched items. The alert sweeper is
// its only consumer.
type Client interface {
	Quote(ctx context.Context, itemType string, itemID string) (*Quote, error)
}

type Quote struct {
	ItemType string  `json:"item_type"`
	ItemID   string  `json:"item_id"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimSpace(os.Getenv("PRICEFEED_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing PRICEFEED_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := envutil.Int("PRICEFEED_TIMEOUT_SECONDS", 15)
	maxRetries := envutil.Int("PRICEFEED_MAX_RETRIES", 3)

	return &client{
		log:        log.With("client", "PriceFeedClient"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(os.Getenv("PRICEFEED_API_KEY")),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "pricefeed: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("pricefeed http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) Quote(ctx context.Context, itemType string, itemID string) (*Quote, error) {
	itemType = strings.TrimSpace(itemType)
	itemID = strings.TrimSpace(itemID)
	if itemType == "" || itemID == "" {
		return nil, fmt.Errorf("pricefeed: itemType and itemID required")
	}

	path := fmt.Sprintf("/v1/quotes/%s/%s", url.PathEscape(itemType), url.PathEscape(itemID))
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path)
		if err == nil {
			var q Quote
			if err := json.Unmarshal(raw, &q); err != nil {
				return nil, err
			}
			if q.Price <= 0 {
				return nil, fmt.Errorf("pricefeed: non-positive price for %s/%s", itemType, itemID)
			}
			return &q, nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("PriceFeed request retrying",
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

func (c *client) doOnce(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
